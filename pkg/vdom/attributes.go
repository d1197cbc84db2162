package vdom

import (
	"strings"
	"time"
)

// attr creates an Attr with the given key and value.
func attr(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// ID sets the element identity.
func ID(id string) Attr { return attr("id", id) }

// Class sets the class attribute, joining multiple classes with spaces.
func Class(classes ...string) Attr { return attr("class", strings.Join(classes, " ")) }

// Data sets a data-* attribute: Data("row", "3") is data-row="3".
func Data(key, value string) Attr { return attr("data-"+key, value) }

// Css sets a single style property by its CSS name.
func Css(name, value string) Attr { return attr(StylePrefix+name, value) }

// Display sets the display style. Toggling only this property produces
// the cheapest update.
func Display(value string) Attr { return Css("display", value) }

func AriaHidden(hidden bool) Attr  { return attr("aria-hidden", hidden) }
func Hidden() Attr                 { return attr("hidden", true) }
func TitleAttr(title string) Attr  { return attr("title", title) }
func Lang(lang string) Attr        { return attr("lang", lang) }
func Href(url string) Attr         { return attr("href", url) }
func Value(value string) Attr      { return attr("value", value) }
func Type(t string) Attr           { return attr("type", t) }
func Placeholder(text string) Attr { return attr("placeholder", text) }
func Disabled() Attr               { return attr("disabled", true) }
func Required() Attr               { return attr("required", true) }
func Checked() Attr                { return attr("checked", true) }

// Timers

// Every fires a timer event on the element at the given interval.
func Every(interval time.Duration) Attr {
	return attr(TimerKey, Timer{Interval: interval, Repeat: true})
}

// After fires a timer event on the element once.
func After(delay time.Duration) Attr {
	return attr(TimerKey, Timer{Interval: delay})
}

// AttrIf yields a when cond holds and an attribute that is ignored
// otherwise.
func AttrIf(cond bool, a Attr) Attr {
	if cond {
		return a
	}
	return Attr{}
}
