package dom

// Property is a node property. It is either a Style, which contributes to
// the node's inline style, or a Plain property such as value or checked.
type Property interface {
	String() string
	rank() int
	isProperty()
}

// Style is an inline style property.
type Style uint8

const (
	StylePosition Style = iota
	StyleZIndex
	StyleFloat
	StyleClear
	StyleWidth
	StyleHeight
	StyleLineHeight
	StyleMinWidth
	StyleMinHeight
	StyleMaxWidth
	StyleMaxHeight
	StyleLeft
	StyleRight
	StyleTop
	StyleBottom
	StyleVerticalAlign
	StyleTextAlign
	StylePadding
	StylePaddingTop
	StylePaddingRight
	StylePaddingBottom
	StylePaddingLeft
	StyleMargin
	StyleMarginTop
	StyleMarginRight
	StyleMarginBottom
	StyleMarginLeft
	StyleCursor
	StyleBorder
	StyleColor
	StyleBackgroundColor
	StyleBackgroundImage
	StyleOverflowX
	StyleOverflowY
	StyleFontFamily
	StyleFontSize
	StyleFontWeight
	StyleFontStyle
	StyleTextDecoration
	StyleWhiteSpace
	StyleTableLayout
	StyleDisplay
	StyleVisibility
	StyleBoxSizing
	StyleOpacity
	styleCount
)

type styleName struct {
	css    string
	script string
}

var styleNames = [styleCount]styleName{
	StylePosition:        {"position", "position"},
	StyleZIndex:          {"z-index", "zIndex"},
	StyleFloat:           {"float", "cssFloat"},
	StyleClear:           {"clear", "clear"},
	StyleWidth:           {"width", "width"},
	StyleHeight:          {"height", "height"},
	StyleLineHeight:      {"line-height", "lineHeight"},
	StyleMinWidth:        {"min-width", "minWidth"},
	StyleMinHeight:       {"min-height", "minHeight"},
	StyleMaxWidth:        {"max-width", "maxWidth"},
	StyleMaxHeight:       {"max-height", "maxHeight"},
	StyleLeft:            {"left", "left"},
	StyleRight:           {"right", "right"},
	StyleTop:             {"top", "top"},
	StyleBottom:          {"bottom", "bottom"},
	StyleVerticalAlign:   {"vertical-align", "verticalAlign"},
	StyleTextAlign:       {"text-align", "textAlign"},
	StylePadding:         {"padding", "padding"},
	StylePaddingTop:      {"padding-top", "paddingTop"},
	StylePaddingRight:    {"padding-right", "paddingRight"},
	StylePaddingBottom:   {"padding-bottom", "paddingBottom"},
	StylePaddingLeft:     {"padding-left", "paddingLeft"},
	StyleMargin:          {"margin", "margin"},
	StyleMarginTop:       {"margin-top", "marginTop"},
	StyleMarginRight:     {"margin-right", "marginRight"},
	StyleMarginBottom:    {"margin-bottom", "marginBottom"},
	StyleMarginLeft:      {"margin-left", "marginLeft"},
	StyleCursor:          {"cursor", "cursor"},
	StyleBorder:          {"border", "border"},
	StyleColor:           {"color", "color"},
	StyleBackgroundColor: {"background-color", "backgroundColor"},
	StyleBackgroundImage: {"background-image", "backgroundImage"},
	StyleOverflowX:       {"overflow-x", "overflowX"},
	StyleOverflowY:       {"overflow-y", "overflowY"},
	StyleFontFamily:      {"font-family", "fontFamily"},
	StyleFontSize:        {"font-size", "fontSize"},
	StyleFontWeight:      {"font-weight", "fontWeight"},
	StyleFontStyle:       {"font-style", "fontStyle"},
	StyleTextDecoration:  {"text-decoration", "textDecoration"},
	StyleWhiteSpace:      {"white-space", "whiteSpace"},
	StyleTableLayout:     {"table-layout", "tableLayout"},
	StyleDisplay:         {"display", "display"},
	StyleVisibility:      {"visibility", "visibility"},
	StyleBoxSizing:       {"box-sizing", "boxSizing"},
	StyleOpacity:         {"opacity", "opacity"},
}

// CSSName returns the property name used in style text.
func (s Style) CSSName() string {
	if s >= styleCount {
		return ""
	}
	return styleNames[s].css
}

// ScriptName returns the property name on a style object.
func (s Style) ScriptName() string {
	if s >= styleCount {
		return ""
	}
	return styleNames[s].script
}

// String implements Property.
func (s Style) String() string { return "style." + s.CSSName() }

// IsBoxConstraint reports whether s is a min/max width/height property.
func (s Style) IsBoxConstraint() bool {
	switch s {
	case StyleMinWidth, StyleMinHeight, StyleMaxWidth, StyleMaxHeight:
		return true
	}
	return false
}

func (s Style) rank() int { return 1000 + int(s) }
func (s Style) isProperty() {}

// StyleByName looks up a style property by its CSS name.
func StyleByName(css string) (Style, bool) {
	s, ok := stylesByCSS[css]
	return s, ok
}

var stylesByCSS = func() map[string]Style {
	m := make(map[string]Style, styleCount)
	for s := Style(0); s < styleCount; s++ {
		m[styleNames[s].css] = s
	}
	return m
}()

// Plain is a property that is not part of the inline style.
type Plain uint8

const (
	// PropInnerHTML is the element content as markup. It is not escaped.
	PropInnerHTML Plain = iota
	// PropText is the element content as text. It is escaped.
	PropText
	PropValue
	PropChecked
	PropSelected
	PropDisabled
	PropReadOnly
	PropMultiple
	PropIndeterminate
	PropClass
	PropTarget
	PropPlaceholder
	PropLabel
	PropTabIndex
	PropColSpan
	PropRowSpan
	PropSrc
	PropDir
	plainCount
)

type plainName struct {
	attr    string // empty when the property has no markup form
	script  string
	boolean bool
}

var plainNames = [plainCount]plainName{
	PropInnerHTML:     {"", "innerHTML", false},
	PropText:          {"", "textContent", false},
	PropValue:         {"value", "value", false},
	PropChecked:       {"checked", "checked", true},
	PropSelected:      {"selected", "selected", true},
	PropDisabled:      {"disabled", "disabled", true},
	PropReadOnly:      {"readonly", "readOnly", true},
	PropMultiple:      {"multiple", "multiple", true},
	PropIndeterminate: {"", "indeterminate", true},
	PropClass:         {"class", "className", false},
	PropTarget:        {"target", "target", false},
	PropPlaceholder:   {"placeholder", "placeholder", false},
	PropLabel:         {"label", "label", false},
	PropTabIndex:      {"tabindex", "tabIndex", false},
	PropColSpan:       {"colspan", "colSpan", false},
	PropRowSpan:       {"rowspan", "rowSpan", false},
	PropSrc:           {"src", "src", false},
	PropDir:           {"dir", "dir", false},
}

// AttributeName returns the markup attribute for p, or "" when p is
// rendered as content or not at all.
func (p Plain) AttributeName() string {
	if p >= plainCount {
		return ""
	}
	return plainNames[p].attr
}

// ScriptName returns the element property name for p.
func (p Plain) ScriptName() string {
	if p >= plainCount {
		return ""
	}
	return plainNames[p].script
}

// IsBoolean reports whether p takes "true"/"false".
func (p Plain) IsBoolean() bool {
	return p < plainCount && plainNames[p].boolean
}

// String implements Property.
func (p Plain) String() string { return p.ScriptName() }

func (p Plain) rank() int { return int(p) }
func (p Plain) isProperty() {}

// PlainByName looks up a plain property by its element property name.
func PlainByName(name string) (Plain, bool) {
	for p := Plain(0); p < plainCount; p++ {
		if plainNames[p].script == name {
			return p, true
		}
	}
	return 0, false
}

// PlainByAttribute looks up a plain property by its markup attribute.
func PlainByAttribute(name string) (Plain, bool) {
	if name == "" {
		return 0, false
	}
	for p := Plain(0); p < plainCount; p++ {
		if plainNames[p].attr == name {
			return p, true
		}
	}
	return 0, false
}
