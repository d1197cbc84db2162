package capability

import "testing"

func TestBulkReplaceTable(t *testing.T) {
	tests := []struct {
		tag     string
		runtime Runtime
		want    bool
	}{
		{"div", RuntimeStandard, true},
		{"table", RuntimeStandard, true},
		{"tbody", RuntimeStandard, true},
		{"div", RuntimeLegacyIE, true},
		{"table", RuntimeLegacyIE, false},
		{"TR", RuntimeLegacyIE, false},
		{"select", RuntimeKHTML, false},
		{"optgroup", RuntimeKHTML, false},
		{"span", RuntimeKHTML, true},
	}

	for _, tt := range tests {
		env := Env{Scripting: true, Runtime: tt.runtime}
		if got := env.CanBulkReplace(tt.tag); got != tt.want {
			t.Errorf("CanBulkReplace(%q) on %s = %v, want %v", tt.tag, tt.runtime, got, tt.want)
		}
	}
}

func TestTableIsIndependent(t *testing.T) {
	table := NewTable().Deny(RuntimeStandard, "canvas")
	if table.Allowed("canvas", RuntimeStandard) {
		t.Error("canvas should be denied")
	}
	if !table.Allowed("canvas", RuntimeLegacyIE) {
		t.Error("deny list must be per runtime")
	}
	if !BulkReplace.Allowed("canvas", RuntimeStandard) {
		t.Error("a new table must not change the default table")
	}
}

func TestFromUserAgent(t *testing.T) {
	tests := []struct {
		name      string
		ua        string
		runtime   Runtime
		scripting bool
		crawler   bool
		quirks    Quirk
	}{
		{
			name:      "chrome",
			ua:        "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36",
			runtime:   RuntimeStandard,
			scripting: true,
		},
		{
			name:      "ie6",
			ua:        "Mozilla/4.0 (compatible; MSIE 6.0; Windows NT 5.1)",
			runtime:   RuntimeLegacyIE,
			scripting: true,
			quirks:    QuirkKeyPressAsKeyDown | QuirkNoMinMaxSize,
		},
		{
			name:      "ie8",
			ua:        "Mozilla/4.0 (compatible; MSIE 8.0; Windows NT 6.1; Trident/4.0)",
			runtime:   RuntimeLegacyIE,
			scripting: true,
			quirks:    QuirkKeyPressAsKeyDown,
		},
		{
			name:      "ie10",
			ua:        "Mozilla/5.0 (compatible; MSIE 10.0; Windows NT 6.1; Trident/6.0)",
			runtime:   RuntimeStandard,
			scripting: true,
		},
		{
			name:      "konqueror",
			ua:        "Mozilla/5.0 (compatible; Konqueror/4.5; Linux) KHTML/4.5.4 (like Gecko)",
			runtime:   RuntimeKHTML,
			scripting: true,
		},
		{
			name:    "googlebot",
			ua:      "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)",
			runtime: RuntimeStandard,
			crawler: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := FromUserAgent(tt.ua)
			if env.Runtime != tt.runtime {
				t.Errorf("Runtime = %s, want %s", env.Runtime, tt.runtime)
			}
			if env.ScriptingAvailable() != tt.scripting {
				t.Errorf("ScriptingAvailable() = %v, want %v", env.ScriptingAvailable(), tt.scripting)
			}
			if env.IsCrawler() != tt.crawler {
				t.Errorf("IsCrawler() = %v, want %v", env.IsCrawler(), tt.crawler)
			}
			if env.Quirks != tt.quirks {
				t.Errorf("Quirks = %b, want %b", env.Quirks, tt.quirks)
			}
		})
	}
}

func TestDirectionForLanguage(t *testing.T) {
	tests := map[string]Direction{
		"en":    LeftToRight,
		"he":    RightToLeft,
		"ar-EG": RightToLeft,
		"fa_IR": RightToLeft,
		" UR ":  RightToLeft,
		"":      LeftToRight,
	}
	for lang, want := range tests {
		if got := DirectionForLanguage(lang); got != want {
			t.Errorf("DirectionForLanguage(%q) = %v, want %v", lang, got, want)
		}
	}
}

func TestQuirkHas(t *testing.T) {
	q := QuirkNoMinMaxSize | QuirkKeyPressAsKeyDown
	if !q.Has(QuirkNoMinMaxSize) || !q.Has(QuirkKeyPressAsKeyDown) {
		t.Error("expected both quirks")
	}
	if Quirk(0).Has(QuirkNoMinMaxSize) {
		t.Error("empty set has no quirks")
	}
}

func TestParseRuntime(t *testing.T) {
	for _, rt := range []Runtime{RuntimeStandard, RuntimeLegacyIE, RuntimeKHTML} {
		got, ok := ParseRuntime(rt.String())
		if !ok || got != rt {
			t.Errorf("ParseRuntime(%q) = %v, %v", rt.String(), got, ok)
		}
	}
	if _, ok := ParseRuntime("netscape"); ok {
		t.Error("unknown runtime parsed")
	}
}

func TestTableClone(t *testing.T) {
	c := BulkReplace.Clone().Deny(RuntimeStandard, "ul")
	if c.Allowed("ul", RuntimeStandard) {
		t.Error("clone ignored its own deny")
	}
	if !BulkReplace.Allowed("ul", RuntimeStandard) {
		t.Error("clone changed the original")
	}
	if c.Allowed("tr", RuntimeLegacyIE) {
		t.Error("clone lost the original entries")
	}
}
