package escape

import "testing"

func TestStringSingleRule(t *testing.T) {
	tests := []struct {
		name  string
		rule  Rule
		input string
		want  string
	}{
		{"attr plain", HTMLAttribute, "hello", "hello"},
		{"attr quote", HTMLAttribute, `say "hi"`, "say &#34;hi&#34;"},
		{"attr amp and lt", HTMLAttribute, "a<b&c", "a&lt;b&amp;c"},
		{"attr newline", HTMLAttribute, "a\nb", "a&#10;b"},
		{"js single quote", JSStringSingle, "it's", `it\'s`},
		{"js single keeps double", JSStringSingle, `"x"`, `"x"`},
		{"js double quote", JSStringDouble, `"x"`, `\"x\"`},
		{"js backslash", JSStringSingle, `a\b`, `a\\b`},
		{"js newline", JSStringSingle, "a\nb", `a\nb`},
		{"js script close", JSStringSingle, "</script>", `\x3C/script>`},
		{"text", PlainText, "<b> & </b>", "&lt;b&gt; &amp; &lt;/b&gt;"},
		{"text newline kept", PlainText, "a\nb", "a\nb"},
		{"text newlines", PlainTextNewlines, "a\nb", "a<br />b"},
		{"unicode", PlainText, "Hello 世界 🌍", "Hello 世界 🌍"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := String(tt.input, tt.rule); got != tt.want {
				t.Errorf("String(%q, %s) = %q, want %q", tt.input, tt.rule, got, tt.want)
			}
		})
	}
}

func TestStreamComposesRules(t *testing.T) {
	out := NewStream()
	out.AppendRaw(`<a onclick="`)
	out.Push(HTMLAttribute)
	out.AppendRaw("f('")
	out.Push(JSStringSingle)
	out.Append(`it's "q" <b>`)
	out.Pop()
	out.AppendRaw("')")
	out.Pop()
	out.AppendRaw(`">`)

	want := `<a onclick="f('it\'s &#34;q&#34; \x3Cb&gt;')">`
	if got := out.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if out.Depth() != 0 {
		t.Errorf("Depth() = %d, want 0", out.Depth())
	}
}

func TestAppendRawBypassesRules(t *testing.T) {
	out := NewStream()
	out.Push(JSStringSingle)
	out.AppendRaw("<p class='x'>")
	out.Append("'")
	if got, want := out.String(), `<p class='x'>\'`; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestDeriveSharesRulesNotText(t *testing.T) {
	out := NewStream()
	out.Push(JSStringSingle)
	out.AppendRaw("V.setHtml(j1,'")

	child := out.Derive()
	child.Append("<b>it's</b>")
	if got, want := child.String(), `\x3Cb>it\'s\x3C/b>`; got != want {
		t.Errorf("derived stream got %q, want %q", got, want)
	}

	child.Pop()
	if out.Depth() != 1 {
		t.Errorf("popping the derived stream changed the parent depth to %d", out.Depth())
	}

	out.AppendStream(child)
	out.Pop()
	out.AppendRaw("');")
	if got, want := out.String(), `V.setHtml(j1,'\x3Cb>it\'s\x3C/b>');`; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPopEmptyPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	NewStream().Pop()
}

func TestRoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"plain",
		`"double" and 'single'`,
		"<script>alert('x')</script>",
		`back\slash \' \" \\`,
		"&amp; already escaped &lt;",
		"lines\nand\r\ntabs\t",
		"<br /> literal",
		"mixed 世界 \x3C",
	}
	stacks := [][]Rule{
		{HTMLAttribute},
		{JSStringSingle},
		{JSStringDouble},
		{PlainText},
		{PlainTextNewlines},
		{HTMLAttribute, JSStringSingle},
		{HTMLAttribute, JSStringDouble},
		{JSStringSingle, PlainTextNewlines},
		{JSStringSingle, HTMLAttribute, JSStringSingle},
	}

	for _, rules := range stacks {
		for _, in := range inputs {
			out := NewStream()
			for _, r := range rules {
				out.Push(r)
			}
			out.Append(in)

			got, err := Decode(out.String(), rules...)
			if err != nil {
				t.Fatalf("Decode(%q, %v): %v", out.String(), rules, err)
			}
			if got != in {
				t.Errorf("rules %v: %q encoded to %q decoded to %q", rules, in, out.String(), got)
			}
		}
	}
}

func TestDecodeErrors(t *testing.T) {
	for _, s := range []string{`abc\`, `\q`, `\x4`, `\xZZ`} {
		if _, err := Decode(s, JSStringSingle); err == nil {
			t.Errorf("Decode(%q) should fail", s)
		}
	}
}
