package capability

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	msiePattern = regexp.MustCompile(`MSIE (\d+)`)

	crawlerMarkers = []string{
		"googlebot", "bingbot", "slurp", "duckduckbot", "baiduspider",
		"yandexbot", "facebookexternalhit", "crawler", "spider",
	}

	rtlLanguages = map[string]bool{
		"ar": true, "dv": true, "fa": true, "he": true,
		"ps": true, "ur": true, "yi": true,
	}
)

// FromUserAgent derives an Env from a User-Agent header. Crawlers are
// assumed not to run scripts.
func FromUserAgent(ua string) Env {
	env := Standard()
	lower := strings.ToLower(ua)

	for _, marker := range crawlerMarkers {
		if strings.Contains(lower, marker) {
			env.Crawler = true
			env.Scripting = false
			break
		}
	}

	switch {
	case strings.Contains(ua, "Konqueror"):
		env.Runtime = RuntimeKHTML
	case msiePattern.MatchString(ua):
		version, _ := strconv.Atoi(msiePattern.FindStringSubmatch(ua)[1])
		if version < 9 {
			env.Runtime = RuntimeLegacyIE
			env.Quirks |= QuirkKeyPressAsKeyDown
			if version < 7 {
				env.Quirks |= QuirkNoMinMaxSize
			}
		}
	}

	return env
}

// DirectionForLanguage returns the text direction of a language tag such
// as "he" or "ar-EG".
func DirectionForLanguage(lang string) Direction {
	base, _, _ := strings.Cut(strings.ToLower(strings.TrimSpace(lang)), "-")
	base, _, _ = strings.Cut(base, "_")
	if rtlLanguages[base] {
		return RightToLeft
	}
	return LeftToRight
}
