// Package i18n provides internationalization support for tskit itself.
//
// It wraps the gotext library to provide simple T() and N() functions
// for translating tskit's user-facing strings. Translations are embedded
// in the binary via //go:embed and loaded at startup via Init().
//
// Usage:
//
//	import "github.com/minios-linux/tskit/i18n"
//
//	func main() {
//	    i18n.Init("")  // auto-detect from LANGUAGE/LC_ALL/LC_MESSAGES/LANG
//	    fmt.Println(i18n.T("No TS files found"))
//	    fmt.Println(i18n.N("%d issue", "%d issues", count))
//	}
package i18n

import (
	"embed"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/leonelquinteros/gotext"
	"golang.org/x/text/language"
)

// locales embeds the .po translation files.
// Directory structure: locales/{lang}/LC_MESSAGES/tskit.po
//
//go:embed all:locales
var locales embed.FS

// domain is the gettext domain name for tskit.
const domain = "tskit"

// po is the gotext locale object used for translations.
var po *gotext.Locale

// current is the language Init settled on.
var current = "en"

// Init initializes the i18n system. If lang is empty, it auto-detects
// from the environment variables LANGUAGE, LC_ALL, LC_MESSAGES, LANG
// (in that order, matching GNU gettext behavior). The request is matched
// against the embedded locales, so "bg_BG" loads "bg".
//
// Init should be called once at program startup, before any T() or N() calls.
func Init(lang string) {
	if lang == "" {
		lang = detectLanguage()
	}
	current = match(lang, Available())

	po = gotext.NewLocaleFSWithPath(current, locales, "locales")
	po.AddDomain(domain)
	po.SetDomain(domain)
}

// Language returns the language selected by Init.
func Language() string {
	return current
}

// Available lists the embedded translation languages, sorted.
func Available() []string {
	entries, err := fs.ReadDir(locales, "locales")
	if err != nil {
		return nil
	}
	var langs []string
	for _, e := range entries {
		if e.IsDir() {
			langs = append(langs, e.Name())
		}
	}
	sort.Strings(langs)
	return langs
}

// match picks the embedded locale closest to lang, or "en" when none fits.
func match(lang string, available []string) string {
	if len(available) == 0 {
		return "en"
	}
	want, err := language.Parse(strings.ReplaceAll(lang, "_", "-"))
	if err != nil {
		return "en"
	}
	tags := []language.Tag{language.English}
	for _, a := range available {
		tags = append(tags, language.Make(strings.ReplaceAll(a, "_", "-")))
	}
	_, idx, conf := language.NewMatcher(tags).Match(want)
	if conf == language.No || idx == 0 {
		return "en"
	}
	return available[idx-1]
}

// T translates a string. If no translation is available, returns the
// original string unchanged (standard gettext passthrough behavior).
func T(msgid string) string {
	if po == nil {
		return msgid
	}
	return po.Get(msgid)
}

// N translates a string with plural forms. The singular form is used
// when n == 1, the plural form otherwise (exact rules depend on the
// target language's plural formula).
func N(singular, plural string, n int) string {
	if po == nil {
		if n == 1 {
			return singular
		}
		return plural
	}
	return po.GetN(singular, plural, n)
}

// detectLanguage reads environment variables to determine the user's
// preferred language, following GNU gettext conventions.
func detectLanguage() string {
	// GNU gettext priority: LANGUAGE > LC_ALL > LC_MESSAGES > LANG
	for _, env := range []string{"LANGUAGE", "LC_ALL", "LC_MESSAGES", "LANG"} {
		if val := os.Getenv(env); val != "" {
			// LANGUAGE can be a colon-separated list; take the first
			if env == "LANGUAGE" {
				parts := strings.SplitN(val, ":", 2)
				val = parts[0]
			}
			// Strip encoding suffix (e.g. "bg_BG.UTF-8" -> "bg_BG")
			if idx := strings.IndexByte(val, '.'); idx >= 0 {
				val = val[:idx]
			}
			// Skip "C" and "POSIX": these mean no translation
			if val == "C" || val == "POSIX" || val == "" {
				continue
			}
			return val
		}
	}
	return "en"
}
