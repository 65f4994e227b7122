// Package plural maps target languages to the numerus forms Qt Linguist
// expects in a TS file and selects the form for a runtime count.
//
// Category selection uses the CLDR cardinal rules shipped with
// golang.org/x/text. The per-language table below only records how many
// <numerusform> entries a translation carries and in which order, which is
// the part CLDR does not define. Languages whose Qt rule does not line up
// with the CLDR categories select their form through qtRules instead.
package plural

import (
	"strings"

	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
)

var (
	oneForm   = []plural.Form{plural.Other}
	twoForms  = []plural.Form{plural.One, plural.Other}
	eastSlav  = []plural.Form{plural.One, plural.Few, plural.Many}
	westSlav  = []plural.Form{plural.One, plural.Few, plural.Other}
	slovenian = []plural.Form{plural.One, plural.Two, plural.Few, plural.Other}
	arabic    = []plural.Form{plural.Zero, plural.One, plural.Two, plural.Few, plural.Many, plural.Other}
)

// table is keyed by base language. Languages absent from it use twoForms.
var table = map[string][]plural.Form{
	"ja": oneForm, "ko": oneForm, "zh": oneForm, "vi": oneForm, "th": oneForm,
	"id": oneForm, "ms": oneForm, "lo": oneForm, "km": oneForm, "my": oneForm,
	"hu": oneForm, "tr": oneForm, "fa": oneForm, "bo": oneForm, "jv": oneForm,

	"ru": eastSlav, "uk": eastSlav, "be": eastSlav, "pl": eastSlav,

	"cs": westSlav, "sk": westSlav, "hr": westSlav, "sr": westSlav, "bs": westSlav,
	"lt": westSlav, "ro": westSlav,

	"lv": {plural.One, plural.Other, plural.Zero},
	"ga": {plural.One, plural.Two, plural.Other},
	"mt": {plural.One, plural.Few, plural.Many, plural.Other},
	"cy": {plural.One, plural.Two, plural.Few, plural.Other},
	"sl": slovenian,
	"ar": arabic,
}

// qtRules maps n straight to a form index for languages where CLDR groups
// counts differently from Qt Linguist's numerus rules.
var qtRules = map[string]func(n int) int{
	// CLDR "zero" also covers 10-20, 30, ...; Qt keeps the last form for 0 only.
	"lv": func(n int) int {
		switch {
		case n%10 == 1 && n%100 != 11:
			return 0
		case n != 0:
			return 1
		}
		return 2
	},
	"ga": func(n int) int {
		switch n {
		case 1:
			return 0
		case 2:
			return 1
		}
		return 2
	},
	"mt": func(n int) int {
		switch r := n % 100; {
		case n == 1:
			return 0
		case n == 0 || (r >= 1 && r <= 10):
			return 1
		case r >= 11 && r <= 19:
			return 2
		}
		return 3
	},
	"cy": func(n int) int {
		switch n {
		case 1:
			return 0
		case 2:
			return 1
		case 8, 11:
			return 2
		}
		return 3
	},
}

// Tag parses a language code such as "bg", "bg_BG" or "pt-BR".
// Unparseable codes yield language.Und.
func Tag(lang string) language.Tag {
	lang = strings.TrimSpace(strings.ReplaceAll(lang, "_", "-"))
	if lang == "" {
		return language.Und
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return language.Und
	}
	return tag
}

func base(lang string) string {
	b, _ := Tag(lang).Base()
	return b.String()
}

// Forms returns the ordered numerus categories for lang.
func Forms(lang string) []plural.Form {
	if forms, ok := table[base(lang)]; ok {
		return forms
	}
	return twoForms
}

// Count returns the number of numerus forms a translation into lang carries.
func Count(lang string) int {
	return len(Forms(lang))
}

// Index returns the position of the numerus form that n selects in lang.
func Index(lang string, n int) int {
	if n < 0 {
		n = -n
	}
	forms := Forms(lang)
	b := base(lang)
	if rule, ok := qtRules[b]; ok {
		return rule(n)
	}
	var form plural.Form
	if b == "und" {
		form = plural.Other
		if n == 1 {
			form = plural.One
		}
	} else {
		form = plural.Cardinal.MatchPlural(language.Make(b), n, 0, 0, 0, 0)
	}
	for i, f := range forms {
		if f == form {
			return i
		}
	}
	return len(forms) - 1
}

// Names returns the CLDR keywords for the forms of lang, e.g. [one other].
func Names(lang string) []string {
	forms := Forms(lang)
	names := make([]string, len(forms))
	for i, f := range forms {
		names[i] = formName(f)
	}
	return names
}

func formName(f plural.Form) string {
	switch f {
	case plural.Zero:
		return "zero"
	case plural.One:
		return "one"
	case plural.Two:
		return "two"
	case plural.Few:
		return "few"
	case plural.Many:
		return "many"
	}
	return "other"
}
