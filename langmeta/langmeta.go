// Package langmeta provides language display metadata (native names and
// emoji flags) for the CLI tables.
package langmeta

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Meta describes language display metadata.
type Meta struct {
	// Code is the canonical BCP 47 form of the input, e.g. "pt-BR".
	Code string
	// Name is the language name in the language itself.
	Name string
	// EnglishName is the language name in English.
	EnglishName string
	Flag        string
}

// flagOverrides pins flags where the most likely region is not the one
// translators expect to see.
var flagOverrides = map[string]string{
	"ca": "ES",
	"eu": "ES",
	"gl": "ES",
	"cy": "GB",
	"ar": "SA",
}

func canonicalize(lang string) string {
	normalized := strings.ReplaceAll(strings.TrimSpace(lang), "_", "-")
	if normalized == "" {
		return ""
	}
	parts := strings.Split(normalized, "-")
	parts[0] = strings.ToLower(parts[0])
	for i := 1; i < len(parts); i++ {
		switch len(parts[i]) {
		case 2:
			parts[i] = strings.ToUpper(parts[i])
		case 4:
			parts[i] = strings.ToUpper(parts[i][:1]) + strings.ToLower(parts[i][1:])
		}
	}
	return strings.Join(parts, "-")
}

// Resolve returns best-effort language metadata for language codes,
// supporting variants like pt_BR, pt-BR and unknown codes (passed through).
func Resolve(lang string) Meta {
	code := canonicalize(lang)
	tag, err := language.Parse(code)
	if err != nil || code == "" {
		return Meta{Code: lang, Name: lang}
	}

	m := Meta{
		Code:        code,
		Name:        capitalize(display.Self.Name(tag)),
		EnglishName: display.English.Tags().Name(tag),
		Flag:        flagFor(tag),
	}
	if m.Name == "" {
		base, _ := tag.Base()
		m.Name = capitalize(display.Self.Name(language.Make(base.String())))
	}
	if m.Name == "" {
		m.Name = lang
	}
	return m
}

func flagFor(tag language.Tag) string {
	region, conf := tag.Region()
	code := region.String()
	if conf != language.Exact {
		base, _ := tag.Base()
		if o, ok := flagOverrides[base.String()]; ok {
			code = o
		}
	}
	return FlagFromRegion(code)
}

// FlagFromRegion converts an ISO 3166 alpha-2 region code to its emoji flag.
// Other codes (numeric UN M.49 areas, "ZZ") return "".
func FlagFromRegion(region string) string {
	if len(region) != 2 || region == "ZZ" {
		return ""
	}
	region = strings.ToUpper(region)
	var b strings.Builder
	for _, c := range region {
		if c < 'A' || c > 'Z' {
			return ""
		}
		b.WriteRune(0x1F1E6 + c - 'A')
	}
	return b.String()
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
