// Package check validates the integrity and quality of a TS file.
//
// Integrity problems (duplicate keys, wrong numerus form count) are errors:
// a catalog built from such a file would drop or misplace translations.
// Quality findings follow the validations Qt Linguist offers to translators
// and are reported as warnings.
package check

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/minios-linux/tskit/plural"
	"github.com/minios-linux/tskit/tsfile"
)

// Severity of an issue.
type Severity int

const (
	Warning Severity = iota
	Error
)

func (s Severity) String() string {
	if s == Error {
		return "error"
	}
	return "warning"
}

// Kind names the check that produced an issue.
type Kind string

const (
	KindDuplicate    Kind = "duplicate"
	KindNumerusCount Kind = "numerus-count"
	KindEmpty        Kind = "empty"
	KindPlaceMarker  Kind = "place-marker"
	KindAccelerator  Kind = "accelerator"
	KindPunctuation  Kind = "punctuation"
)

// Issue is a single finding.
type Issue struct {
	Severity Severity
	Kind     Kind
	Context  string
	Source   string
	Comment  string
	Detail   string
}

func (i Issue) String() string {
	key := i.Context + ": " + i.Source
	if i.Comment != "" {
		key += " (" + i.Comment + ")"
	}
	return fmt.Sprintf("%s [%s] %s: %s", i.Severity, i.Kind, key, i.Detail)
}

// HasErrors reports whether any issue is an error.
func HasErrors(issues []Issue) bool {
	for _, i := range issues {
		if i.Severity == Error {
			return true
		}
	}
	return false
}

// Run checks every message of f.
func Run(f *tsfile.File) []Issue {
	var issues []Issue
	seen := make(map[tsfile.Key]bool)
	wantForms := plural.Count(f.Language)

	f.Each(func(c *tsfile.Context, m *tsfile.Message) {
		if !m.IsActive() {
			return
		}
		report := func(sev Severity, kind Kind, format string, args ...any) {
			issues = append(issues, Issue{
				Severity: sev,
				Kind:     kind,
				Context:  c.Name,
				Source:   m.Source,
				Comment:  m.Comment,
				Detail:   fmt.Sprintf(format, args...),
			})
		}

		key := tsfile.Key{Context: c.Name, Source: m.Source, Comment: m.Comment}
		if seen[key] {
			report(Error, KindDuplicate, "message appears more than once")
		}
		seen[key] = true

		if !m.IsFinished() {
			return
		}

		if m.Numerus {
			if len(m.NumerusForms) != wantForms {
				report(Error, KindNumerusCount, "%d numerus forms, %q needs %d (%s)",
					len(m.NumerusForms), f.Language, wantForms, strings.Join(plural.Names(f.Language), ", "))
			}
			for i, form := range m.NumerusForms {
				checkText(m.Source, form, func(kind Kind, detail string) {
					report(Warning, kind, "numerus form %d: %s", i, detail)
				})
			}
			return
		}

		checkText(m.Source, m.Translation, func(kind Kind, detail string) {
			report(Warning, kind, "%s", detail)
		})
	})

	return issues
}

var placeMarkerRe = regexp.MustCompile(`%L?(n|[1-9][0-9]?)`)

func checkText(source, translation string, report func(Kind, string)) {
	if translation == "" {
		if source != "" {
			report(KindEmpty, "finished translation is empty")
		}
		return
	}

	if missing := missingMarkers(source, translation); len(missing) > 0 {
		report(KindPlaceMarker, "translation lacks "+strings.Join(missing, ", "))
	}
	if extra := missingMarkers(translation, source); len(extra) > 0 {
		report(KindPlaceMarker, "translation adds "+strings.Join(extra, ", "))
	}

	if hasAccelerator(source) != hasAccelerator(translation) {
		report(KindAccelerator, "accelerator (&) present in only one of source and translation")
	}

	if s, t := endPunct(source), endPunct(translation); s != t && !equivalentPunct(s, t) {
		report(KindPunctuation, fmt.Sprintf("source ends with %q, translation with %q", s, t))
	}
}

// missingMarkers returns the place markers of a that do not occur in b.
func missingMarkers(a, b string) []string {
	have := make(map[string]bool)
	for _, m := range placeMarkerRe.FindAllStringSubmatch(b, -1) {
		have[m[1]] = true
	}
	set := make(map[string]bool)
	for _, m := range placeMarkerRe.FindAllStringSubmatch(a, -1) {
		if !have[m[1]] {
			set["%"+m[1]] = true
		}
	}
	missing := make([]string, 0, len(set))
	for m := range set {
		missing = append(missing, m)
	}
	sort.Strings(missing)
	return missing
}

// hasAccelerator reports whether s contains a keyboard accelerator: an
// ampersand followed by a letter or digit, not an escaped "&&".
func hasAccelerator(s string) bool {
	rs := []rune(s)
	for i := 0; i < len(rs)-1; i++ {
		if rs[i] != '&' {
			continue
		}
		if rs[i+1] == '&' {
			i++
			continue
		}
		if unicode.IsLetter(rs[i+1]) || unicode.IsDigit(rs[i+1]) {
			return true
		}
	}
	return false
}

func endPunct(s string) string {
	s = strings.TrimRightFunc(s, unicode.IsSpace)
	if s == "" {
		return ""
	}
	r := []rune(s)
	last := r[len(r)-1]
	if unicode.IsPunct(last) && last != ')' && last != '"' && last != '\'' && last != '>' {
		return string(last)
	}
	return ""
}

func equivalentPunct(a, b string) bool {
	fullwidth := map[string]string{"。": ".", "？": "?", "！": "!", "：": ":", "；": ";", "…": "..."}
	if v, ok := fullwidth[a]; ok {
		a = v
	}
	if v, ok := fullwidth[b]; ok {
		b = v
	}
	if a == "..." {
		a = "."
	}
	if b == "..." {
		b = "."
	}
	return a == b
}
