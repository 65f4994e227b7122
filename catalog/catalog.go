// Package catalog provides runtime lookup of translations loaded from a TS
// file.
//
// A Catalog is built once and never modified afterwards, so any number of
// goroutines may call Translate concurrently. Lookups that find nothing, or
// find a translation that is unfinished or empty, return the source string.
package catalog

import (
	"strconv"
	"strings"

	"github.com/minios-linux/tskit/plural"
	"github.com/minios-linux/tskit/tsfile"
)

// NoCount is passed as n to Translate for messages without a count.
const NoCount = -1

type unit struct {
	text  string
	forms []string
}

// Catalog is an immutable (context, source, comment) → translation table.
type Catalog struct {
	language string
	units    map[tsfile.Key]unit
}

// New builds a catalog from the finished messages of f.
func New(f *tsfile.File) *Catalog {
	c := &Catalog{
		language: f.Language,
		units:    make(map[tsfile.Key]unit),
	}
	f.Each(func(ctx *tsfile.Context, m *tsfile.Message) {
		if !m.IsActive() || !m.IsFinished() {
			return
		}
		key := tsfile.Key{Context: ctx.Name, Source: m.Source, Comment: m.Comment}
		if m.Numerus {
			if !m.IsTranslated() {
				return
			}
			c.units[key] = unit{forms: append([]string(nil), m.NumerusForms...)}
			return
		}
		if m.Translation == "" {
			return
		}
		c.units[key] = unit{text: m.Translation}
	})
	return c
}

// Load parses a TS file and builds a catalog from it.
func Load(path string) (*Catalog, error) {
	f, err := tsfile.ParseFile(path)
	if err != nil {
		return nil, err
	}
	return New(f), nil
}

// Language returns the target language of the catalog.
func (c *Catalog) Language() string {
	if c == nil {
		return ""
	}
	return c.language
}

// Len returns the number of loaded translations.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.units)
}

// Translate returns the translation of source in context. comment is the
// disambiguation; when nothing matches it, the lookup is retried without it.
// n selects the numerus form of plural messages; pass NoCount otherwise.
func (c *Catalog) Translate(context, source, comment string, n int) string {
	if c == nil {
		return source
	}
	u, ok := c.units[tsfile.Key{Context: context, Source: source, Comment: comment}]
	if !ok && comment != "" {
		u, ok = c.units[tsfile.Key{Context: context, Source: source}]
	}
	if !ok {
		return source
	}
	if u.forms == nil {
		return u.text
	}
	count := n
	if count == NoCount {
		count = 1
	}
	idx := plural.Index(c.language, count)
	if idx >= len(u.forms) {
		idx = len(u.forms) - 1
	}
	return u.forms[idx]
}

// ExpandCount replaces %n and %Ln with n, as Qt does for numerus strings.
// %Ln uses the plain decimal form; locale digit grouping is not applied.
func ExpandCount(s string, n int) string {
	num := strconv.Itoa(n)
	s = strings.ReplaceAll(s, "%Ln", num)
	return strings.ReplaceAll(s, "%n", num)
}
