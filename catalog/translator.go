package catalog

import (
	"sync"
	"sync/atomic"

	"golang.org/x/text/language"

	"github.com/minios-linux/tskit/plural"
)

// Translator holds the catalog of the current UI language. Switching the
// language swaps the catalog atomically; readers never block.
type Translator struct {
	active atomic.Pointer[Catalog]
}

// NewTranslator returns a translator using c, which may be nil.
func NewTranslator(c *Catalog) *Translator {
	t := &Translator{}
	t.active.Store(c)
	return t
}

// Use installs c as the active catalog. A nil catalog restores source text.
func (t *Translator) Use(c *Catalog) {
	t.active.Store(c)
}

// Catalog returns the active catalog.
func (t *Translator) Catalog() *Catalog {
	return t.active.Load()
}

// Translate looks up a singular message in the active catalog.
func (t *Translator) Translate(context, source, comment string) string {
	return t.active.Load().Translate(context, source, comment, NoCount)
}

// TranslateN looks up a numerus message and expands %n with n.
func (t *Translator) TranslateN(context, source, comment string, n int) string {
	return ExpandCount(t.active.Load().Translate(context, source, comment, n), n)
}

// Bundle holds catalogs for several languages and picks one for a list of
// user preferences.
type Bundle struct {
	mu       sync.RWMutex
	tags     []language.Tag
	catalogs []*Catalog
	matcher  language.Matcher
}

// Add registers c. A catalog for an already registered language replaces it.
func (b *Bundle) Add(c *Catalog) {
	tag := plural.Tag(c.Language())

	b.mu.Lock()
	defer b.mu.Unlock()
	for i, existing := range b.tags {
		if existing == tag {
			b.catalogs[i] = c
			return
		}
	}
	b.tags = append(b.tags, tag)
	b.catalogs = append(b.catalogs, c)
	b.matcher = nil
}

// Languages returns the registered languages in registration order.
func (b *Bundle) Languages() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	langs := make([]string, len(b.catalogs))
	for i, c := range b.catalogs {
		langs[i] = c.Language()
	}
	return langs
}

// Match returns the catalog that best serves prefs (e.g. "bg-BG", "en"),
// or nil when none is a reasonable match, which makes lookups fall back to
// source text.
func (b *Bundle) Match(prefs ...string) *Catalog {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.catalogs) == 0 {
		return nil
	}
	if b.matcher == nil {
		b.matcher = language.NewMatcher(b.tags)
	}

	var want []language.Tag
	for _, p := range prefs {
		if tag := plural.Tag(p); tag != language.Und {
			want = append(want, tag)
		}
	}
	if len(want) == 0 {
		return nil
	}

	_, idx, conf := b.matcher.Match(want...)
	if conf == language.No {
		return nil
	}
	return b.catalogs[idx]
}
