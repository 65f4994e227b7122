// Package merge implements TS file merging, equivalent to what lupdate does
// when it refreshes an existing translation file from the sources.
package merge

import (
	"github.com/minios-linux/tskit/plural"
	"github.com/minios-linux/tskit/tsfile"
)

// Report counts what happened to messages during a merge.
type Report struct {
	// Kept messages existed in both files.
	Kept int
	// Added messages are new in the template.
	Added int
	// SameText counts added messages prefilled from an identical source
	// translated elsewhere in the file.
	SameText int
	// Vanished messages are gone from the template but keep their translation.
	Vanished int
	// Dropped messages were gone from the template and had no translation.
	Dropped int
}

// Options tune a merge.
type Options struct {
	// NoObsolete drops messages that left the sources instead of keeping
	// them as vanished.
	NoObsolete bool
}

// Merge updates existing with the messages of template.
//   - Template order is kept; existing translations are carried over.
//   - Locations and extra comments always come from the template.
//   - New messages start unfinished, prefilled from an identical source
//     translated in another context when one exists.
//   - Messages no longer in the template become vanished, or are dropped
//     when they have no translation.
func Merge(existing, template *tsfile.File, opts Options) (*tsfile.File, Report) {
	var report Report

	result := tsfile.NewFile(existing.Language)
	if existing.Version != "" {
		result.Version = existing.Version
	}
	result.SourceLanguage = existing.SourceLanguage
	if result.SourceLanguage == "" {
		result.SourceLanguage = template.SourceLanguage
	}

	sameText := sameTextIndex(existing)
	matched := make(map[tsfile.Key]bool)

	template.Each(func(tc *tsfile.Context, tm *tsfile.Message) {
		if !tm.IsActive() {
			return
		}
		key := tsfile.Key{Context: tc.Name, Source: tm.Source, Comment: tm.Comment}
		if matched[key] {
			return
		}
		matched[key] = true

		rc := result.AddContext(tc.Name)
		if rc.Comment == "" {
			rc.Comment = tc.Comment
		}

		old := existing.Find(tc.Name, tm.Source, tm.Comment)
		if old != nil {
			rc.Messages = append(rc.Messages, keep(old, tm))
			report.Kept++
			return
		}

		m := fresh(tm, result.Language)
		if prev, ok := sameText[tm.Source]; ok && prev.Numerus == tm.Numerus {
			m.Translation = prev.Translation
			m.NumerusForms = append([]string(nil), prev.NumerusForms...)
			report.SameText++
		}
		rc.Messages = append(rc.Messages, m)
		report.Added++
	})

	existing.Each(func(c *tsfile.Context, m *tsfile.Message) {
		key := tsfile.Key{Context: c.Name, Source: m.Source, Comment: m.Comment}
		if matched[key] {
			return
		}
		if opts.NoObsolete || (m.IsActive() && !m.IsTranslated()) {
			report.Dropped++
			return
		}
		gone := *m
		gone.Locations = nil
		if gone.IsActive() {
			gone.Type = tsfile.TypeVanished
			report.Vanished++
		}
		rc := result.AddContext(c.Name)
		rc.Messages = append(rc.Messages, &gone)
	})

	return result, report
}

// keep merges an existing message with its template counterpart.
func keep(old, tm *tsfile.Message) *tsfile.Message {
	m := *old
	m.Locations = append([]tsfile.Location(nil), tm.Locations...)
	m.ExtraComment = tm.ExtraComment
	if tm.ID != "" {
		m.ID = tm.ID
	}
	if !m.IsActive() {
		// Came back into the sources.
		m.Type = tsfile.TypeUnfinished
	}
	if m.Numerus != tm.Numerus {
		m.Numerus = tm.Numerus
		m.Type = tsfile.TypeUnfinished
		if m.Numerus {
			if m.Translation != "" {
				m.NumerusForms = []string{m.Translation}
			}
			m.Translation = ""
		} else {
			if len(m.NumerusForms) > 0 {
				m.Translation = m.NumerusForms[0]
			}
			m.NumerusForms = nil
		}
	}
	return &m
}

// fresh starts an unfinished message. Numerus messages get one empty form
// per plural form of lang, as lupdate writes them.
func fresh(tm *tsfile.Message, lang string) *tsfile.Message {
	m := &tsfile.Message{
		ID:           tm.ID,
		Locations:    append([]tsfile.Location(nil), tm.Locations...),
		Source:       tm.Source,
		Comment:      tm.Comment,
		ExtraComment: tm.ExtraComment,
		Numerus:      tm.Numerus,
		Type:         tsfile.TypeUnfinished,
	}
	if m.Numerus {
		m.NumerusForms = make([]string, plural.Count(lang))
	}
	return m
}

// sameTextIndex maps source text to the first finished translation of it.
func sameTextIndex(f *tsfile.File) map[string]*tsfile.Message {
	idx := make(map[string]*tsfile.Message)
	f.Each(func(_ *tsfile.Context, m *tsfile.Message) {
		if !m.IsActive() || !m.IsFinished() || !m.IsTranslated() {
			return
		}
		if _, ok := idx[m.Source]; !ok {
			idx[m.Source] = m
		}
	})
	return idx
}
