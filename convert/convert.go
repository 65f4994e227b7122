// Package convert translates catalogs between Qt Linguist TS and GNU gettext
// PO, following the mapping lconvert uses:
//
//   - msgctxt carries the TS context, joined with the disambiguation
//     comment by "|" when one exists (header "X-Qt-Contexts: true");
//   - numerus messages repeat the source as msgid and msgid_plural;
//   - unfinished translations with text become fuzzy entries;
//   - vanished and obsolete messages become "#~" entries.
package convert

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/minios-linux/tskit/pofile"
	"github.com/minios-linux/tskit/tsfile"
)

const contextSeparator = "|"

var qtFormatRe = regexp.MustCompile(`%L?(n|[1-9])`)

// ToPO converts a TS file to a PO file.
func ToPO(f *tsfile.File) *pofile.File {
	p := pofile.NewFile()
	p.Header.MsgStr = ""
	p.SetHeaderField("MIME-Version", "1.0")
	p.SetHeaderField("Content-Type", "text/plain; charset=UTF-8")
	p.SetHeaderField("Content-Transfer-Encoding", "8bit")
	p.SetHeaderField("X-Qt-Contexts", "true")
	if f.Language != "" {
		p.SetHeaderField("Language", f.Language)
		p.SetHeaderField("Plural-Forms", pofile.PluralFormsForLang(f.Language))
	}
	if f.SourceLanguage != "" {
		p.SetHeaderField("X-Source-Language", f.SourceLanguage)
	}

	f.Each(func(c *tsfile.Context, m *tsfile.Message) {
		p.Entries = append(p.Entries, messageToEntry(c.Name, m))
	})
	return p
}

func messageToEntry(context string, m *tsfile.Message) *pofile.Entry {
	e := &pofile.Entry{
		MsgCtxt:      context,
		MsgID:        m.Source,
		MsgStrPlural: make(map[int]string),
		Obsolete:     !m.IsActive(),
	}
	if m.Comment != "" {
		e.MsgCtxt = context + contextSeparator + m.Comment
	}
	if m.TranslatorComment != "" {
		e.TranslatorComments = strings.Split(m.TranslatorComment, "\n")
	}
	if m.ExtraComment != "" {
		e.ExtractedComments = strings.Split(m.ExtraComment, "\n")
	}
	if m.IsActive() {
		for _, loc := range m.Locations {
			ref := loc.Filename
			if loc.Line != "" {
				ref += ":" + strings.TrimPrefix(loc.Line, "+")
			}
			e.References = append(e.References, ref)
		}
	}
	if m.Type == tsfile.TypeUnfinished && m.IsTranslated() {
		e.Flags = append(e.Flags, "fuzzy")
	}
	if qtFormatRe.MatchString(m.Source) {
		e.Flags = append(e.Flags, "qt-format")
	}
	e.PreviousMsgID = m.OldSource

	if m.Numerus {
		e.MsgIDPlural = m.Source
		for i, form := range m.NumerusForms {
			e.MsgStrPlural[i] = form
		}
		if len(m.NumerusForms) == 0 {
			e.MsgStrPlural[0] = ""
		}
		return e
	}
	e.MsgStr = m.Translation
	return e
}

// FromPO converts a PO file to a TS file.
func FromPO(p *pofile.File) *tsfile.File {
	f := tsfile.NewFile(p.HeaderField("Language"))
	f.SourceLanguage = p.HeaderField("X-Source-Language")

	for _, e := range p.Entries {
		context, comment := e.MsgCtxt, ""
		if idx := strings.Index(e.MsgCtxt, contextSeparator); idx >= 0 {
			context, comment = e.MsgCtxt[:idx], e.MsgCtxt[idx+1:]
		}
		m := &tsfile.Message{
			Source:            e.MsgID,
			Comment:           comment,
			OldSource:         e.PreviousMsgID,
			TranslatorComment: strings.Join(e.TranslatorComments, "\n"),
			ExtraComment:      strings.Join(e.ExtractedComments, "\n"),
			Numerus:           e.MsgIDPlural != "",
		}
		for _, ref := range e.References {
			m.Locations = append(m.Locations, parseReference(ref))
		}

		if m.Numerus {
			m.NumerusForms = e.PluralForms()
		} else {
			m.Translation = e.MsgStr
		}

		switch {
		case e.Obsolete:
			m.Type = tsfile.TypeVanished
		case e.IsFuzzy() || !m.IsTranslated():
			m.Type = tsfile.TypeUnfinished
		}

		c := f.AddContext(context)
		c.Messages = append(c.Messages, m)
	}
	return f
}

// parseReference splits "file:line"; a reference without a numeric line
// suffix is kept as a bare filename.
func parseReference(ref string) tsfile.Location {
	if idx := strings.LastIndex(ref, ":"); idx > 0 {
		if _, err := strconv.Atoi(ref[idx+1:]); err == nil {
			return tsfile.Location{Filename: ref[:idx], Line: ref[idx+1:]}
		}
	}
	return tsfile.Location{Filename: ref}
}

// File converts in to out, choosing the formats by extension (.ts or .po).
// When both have the same extension the catalog is parsed and rewritten,
// which normalizes its layout.
func File(in, out string) error {
	inExt, outExt := strings.ToLower(filepath.Ext(in)), strings.ToLower(filepath.Ext(out))
	if !supported(inExt) {
		return fmt.Errorf("unsupported input format %q (want .ts or .po)", inExt)
	}
	if !supported(outExt) {
		return fmt.Errorf("unsupported output format %q (want .ts or .po)", outExt)
	}

	var ts *tsfile.File
	var err error
	switch inExt {
	case ".ts":
		ts, err = tsfile.ParseFile(in)
	case ".po", ".pot":
		var p *pofile.File
		if p, err = pofile.ParseFile(in); err == nil {
			ts = FromPO(p)
		}
	}
	if err != nil {
		return err
	}

	switch outExt {
	case ".ts":
		return ts.WriteFile(out)
	default:
		if err := ToPO(ts).WriteFile(out); err != nil {
			return fmt.Errorf("writing %s: %w", out, err)
		}
		return nil
	}
}

func supported(ext string) bool {
	return ext == ".ts" || ext == ".po" || ext == ".pot"
}
