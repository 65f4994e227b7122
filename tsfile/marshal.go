package tsfile

import (
	"fmt"
	"strings"
)

// Marshal produces the TS document in the layout lupdate writes.
func (f *File) Marshal() []byte {
	var b strings.Builder
	b.WriteString("<?xml version=\"1.0\" encoding=\"utf-8\"?>\n")
	b.WriteString("<!DOCTYPE TS>\n")

	version := f.Version
	if version == "" {
		version = DefaultVersion
	}
	b.WriteString(`<TS version="` + protect(version) + `"`)
	if f.Language != "" {
		b.WriteString(` language="` + protect(f.Language) + `"`)
	}
	if f.SourceLanguage != "" {
		b.WriteString(` sourcelanguage="` + protect(f.SourceLanguage) + `"`)
	}
	b.WriteString(">\n")

	for _, c := range f.Contexts {
		b.WriteString("<context>\n")
		b.WriteString("    <name>" + protect(c.Name) + "</name>\n")
		if c.Comment != "" {
			b.WriteString("    <comment>" + protect(c.Comment) + "</comment>\n")
		}
		for _, m := range c.Messages {
			writeMessage(&b, m)
		}
		b.WriteString("</context>\n")
	}

	b.WriteString("</TS>\n")
	return []byte(b.String())
}

func writeMessage(b *strings.Builder, m *Message) {
	b.WriteString("    <message")
	if m.ID != "" {
		b.WriteString(` id="` + protect(m.ID) + `"`)
	}
	if m.Numerus {
		b.WriteString(` numerus="yes"`)
	}
	b.WriteString(">\n")

	for _, loc := range m.Locations {
		b.WriteString("        <location")
		if loc.Filename != "" {
			b.WriteString(` filename="` + protect(loc.Filename) + `"`)
		}
		if loc.Line != "" {
			b.WriteString(` line="` + protect(loc.Line) + `"`)
		}
		b.WriteString("/>\n")
	}

	writeElement(b, "source", m.Source, true)
	writeElement(b, "oldsource", m.OldSource, false)
	writeElement(b, "comment", m.Comment, false)
	writeElement(b, "oldcomment", m.OldComment, false)
	writeElement(b, "extracomment", m.ExtraComment, false)
	writeElement(b, "translatorcomment", m.TranslatorComment, false)

	b.WriteString("        <translation")
	if m.Type != TypeFinished {
		b.WriteString(fmt.Sprintf(` type="%s"`, m.Type))
	}
	switch {
	case m.Numerus && len(m.NumerusForms) > 0:
		b.WriteString(">\n")
		for _, form := range m.NumerusForms {
			b.WriteString("            <numerusform")
			writeVariants(b, form, "                ", "            ")
			b.WriteString("</numerusform>\n")
		}
		b.WriteString("        </translation>\n")
	case m.Numerus:
		b.WriteString("></translation>\n")
	default:
		writeVariants(b, m.Translation, "            ", "        ")
		b.WriteString("</translation>\n")
	}

	b.WriteString("    </message>\n")
}

// writeVariants writes the rest of an open tag and its content: plain text,
// or one <lengthvariant> per variant when s holds several.
func writeVariants(b *strings.Builder, s, indent, closeIndent string) {
	if !strings.Contains(s, variantSeparator) {
		b.WriteString(">" + protect(s))
		return
	}
	b.WriteString(` variants="yes">` + "\n")
	for _, v := range strings.Split(s, variantSeparator) {
		b.WriteString(indent + "<lengthvariant>" + protect(v) + "</lengthvariant>\n")
	}
	b.WriteString(closeIndent)
}

func writeElement(b *strings.Builder, name, value string, always bool) {
	if value == "" && !always {
		return
	}
	b.WriteString("        <" + name + ">" + protect(value) + "</" + name + ">\n")
}

// protect escapes text for TS output. Control characters other than tab and
// newline cannot appear in XML 1.0 and are written as <byte/> elements.
func protect(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '&':
			b.WriteString("&amp;")
		case '"':
			b.WriteString("&quot;")
		case '\'':
			b.WriteString("&apos;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		default:
			if r < 0x20 && r != '\n' && r != '\t' {
				b.WriteString(fmt.Sprintf(`<byte value="x%x"/>`, r))
				continue
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}
