// Package pofile implements reading and writing of GNU gettext PO files,
// the exchange format TS catalogs are converted to and from.
package pofile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// Entry represents a single message in a PO file.
type Entry struct {
	// TranslatorComments are "# " lines.
	TranslatorComments []string
	// ExtractedComments are "#." lines.
	ExtractedComments []string
	// References are "#:" lines.
	References []string
	// Flags are the comma separated values of "#," lines.
	Flags []string
	// PreviousMsgID is the "#| msgid" of a fuzzy entry.
	PreviousMsgID string

	MsgCtxt      string
	MsgID        string
	MsgIDPlural  string
	MsgStr       string
	MsgStrPlural map[int]string

	// Obsolete marks "#~" entries.
	Obsolete bool
}

// IsFuzzy returns true if the entry is marked fuzzy.
func (e *Entry) IsFuzzy() bool {
	return e.HasFlag("fuzzy")
}

// HasFlag checks if a specific flag is present.
func (e *Entry) HasFlag(flag string) bool {
	for _, f := range e.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

// PluralForms returns the plural translations ordered by index. Missing
// indices up to the highest one are returned as empty strings.
func (e *Entry) PluralForms() []string {
	maxIdx := -1
	for idx := range e.MsgStrPlural {
		if idx > maxIdx {
			maxIdx = idx
		}
	}
	forms := make([]string, maxIdx+1)
	for idx, v := range e.MsgStrPlural {
		if idx >= 0 {
			forms[idx] = v
		}
	}
	return forms
}

// File represents a parsed PO file.
type File struct {
	// Header is the metadata entry (msgid "").
	Header  *Entry
	Entries []*Entry
}

// NewFile creates a PO file with an empty header.
func NewFile() *File {
	return &File{Header: &Entry{}}
}

// HeaderField returns a header field value by name.
func (f *File) HeaderField(name string) string {
	if f.Header == nil {
		return ""
	}
	for _, line := range strings.Split(f.Header.MsgStr, "\n") {
		if idx := strings.Index(line, ":"); idx > 0 {
			if strings.EqualFold(strings.TrimSpace(line[:idx]), name) {
				return strings.TrimSpace(line[idx+1:])
			}
		}
	}
	return ""
}

// SetHeaderField sets a header field value, appending it when missing.
func (f *File) SetHeaderField(name, value string) {
	if f.Header == nil {
		f.Header = &Entry{}
	}
	lines := strings.Split(strings.TrimSuffix(f.Header.MsgStr, "\n"), "\n")
	if len(lines) == 1 && lines[0] == "" {
		lines = nil
	}
	found := false
	for i, line := range lines {
		if idx := strings.Index(line, ":"); idx > 0 && strings.EqualFold(strings.TrimSpace(line[:idx]), name) {
			lines[i] = name + ": " + value
			found = true
			break
		}
	}
	if !found {
		lines = append(lines, name+": "+value)
	}
	f.Header.MsgStr = strings.Join(lines, "\n") + "\n"
}

// Entry finds an active entry by context and msgid.
func (f *File) Entry(msgctxt, msgid string) *Entry {
	for _, e := range f.Entries {
		if e.MsgCtxt == msgctxt && e.MsgID == msgid && !e.Obsolete {
			return e
		}
	}
	return nil
}

// Parse reads a PO file.
func Parse(r io.Reader) (*File, error) {
	f := NewFile()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)

	var current *Entry
	var lastField string
	lineNum := 0
	sawHeader := false

	flush := func() {
		if current == nil {
			return
		}
		if current.MsgID == "" && current.MsgCtxt == "" && !current.Obsolete && !sawHeader {
			f.Header = current
			sawHeader = true
		} else {
			f.Entries = append(f.Entries, current)
		}
		current = nil
		lastField = ""
	}

	for scanner.Scan() {
		lineNum++
		line := scanner.Text()

		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		if current == nil {
			current = &Entry{MsgStrPlural: make(map[int]string)}
		}

		if strings.HasPrefix(line, "#~") {
			current.Obsolete = true
			line = strings.TrimPrefix(strings.TrimPrefix(line, "#~"), " ")
			if strings.HasPrefix(line, "|") {
				line = "#" + line
			}
		}

		if strings.HasPrefix(line, "#") {
			parseComment(current, line)
			continue
		}

		switch {
		case strings.HasPrefix(line, "msgctxt "):
			current.MsgCtxt = unquote(strings.TrimPrefix(line, "msgctxt "))
			lastField = "msgctxt"
		case strings.HasPrefix(line, "msgid_plural "):
			current.MsgIDPlural = unquote(strings.TrimPrefix(line, "msgid_plural "))
			lastField = "msgid_plural"
		case strings.HasPrefix(line, "msgid "):
			current.MsgID = unquote(strings.TrimPrefix(line, "msgid "))
			lastField = "msgid"
		case strings.HasPrefix(line, "msgstr["):
			var idx int
			if n, err := fmt.Sscanf(line, "msgstr[%d]", &idx); err != nil || n != 1 {
				return nil, fmt.Errorf("line %d: invalid msgstr index: %s", lineNum, line)
			}
			bracketEnd := strings.Index(line, "] ")
			if bracketEnd < 0 {
				return nil, fmt.Errorf("line %d: invalid msgstr format: %s", lineNum, line)
			}
			current.MsgStrPlural[idx] = unquote(line[bracketEnd+2:])
			lastField = fmt.Sprintf("msgstr[%d]", idx)
		case strings.HasPrefix(line, "msgstr "):
			current.MsgStr = unquote(strings.TrimPrefix(line, "msgstr "))
			lastField = "msgstr"
		case strings.HasPrefix(strings.TrimSpace(line), "\""):
			val := unquote(line)
			switch {
			case lastField == "msgctxt":
				current.MsgCtxt += val
			case lastField == "msgid":
				current.MsgID += val
			case lastField == "msgid_plural":
				current.MsgIDPlural += val
			case lastField == "msgstr":
				current.MsgStr += val
			case strings.HasPrefix(lastField, "msgstr["):
				var idx int
				fmt.Sscanf(lastField, "msgstr[%d]", &idx)
				current.MsgStrPlural[idx] += val
			default:
				return nil, fmt.Errorf("line %d: string without keyword", lineNum)
			}
		default:
			return nil, fmt.Errorf("line %d: unexpected content: %s", lineNum, line)
		}
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading PO file: %w", err)
	}
	return f, nil
}

func parseComment(e *Entry, line string) {
	switch {
	case strings.HasPrefix(line, "#:"):
		e.References = append(e.References, strings.Fields(line[2:])...)
	case strings.HasPrefix(line, "#,"):
		for _, flag := range strings.Split(line[2:], ",") {
			if flag = strings.TrimSpace(flag); flag != "" {
				e.Flags = append(e.Flags, flag)
			}
		}
	case strings.HasPrefix(line, "#."):
		e.ExtractedComments = append(e.ExtractedComments, strings.TrimSpace(line[2:]))
	case strings.HasPrefix(line, "#|"):
		prev := strings.TrimSpace(line[2:])
		if strings.HasPrefix(prev, "msgid ") {
			e.PreviousMsgID = unquote(strings.TrimPrefix(prev, "msgid "))
		}
	default:
		e.TranslatorComments = append(e.TranslatorComments, strings.TrimPrefix(line[1:], " "))
	}
}

// ParseFile reads a PO file from disk.
func ParseFile(path string) (*File, error) {
	in, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer in.Close()
	f, err := Parse(in)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Write writes the PO file.
func (f *File) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if f.Header != nil {
		writeEntry(bw, f.Header)
	}
	for _, e := range f.Entries {
		fmt.Fprintln(bw)
		writeEntry(bw, e)
	}
	return bw.Flush()
}

// WriteFile writes the PO file to disk.
func (f *File) WriteFile(path string) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := f.Write(out); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func writeEntry(w *bufio.Writer, e *Entry) {
	prefix := ""
	if e.Obsolete {
		prefix = "#~ "
	}

	for _, c := range e.TranslatorComments {
		fmt.Fprintf(w, "# %s\n", c)
	}
	for _, c := range e.ExtractedComments {
		fmt.Fprintf(w, "#. %s\n", c)
	}
	for _, ref := range e.References {
		fmt.Fprintf(w, "#: %s\n", ref)
	}
	if len(e.Flags) > 0 {
		fmt.Fprintf(w, "#, %s\n", strings.Join(e.Flags, ", "))
	}
	if e.PreviousMsgID != "" {
		fmt.Fprintf(w, "#| msgid %s\n", quote(e.PreviousMsgID))
	}

	if e.MsgCtxt != "" {
		writeQuotedField(w, prefix, "msgctxt", e.MsgCtxt)
	}
	writeQuotedField(w, prefix, "msgid", e.MsgID)
	if e.MsgIDPlural != "" {
		writeQuotedField(w, prefix, "msgid_plural", e.MsgIDPlural)
		indices := make([]int, 0, len(e.MsgStrPlural))
		for idx := range e.MsgStrPlural {
			indices = append(indices, idx)
		}
		sort.Ints(indices)
		for _, idx := range indices {
			writeQuotedField(w, prefix, fmt.Sprintf("msgstr[%d]", idx), e.MsgStrPlural[idx])
		}
		return
	}
	writeQuotedField(w, prefix, "msgstr", e.MsgStr)
}

// writeQuotedField writes a field, splitting multi-line values after each
// newline the way msgcat does.
func writeQuotedField(w *bufio.Writer, prefix, field, value string) {
	if !strings.Contains(strings.TrimSuffix(value, "\n"), "\n") {
		fmt.Fprintf(w, "%s%s %s\n", prefix, field, quote(value))
		return
	}
	fmt.Fprintf(w, "%s%s \"\"\n", prefix, field)
	parts := strings.SplitAfter(value, "\n")
	for _, part := range parts {
		if part != "" {
			fmt.Fprintf(w, "%s%s\n", prefix, quote(part))
		}
	}
}

func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	s = strings.ReplaceAll(s, "\t", `\t`)
	s = strings.ReplaceAll(s, "\r", `\r`)
	return `"` + s + `"`
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return s
	}
	s = s[1 : len(s)-1]

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 >= len(s) {
			b.WriteByte(s[i])
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '\\', '"':
			b.WriteByte(s[i])
		default:
			b.WriteByte('\\')
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// PluralFormsForLang returns the Plural-Forms header for a language code.
func PluralFormsForLang(lang string) string {
	base := lang
	if idx := strings.IndexAny(lang, "_-"); idx > 0 {
		base = lang[:idx]
	}

	switch base {
	case "ja", "ko", "zh", "vi", "th", "id", "ms", "lo", "km", "my", "hu", "tr", "fa":
		return "nplurals=1; plural=0;"
	case "fr":
		return "nplurals=2; plural=(n > 1);"
	case "ru", "uk", "be":
		return "nplurals=3; plural=(n%10==1 && n%100!=11 ? 0 : n%10>=2 && n%10<=4 && (n%100<10 || n%100>=20) ? 1 : 2);"
	case "hr", "sr", "bs":
		return "nplurals=3; plural=(n%10==1 && n%100!=11 ? 0 : n%10>=2 && n%10<=4 && (n%100<10 || n%100>=20) ? 1 : 2);"
	case "pl":
		return "nplurals=3; plural=(n==1 ? 0 : n%10>=2 && n%10<=4 && (n%100<10 || n%100>=20) ? 1 : 2);"
	case "cs", "sk":
		return "nplurals=3; plural=(n==1 ? 0 : n>=2 && n<=4 ? 1 : 2);"
	case "ro":
		return "nplurals=3; plural=(n==1 ? 0 : (n==0 || (n%100 > 0 && n%100 < 20)) ? 1 : 2);"
	case "lt":
		return "nplurals=3; plural=(n%10==1 && n%100!=11 ? 0 : n%10>=2 && (n%100<10 || n%100>=20) ? 1 : 2);"
	case "lv":
		return "nplurals=3; plural=(n%10==1 && n%100!=11 ? 0 : n != 0 ? 1 : 2);"
	case "ga":
		return "nplurals=3; plural=(n==1 ? 0 : n==2 ? 1 : 2);"
	case "mt":
		return "nplurals=4; plural=(n==1 ? 0 : (n==0 || (n%100>=1 && n%100<=10)) ? 1 : (n%100>=11 && n%100<=19) ? 2 : 3);"
	case "cy":
		return "nplurals=4; plural=(n==1 ? 0 : n==2 ? 1 : (n==8 || n==11) ? 2 : 3);"
	case "sl":
		return "nplurals=4; plural=(n%100==1 ? 0 : n%100==2 ? 1 : n%100==3 || n%100==4 ? 2 : 3);"
	case "ar":
		return "nplurals=6; plural=(n==0 ? 0 : n==1 ? 1 : n==2 ? 2 : n%100>=3 && n%100<=10 ? 3 : n%100>=11 ? 4 : 5);"
	default:
		return "nplurals=2; plural=(n != 1);"
	}
}
