// Package tsfile implements reading and writing of Qt Linguist TS files.
//
// A TS file groups translation units (messages) by context, usually the
// C++ class or Designer form that owns the string. A message carries the
// source text, an optional disambiguation comment, source locations and
// either a single translation or a list of numerus forms.
//
// Vanished and obsolete messages are kept in the model so that they are
// written back, but they are excluded from Stats and lookups.
package tsfile

import (
	"fmt"
	"os"
	"path/filepath"
)

// TranslationType is the value of the type="…" attribute on <translation>.
type TranslationType string

const (
	// TypeFinished marks a reviewed translation (no type attribute).
	TypeFinished TranslationType = ""
	// TypeUnfinished marks a translation that has not been reviewed.
	TypeUnfinished TranslationType = "unfinished"
	// TypeVanished marks a message whose source disappeared from the code.
	TypeVanished TranslationType = "vanished"
	// TypeObsolete is the pre-Qt 5 spelling of vanished.
	TypeObsolete TranslationType = "obsolete"
)

// DefaultVersion is the TS format version written for new files.
const DefaultVersion = "2.1"

// Location is a source reference of a message.
type Location struct {
	Filename string
	// Line is kept verbatim: absolute ("220") or relative to the previous
	// location of the same file ("+3"), as lupdate -locations relative writes.
	Line string
}

// Message is a single translation unit.
type Message struct {
	// ID is the optional id="…" attribute (qsTrId based projects).
	ID        string
	Locations []Location

	Source    string
	OldSource string
	// Comment is the disambiguation comment, part of the message key.
	Comment    string
	OldComment string
	// ExtraComment holds developer notes for translators (//: in C++).
	ExtraComment      string
	TranslatorComment string

	// Numerus marks a plural group; the translation lives in NumerusForms.
	Numerus bool

	Type         TranslationType
	Translation  string
	NumerusForms []string
}

// Key identifies a message within its file.
type Key struct {
	Context string
	Source  string
	Comment string
}

// IsActive reports whether the message is still present in the sources.
func (m *Message) IsActive() bool {
	return m.Type != TypeVanished && m.Type != TypeObsolete
}

// IsFinished reports whether the message is active and reviewed.
func (m *Message) IsFinished() bool {
	return m.Type == TypeFinished
}

// IsTranslated reports whether the message carries translated text.
// For numerus messages every form must be non-empty.
func (m *Message) IsTranslated() bool {
	if m.Numerus {
		if len(m.NumerusForms) == 0 {
			return false
		}
		for _, v := range m.NumerusForms {
			if v == "" {
				return false
			}
		}
		return true
	}
	return m.Translation != ""
}

// Context is a named group of messages.
type Context struct {
	Name string
	// Comment is the rarely used context-level <comment>.
	Comment  string
	Messages []*Message
}

// Find returns the message with the given source and comment, or nil.
func (c *Context) Find(source, comment string) *Message {
	for _, m := range c.Messages {
		if m.Source == source && m.Comment == comment {
			return m
		}
	}
	return nil
}

// File represents a parsed TS file.
type File struct {
	Version        string
	Language       string
	SourceLanguage string
	Contexts       []*Context
}

// NewFile creates an empty TS file for the given target language.
func NewFile(language string) *File {
	return &File{Version: DefaultVersion, Language: language}
}

// Context returns the context with the given name, or nil.
func (f *File) Context(name string) *Context {
	for _, c := range f.Contexts {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// AddContext returns the named context, appending it when missing.
func (f *File) AddContext(name string) *Context {
	if c := f.Context(name); c != nil {
		return c
	}
	c := &Context{Name: name}
	f.Contexts = append(f.Contexts, c)
	return c
}

// Find returns the message identified by (context, source, comment), or nil.
func (f *File) Find(context, source, comment string) *Message {
	c := f.Context(context)
	if c == nil {
		return nil
	}
	return c.Find(source, comment)
}

// Each calls fn for every message in document order, including vanished ones.
func (f *File) Each(fn func(c *Context, m *Message)) {
	for _, c := range f.Contexts {
		for _, m := range c.Messages {
			fn(c, m)
		}
	}
}

// Stats summarizes the translation state of a file.
type Stats struct {
	// Total counts active messages.
	Total    int
	Finished int
	// Unfinished counts active messages not yet reviewed, with or without text.
	Unfinished int
	// Untranslated counts unfinished messages that have no text at all.
	Untranslated int
	// Obsolete counts vanished and obsolete messages.
	Obsolete int
}

// Percent returns the share of finished messages, 0..100.
func (s Stats) Percent() int {
	if s.Total == 0 {
		return 0
	}
	return s.Finished * 100 / s.Total
}

// Stats returns translation statistics.
func (f *File) Stats() Stats {
	var s Stats
	f.Each(func(_ *Context, m *Message) {
		if !m.IsActive() {
			s.Obsolete++
			return
		}
		s.Total++
		if m.IsFinished() {
			s.Finished++
			return
		}
		s.Unfinished++
		if !m.IsTranslated() {
			s.Untranslated++
		}
	})
	return s
}

// UnfinishedMessages returns the keys of active messages that are not finished.
func (f *File) UnfinishedMessages() []Key {
	var keys []Key
	f.Each(func(c *Context, m *Message) {
		if m.IsActive() && !m.IsFinished() {
			keys = append(keys, Key{Context: c.Name, Source: m.Source, Comment: m.Comment})
		}
	})
	return keys
}

// ParseFile reads and parses a TS file.
func ParseFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// WriteFile writes the TS file to disk, creating parent directories.
func (f *File) WriteFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	return os.WriteFile(path, f.Marshal(), 0644)
}
