// Package extract collects translatable strings from Qt sources, the way
// lupdate does: C/C++ files are scanned for tr(), translate() and the
// QT_*_NOOP macros, Designer .ui forms for their <string> properties.
//
// The result is a TS template: a tsfile.File in which every message is
// unfinished. merge.Merge folds it into an existing translation file.
package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/minios-linux/tskit/tsfile"
)

// SupportedExtensions maps file extensions to the extractor handling them.
var SupportedExtensions = map[string]string{
	".c":   "C++",
	".cc":  "C++",
	".cpp": "C++",
	".cxx": "C++",
	".h":   "C++",
	".hh":  "C++",
	".hpp": "C++",
	".mm":  "C++",
	".ui":  "Designer",
}

// skipDirs contains directory names to skip during source file scanning.
var skipDirs = map[string]bool{
	".git":     true,
	".hg":      true,
	".svn":     true,
	"build":    true,
	"dist":     true,
	"vendor":   true,
	".qmake":   true,
	".moc":     true,
	"3rdparty": true,
}

// Options control an extraction run.
type Options struct {
	// BaseDir is the directory locations are written relative to, usually
	// the directory of the TS file. Empty keeps the paths as given.
	BaseDir string
	// SourceLanguage is recorded in the template header.
	SourceLanguage string
}

// Result holds the outcome of an extraction.
type Result struct {
	// SourceFiles is the list of source files scanned.
	SourceFiles []string
	// Template holds every extracted message, unfinished.
	Template *tsfile.File
	// Warnings lists calls that could not be extracted, as "file:line: text".
	Warnings []string
}

// FindSources recursively finds all source files with known extensions in dirs.
// Skips VCS metadata and build output directories.
func FindSources(dirs []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)

	for _, dir := range dirs {
		err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return nil // skip unreadable entries
			}
			if info.IsDir() {
				if path != dir && skipDirs[info.Name()] {
					return filepath.SkipDir
				}
				return nil
			}
			if _, ok := SupportedExtensions[strings.ToLower(filepath.Ext(path))]; ok {
				if !seen[path] {
					seen[path] = true
					files = append(files, path)
				}
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", dir, err)
		}
	}

	sort.Strings(files)
	return files, nil
}

// extracted is a message found in a source file.
type extracted struct {
	context      string
	source       string
	comment      string
	extraComment string
	id           string
	numerus      bool
	line         int
}

// collector accumulates messages across files, merging identical keys.
type collector struct {
	contexts map[string]*tsfile.Context
	messages map[tsfile.Key]*tsfile.Message
}

func newCollector() *collector {
	return &collector{
		contexts: make(map[string]*tsfile.Context),
		messages: make(map[tsfile.Key]*tsfile.Message),
	}
}

func (c *collector) add(filename string, e extracted) {
	loc := tsfile.Location{Filename: filename, Line: fmt.Sprint(e.line)}
	key := tsfile.Key{Context: e.context, Source: e.source, Comment: e.comment}
	if m, ok := c.messages[key]; ok {
		m.Locations = append(m.Locations, loc)
		if m.ExtraComment == "" {
			m.ExtraComment = e.extraComment
		}
		if m.ID == "" {
			m.ID = e.id
		}
		m.Numerus = m.Numerus || e.numerus
		return
	}

	ctx, ok := c.contexts[e.context]
	if !ok {
		ctx = &tsfile.Context{Name: e.context}
		c.contexts[e.context] = ctx
	}
	m := &tsfile.Message{
		ID:           e.id,
		Locations:    []tsfile.Location{loc},
		Source:       e.source,
		Comment:      e.comment,
		ExtraComment: e.extraComment,
		Numerus:      e.numerus,
		Type:         tsfile.TypeUnfinished,
	}
	ctx.Messages = append(ctx.Messages, m)
	c.messages[key] = m
}

func (c *collector) file(sourceLang string) *tsfile.File {
	f := tsfile.NewFile("")
	f.SourceLanguage = sourceLang
	names := make([]string, 0, len(c.contexts))
	for name := range c.contexts {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		f.Contexts = append(f.Contexts, c.contexts[name])
	}
	return f
}

// Run extracts translatable strings from files and builds a TS template.
func Run(files []string, opts Options) (*Result, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("no source files to extract from")
	}

	col := newCollector()
	res := &Result{SourceFiles: files}

	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		name := locationName(path, opts.BaseDir)

		var msgs []extracted
		var warnings []warning
		switch SupportedExtensions[strings.ToLower(filepath.Ext(path))] {
		case "Designer":
			msgs, err = parseUI(data)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
		default:
			msgs, warnings = parseCpp(data)
		}

		for _, m := range msgs {
			col.add(name, m)
		}
		for _, w := range warnings {
			res.Warnings = append(res.Warnings, fmt.Sprintf("%s:%d: %s", name, w.line, w.text))
		}
	}

	res.Template = col.file(opts.SourceLanguage)
	return res, nil
}

// locationName returns path relative to base with forward slashes.
func locationName(path, base string) string {
	if base == "" {
		return filepath.ToSlash(path)
	}
	absPath, err1 := filepath.Abs(path)
	absBase, err2 := filepath.Abs(base)
	if err1 != nil || err2 != nil {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(absBase, absPath)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// FilesByLanguage groups source files by their extractor.
func FilesByLanguage(files []string) map[string][]string {
	result := make(map[string][]string)
	for _, f := range files {
		if lang, ok := SupportedExtensions[strings.ToLower(filepath.Ext(f))]; ok {
			result[lang] = append(result[lang], f)
		}
	}
	return result
}

// DescribeFiles returns a human-readable summary of the source files found.
func DescribeFiles(files []string) string {
	byLang := FilesByLanguage(files)
	var langs []string
	for lang := range byLang {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	var parts []string
	for _, lang := range langs {
		parts = append(parts, fmt.Sprintf("%d %s", len(byLang[lang]), lang))
	}
	return strings.Join(parts, ", ")
}
