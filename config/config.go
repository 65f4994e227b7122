package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/caarlos0/env/v11"
	"golang.org/x/text/language"
)

// Project holds the resolved translation layout of a Qt project.
type Project struct {
	// Root is the absolute project directory.
	Root string
	// Name is substituted for {project} in TSPattern.
	Name       string
	SourceLang string
	Languages  []string
	// TSDir is the absolute directory holding the TS files.
	TSDir     string
	TSPattern string
	// SourceDirs are absolute directories scanned by extract.
	SourceDirs []string
	NoObsolete bool
	// FromFile reports whether a .tskit.yaml was found.
	FromFile bool
}

// envOverrides are read from the environment after the config file.
type envOverrides struct {
	Languages  []string `env:"TSKIT_LANGUAGES" envSeparator:","`
	TSDir      string   `env:"TSKIT_TS_DIR"`
	SourceLang string   `env:"TSKIT_SOURCE_LANG"`
}

// tsDirCandidates are searched, in order, when no ts_dir is configured.
var tsDirCandidates = []string{"translations", "i18n", "languages", "src/languages", "src/translations", "."}

// Load resolves the project rooted at rootDir: defaults, then .tskit.yaml,
// then TSKIT_* environment variables.
func Load(rootDir string) (*Project, error) {
	absRoot, err := filepath.Abs(rootDir)
	if err != nil {
		absRoot = rootDir
	}

	tf, err := LoadTskitFile(absRoot)
	if err != nil {
		return nil, err
	}

	p := &Project{
		Root:       absRoot,
		Name:       filepath.Base(absRoot),
		SourceLang: DefaultSourceLang,
		TSPattern:  DefaultTSPattern,
	}

	tsDir := ""
	var sources []string
	if tf != nil {
		p.FromFile = true
		if tf.Project != "" {
			p.Name = tf.Project
		}
		if tf.SourceLang != "" {
			p.SourceLang = tf.SourceLang
		}
		if tf.TSPattern != "" {
			p.TSPattern = tf.TSPattern
		}
		p.Languages = tf.Languages
		p.NoObsolete = tf.NoObsolete
		tsDir = tf.TSDir
		sources = tf.Sources
	}

	var ov envOverrides
	if err := env.Parse(&ov); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if len(ov.Languages) > 0 {
		p.Languages = ov.Languages
	}
	if ov.TSDir != "" {
		tsDir = ov.TSDir
	}
	if ov.SourceLang != "" {
		p.SourceLang = ov.SourceLang
	}

	if tsDir == "" {
		tsDir = p.detectTSDir()
	}
	p.TSDir = filepath.Join(absRoot, tsDir)

	if len(sources) == 0 {
		if info, err := os.Stat(filepath.Join(absRoot, "src")); err == nil && info.IsDir() {
			sources = []string{"src"}
		} else {
			sources = []string{"."}
		}
	}
	for _, s := range sources {
		p.SourceDirs = append(p.SourceDirs, filepath.Join(absRoot, s))
	}

	if !p.FromFile || tf.Project == "" {
		p.detectName()
	}
	if len(p.Languages) == 0 {
		p.Languages = p.DetectLanguages()
	}
	return p, nil
}

// detectTSDir returns the first candidate directory containing TS files.
func (p *Project) detectTSDir() string {
	for _, dir := range tsDirCandidates {
		matches, _ := filepath.Glob(filepath.Join(p.Root, dir, "*.ts"))
		if len(matches) > 0 {
			return dir
		}
	}
	return DefaultTSDir
}

// detectName adopts the prefix of existing "<prefix>_<lang>.ts" files as
// the project name, so QOwnNotes_bg.ts resolves under any directory name.
func (p *Project) detectName() {
	if !strings.HasPrefix(p.TSPattern, "{project}_") || len(p.DetectLanguages()) > 0 {
		return
	}
	entries, err := os.ReadDir(p.TSDir)
	if err != nil {
		return
	}
	counts := make(map[string]int)
	for _, e := range entries {
		name := strings.TrimSuffix(e.Name(), ".ts")
		if e.IsDir() || name == e.Name() {
			continue
		}
		idx := strings.LastIndex(name, "_")
		// pt_BR style suffixes span two underscores.
		if prev := strings.LastIndex(name[:max(idx, 0)], "_"); prev > 0 && isLangCode(name[prev+1:]) {
			idx = prev
		}
		if idx > 0 && isLangCode(name[idx+1:]) {
			counts[name[:idx]]++
		}
	}
	best := ""
	for prefix, n := range counts {
		if n > counts[best] || (n == counts[best] && prefix < best) {
			best = prefix
		}
	}
	if best != "" {
		p.Name = best
	}
}

// TSPath returns the path of the TS file for lang.
func (p *Project) TSPath(lang string) string {
	name := strings.ReplaceAll(p.TSPattern, "{project}", p.Name)
	name = strings.ReplaceAll(name, "{lang}", lang)
	return filepath.Join(p.TSDir, name)
}

// DetectLanguages scans TSDir for files matching TSPattern and returns
// their language codes, sorted.
func (p *Project) DetectLanguages() []string {
	re := p.patternRe()
	entries, err := os.ReadDir(p.TSDir)
	if err != nil {
		return nil
	}
	var langs []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := re.FindStringSubmatch(e.Name())
		if m == nil || !isLangCode(m[1]) {
			continue
		}
		if m[1] == p.SourceLang {
			continue
		}
		langs = append(langs, m[1])
	}
	sort.Strings(langs)
	return langs
}

func (p *Project) patternRe() *regexp.Regexp {
	quoted := regexp.QuoteMeta(p.TSPattern)
	quoted = strings.ReplaceAll(quoted, regexp.QuoteMeta("{project}"), regexp.QuoteMeta(p.Name))
	quoted = strings.Replace(quoted, regexp.QuoteMeta("{lang}"), `([A-Za-z]{2,3}(?:[_-][A-Za-z0-9]{2,8})?)`, 1)
	return regexp.MustCompile("^" + quoted + "$")
}

// isLangCode checks if a string is a language code (bg, pt_BR, zh-Hant, ...).
func isLangCode(s string) bool {
	if len(s) < 2 || strings.ContainsAny(s, " .") {
		return false
	}
	tag, err := language.Parse(strings.ReplaceAll(s, "_", "-"))
	if err != nil {
		return false
	}
	base, conf := tag.Base()
	return conf == language.Exact && base.String() != "und"
}
