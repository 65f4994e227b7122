// Package config — .tskit.yaml project file support.
//
// When a .tskit.yaml file exists in the project root, tskit takes the
// translation directory, file name pattern and language list from it.
// Without one, the layout is detected from the TS files on disk.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ---------------------------------------------------------------------------
// YAML schema
// ---------------------------------------------------------------------------

// TskitFile is the top-level .tskit.yaml structure.
type TskitFile struct {
	// Project is the name substituted for {project} in TSPattern.
	Project string `yaml:"project,omitempty"`
	// SourceLang is the language of the source strings (default "en").
	SourceLang string `yaml:"source_lang,omitempty"`
	// Languages lists the target languages. Empty means detect from TSDir.
	Languages []string `yaml:"languages,omitempty"`
	// TSDir is the directory holding the TS files, relative to the project root.
	TSDir string `yaml:"ts_dir,omitempty"`
	// TSPattern names a TS file; {project} and {lang} are substituted.
	TSPattern string `yaml:"ts_pattern,omitempty"`
	// Sources are the directories scanned by extract, relative to the root.
	Sources []string `yaml:"sources,omitempty"`
	// NoObsolete drops vanished messages during extract.
	NoObsolete bool `yaml:"no_obsolete,omitempty"`
}

// TskitFileName is the default config file name.
const TskitFileName = ".tskit.yaml"

// Defaults used when neither the config file nor the environment set a value.
const (
	DefaultSourceLang = "en"
	DefaultTSDir      = "translations"
	DefaultTSPattern  = "{project}_{lang}.ts"
)

// LoadTskitFile loads and validates .tskit.yaml from the given directory.
// Returns nil if no .tskit.yaml exists. Unknown keys are rejected.
func LoadTskitFile(rootDir string) (*TskitFile, error) {
	path := filepath.Join(rootDir, TskitFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var tf TskitFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&tf); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if tf.TSPattern != "" && !strings.Contains(tf.TSPattern, "{lang}") {
		return nil, fmt.Errorf("%s: ts_pattern %q must contain {lang}", path, tf.TSPattern)
	}
	if tf.TSPattern != "" && filepath.Ext(tf.TSPattern) != ".ts" {
		return nil, fmt.Errorf("%s: ts_pattern %q must end in .ts", path, tf.TSPattern)
	}
	for i, lang := range tf.Languages {
		if !isLangCode(lang) {
			return nil, fmt.Errorf("%s: languages[%d] %q is not a language code", path, i, lang)
		}
	}
	return &tf, nil
}

// Save writes the file as .tskit.yaml in rootDir.
func (tf *TskitFile) Save(rootDir string) error {
	data, err := yaml.Marshal(tf)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	path := filepath.Join(rootDir, TskitFileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
