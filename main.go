// tskit — Qt Linguist TS catalog toolkit: statistics, lookup, checks,
// string extraction and PO conversion for .ts translation files.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/minios-linux/tskit/catalog"
	"github.com/minios-linux/tskit/check"
	"github.com/minios-linux/tskit/config"
	"github.com/minios-linux/tskit/convert"
	"github.com/minios-linux/tskit/extract"
	"github.com/minios-linux/tskit/i18n"
	"github.com/minios-linux/tskit/langmeta"
	"github.com/minios-linux/tskit/merge"
	"github.com/minios-linux/tskit/plural"
	"github.com/minios-linux/tskit/tsfile"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// ANSI colors
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[0;31m"
	colorGreen  = "\033[0;32m"
	colorYellow = "\033[1;33m"
	colorBlue   = "\033[0;34m"
)

func logInfo(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorBlue+"[INFO]"+colorReset+" "+format+"\n", args...)
}

func logSuccess(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorGreen+"[OK]"+colorReset+" "+format+"\n", args...)
}

func logWarning(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorYellow+"[WARN]"+colorReset+" "+format+"\n", args...)
}

func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorRed+"[ERROR]"+colorReset+" "+format+"\n", args...)
}

// ---------------------------------------------------------------------------
// Global flags
// ---------------------------------------------------------------------------

var (
	rootDir string
	uiLang  string
)

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tskit",
		Short: "Qt Linguist TS catalog toolkit",
		Long: `tskit — toolkit for Qt Linguist .ts translation catalogs.

Reads and writes TS 2.1 files, looks up translations with numerus forms,
checks catalogs for integrity problems, extracts tr() strings from C++
sources and Designer forms, and converts between TS and gettext PO.

Commands:
  status    Show translation statistics per language
  lookup    Translate a single message
  check     Validate TS files
  extract   Update TS files from the sources (like lupdate)
  convert   Convert between .ts and .po
  init      Write a .tskit.yaml for the detected layout`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			i18n.Init(uiLang)
		},
	}

	// Global persistent flags, inherited by all subcommands
	root.PersistentFlags().StringVar(&rootDir, "root", ".", "Project root directory")
	root.PersistentFlags().StringVar(&uiLang, "ui-lang", "", "Language of tskit's own messages (default: from LANGUAGE/LANG)")

	root.AddCommand(
		newStatusCmd(),
		newLookupCmd(),
		newCheckCmd(),
		newExtractCmd(),
		newConvertCmd(),
		newInitCmd(),
		newVersionCmd(),
	)

	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logError("%v", err)
		os.Exit(1)
	}
}

// addLangsFlag registers the shared --langs filter.
func addLangsFlag(fs *pflag.FlagSet, target *string) {
	fs.StringVar(target, "langs", "", "Only process these languages (comma-separated)")
}

// ---------------------------------------------------------------------------
// version
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display version, commit hash, and build date.`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("tskit version %s\n", version)
			fmt.Printf("  commit:    %s\n", commit)
			fmt.Printf("  built:     %s\n", date)
		},
	}
}

// ---------------------------------------------------------------------------
// status (read-only: project info + translation stats)
// ---------------------------------------------------------------------------

func newStatusCmd() *cobra.Command {
	var (
		langs      string
		unfinished bool
	)

	cmd := &cobra.Command{
		Use:   "status [files...]",
		Short: "Show translation statistics per language",
		Long: `Show translation progress of TS files.

Without arguments the project layout is taken from .tskit.yaml or detected
from the TS files under --root. Does not modify any files.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(args, langs, unfinished)
		},
	}

	addLangsFlag(cmd.Flags(), &langs)
	cmd.Flags().BoolVar(&unfinished, "unfinished", false, "List messages that still need work")

	return cmd
}

type statusRow struct {
	lang  string
	path  string
	file  *tsfile.File
	stats tsfile.Stats
	err   error
}

func loadRow(lang, path string) statusRow {
	f, err := tsfile.ParseFile(path)
	if err != nil {
		return statusRow{lang: lang, path: path, err: err}
	}
	if lang == "" {
		lang = f.Language
	}
	return statusRow{lang: lang, path: path, file: f, stats: f.Stats()}
}

func runStatus(files []string, langs string, unfinished bool) error {
	var rows []statusRow

	if len(files) == 0 {
		proj, err := config.Load(rootDir)
		if err != nil {
			return err
		}
		printProject(proj)

		targets := filterOutLang(proj.Languages, proj.SourceLang)
		if langs != "" {
			targets = intersectLanguages(targets, strings.Split(langs, ","))
		}
		if len(targets) == 0 {
			logInfo("%s", i18n.T("No TS files found. Run 'tskit extract --lang <code>' to create one."))
			return nil
		}
		for _, lang := range targets {
			rows = append(rows, loadRow(lang, proj.TSPath(lang)))
		}
	} else {
		for _, path := range files {
			rows = append(rows, loadRow("", path))
		}
	}

	showStatsTable(rows)
	if unfinished {
		showUnfinished(rows)
	}
	return nil
}

func printProject(proj *config.Project) {
	fmt.Fprintf(os.Stderr, "\n%s%s%s\n", colorBlue, i18n.T("Project"), colorReset)
	fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))

	fmt.Fprintf(os.Stderr, "  %-12s %s\n", i18n.T("Name:"), proj.Name)
	fmt.Fprintf(os.Stderr, "  %-12s %s\n", i18n.T("Root:"), proj.Root)
	fmt.Fprintf(os.Stderr, "  %-12s %s\n", i18n.T("TS dir:"), proj.TSDir)
	fmt.Fprintf(os.Stderr, "  %-12s %s\n", i18n.T("Pattern:"), proj.TSPattern)
	fmt.Fprintf(os.Stderr, "  %-12s %s\n", i18n.T("Sources:"), strings.Join(proj.SourceDirs, ", "))
	source := proj.SourceLang
	if m := langmeta.Resolve(source); m.EnglishName != "" {
		source += " (" + m.EnglishName + ")"
	}
	fmt.Fprintf(os.Stderr, "  %-12s %s\n", i18n.T("Source lang:"), source)
	if !proj.FromFile {
		fmt.Fprintf(os.Stderr, "  %-12s %s\n", i18n.T("Config:"), i18n.T("auto-detected (no .tskit.yaml)"))
	}
	fmt.Fprintln(os.Stderr)
}

func showStatsTable(rows []statusRow) {
	langs := make([]string, len(rows))
	for i, r := range rows {
		langs[i] = r.lang
	}
	width := langColumnWidth(langs)

	fmt.Fprintf(os.Stderr, "%s%s%s\n", colorBlue, i18n.T("Translation Statistics"), colorReset)
	fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))
	fmt.Fprintf(os.Stderr, "%s %-9s %-10s %-9s %-9s %s\n",
		langCell(i18n.T("Lang"), width), i18n.T("Finished"), i18n.T("Unfinished"), i18n.T("Untrans."), i18n.T("Obsolete"), i18n.T("Progress"))
	fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))

	for _, r := range rows {
		if r.err != nil {
			fmt.Fprintf(os.Stderr, "%s %s\n", langCell(r.lang, width), i18n.T("missing"))
			continue
		}
		s := r.stats
		fmt.Fprintf(os.Stderr, "%s %-9d %-10d %-9d %-9d %s\n",
			langCell(r.lang, width), s.Finished, s.Unfinished, s.Untranslated, s.Obsolete, progressBar(s.Percent(), 12))
	}
	fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))
	fmt.Fprintln(os.Stderr)
}

func showUnfinished(rows []statusRow) {
	for _, r := range rows {
		if r.file == nil {
			continue
		}
		keys := r.file.UnfinishedMessages()
		if len(keys) == 0 {
			continue
		}
		logInfo(i18n.N("%s: %d message needs work", "%s: %d messages need work", len(keys)), r.lang, len(keys))
		for _, k := range keys {
			line := "  " + k.Context + ": " + k.Source
			if k.Comment != "" {
				line += " (" + k.Comment + ")"
			}
			fmt.Fprintln(os.Stderr, line)
		}
	}
}

// progressBar renders percent as a colored bar followed by the number.
func progressBar(percent, width int) string {
	percent = max(0, min(100, percent))
	filled := percent * width / 100

	color := colorRed
	switch {
	case percent >= 80:
		color = colorGreen
	case percent >= 40:
		color = colorYellow
	}
	return color + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + colorReset + fmt.Sprintf(" %3d%%", percent)
}

// langFlag returns the emoji flag for a language code. An explicit region
// wins over the language's most likely region.
func langFlag(lang string) string {
	parts := strings.FieldsFunc(lang, func(r rune) bool { return r == '-' || r == '_' })
	if len(parts) >= 2 {
		if flag := langmeta.FlagFromRegion(parts[len(parts)-1]); flag != "" {
			return flag
		}
	}
	return langmeta.Resolve(lang).Flag
}

func langColumnWidth(langs []string) int {
	width := len("Lang")
	for _, l := range langs {
		width = max(width, len(l))
	}
	return width
}

// langCell renders a flag-prefixed, padded language column.
func langCell(lang string, width int) string {
	flag := langFlag(lang)
	if flag == "" {
		flag = "  "
	}
	return fmt.Sprintf("%s %-*s", flag, width, lang)
}

// intersectLanguages keeps the filter entries present in available,
// in filter order.
func intersectLanguages(available, filter []string) []string {
	set := make(map[string]bool, len(available))
	for _, l := range available {
		set[l] = true
	}
	var out []string
	for _, f := range filter {
		f = strings.TrimSpace(f)
		if set[f] {
			out = append(out, f)
		}
	}
	return out
}

func filterOutLang(langs []string, lang string) []string {
	var out []string
	for _, l := range langs {
		if l != lang {
			out = append(out, l)
		}
	}
	return out
}

// fileExists returns true if the file exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// ---------------------------------------------------------------------------
// lookup
// ---------------------------------------------------------------------------

func newLookupCmd() *cobra.Command {
	var (
		context string
		source  string
		comment string
		count   int
		expand  bool
		prefer  string
	)

	cmd := &cobra.Command{
		Use:   "lookup [FILE]",
		Short: "Translate a single message",
		Long: `Look up the translation of a message, falling back to the source text.

With FILE the catalog is read from that TS file. Without it every project
catalog is loaded and the one matching --prefer (or the environment
locale) is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var cat *catalog.Catalog
			var err error
			if len(args) == 1 {
				cat, err = catalog.Load(args[0])
			} else {
				cat, err = matchProjectCatalog(prefer)
			}
			if err != nil {
				return err
			}

			tr := catalog.NewTranslator(cat)
			out := cmd.OutOrStdout()
			switch {
			case count < 0:
				fmt.Fprintln(out, tr.Translate(context, source, comment))
			case expand:
				fmt.Fprintln(out, tr.TranslateN(context, source, comment, count))
			default:
				fmt.Fprintln(out, cat.Translate(context, source, comment, count))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&context, "context", "c", "", "Message context (class name)")
	cmd.Flags().StringVarP(&source, "source", "s", "", "Source text")
	cmd.Flags().StringVarP(&comment, "comment", "d", "", "Disambiguation comment")
	cmd.Flags().IntVarP(&count, "count", "n", catalog.NoCount, "Count selecting the numerus form")
	cmd.Flags().BoolVar(&expand, "expand", false, "Substitute %n with the count")
	cmd.Flags().StringVar(&prefer, "prefer", "", "Preferred languages without FILE (comma-separated, default from LANG)")
	_ = cmd.MarkFlagRequired("context")
	_ = cmd.MarkFlagRequired("source")

	return cmd
}

// matchProjectCatalog loads every project catalog and picks the best one
// for prefer. A nil catalog means no match; lookups then return the source.
func matchProjectCatalog(prefer string) (*catalog.Catalog, error) {
	proj, err := config.Load(rootDir)
	if err != nil {
		return nil, err
	}
	var b catalog.Bundle
	for _, lang := range proj.Languages {
		cat, err := catalog.Load(proj.TSPath(lang))
		if err != nil {
			logWarning("%v", err)
			continue
		}
		b.Add(cat)
	}

	prefs := strings.Split(prefer, ",")
	if prefer == "" {
		prefs = []string{i18n.Language()}
		if env := os.Getenv("LANG"); env != "" {
			prefs = []string{strings.SplitN(env, ".", 2)[0]}
		}
	}
	cat := b.Match(prefs...)
	if cat == nil {
		logWarning(i18n.T("No catalog matches %s; showing source text"), strings.Join(prefs, ", "))
	}
	return cat, nil
}

// ---------------------------------------------------------------------------
// check
// ---------------------------------------------------------------------------

func newCheckCmd() *cobra.Command {
	var langs string

	cmd := &cobra.Command{
		Use:   "check [files...]",
		Short: "Validate TS files",
		Long: `Check TS files for duplicate messages, wrong numerus form counts,
missing place markers, accelerator and punctuation mismatches.

Exits with status 1 when errors are found; warnings alone do not fail.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			files := args
			if len(files) == 0 {
				proj, err := config.Load(rootDir)
				if err != nil {
					return err
				}
				targets := filterOutLang(proj.Languages, proj.SourceLang)
				if langs != "" {
					targets = intersectLanguages(targets, strings.Split(langs, ","))
				}
				for _, lang := range targets {
					files = append(files, proj.TSPath(lang))
				}
			}
			if len(files) == 0 {
				return errors.New(i18n.T("no TS files to check"))
			}
			return runCheck(files)
		},
	}

	addLangsFlag(cmd.Flags(), &langs)
	return cmd
}

func runCheck(files []string) error {
	errorCount := 0
	for _, path := range files {
		f, err := tsfile.ParseFile(path)
		if err != nil {
			logError("%v", err)
			errorCount++
			continue
		}
		issues := check.Run(f)
		if len(issues) == 0 {
			logSuccess(i18n.T("%s: no issues (%d numerus forms for %q)"), path, plural.Count(f.Language), f.Language)
			continue
		}
		for _, issue := range issues {
			if issue.Severity == check.Error {
				errorCount++
				fmt.Fprintf(os.Stderr, "%s%s%s: %s\n", colorRed, path, colorReset, issue)
			} else {
				fmt.Fprintf(os.Stderr, "%s%s%s: %s\n", colorYellow, path, colorReset, issue)
			}
		}
		logInfo(i18n.N("%s: %d issue", "%s: %d issues", len(issues)), path, len(issues))
	}

	if errorCount > 0 {
		return fmt.Errorf(i18n.N("%d error found", "%d errors found", errorCount), errorCount)
	}
	return nil
}

// ---------------------------------------------------------------------------
// extract (lupdate: sources → TS files)
// ---------------------------------------------------------------------------

func newExtractCmd() *cobra.Command {
	var (
		tsPath     string
		lang       string
		langs      string
		noObsolete bool
	)

	cmd := &cobra.Command{
		Use:   "extract [dirs...]",
		Short: "Update TS files from the sources (like lupdate)",
		Long: `Scan C++ sources and Designer forms for translatable strings and merge
them into TS files. Existing translations are kept; strings that left the
sources are marked vanished (or dropped with --no-obsolete).

Without --ts every configured language file is updated. With --lang and no
--ts the file name comes from the project pattern.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, err := config.Load(rootDir)
			if err != nil {
				return err
			}
			dirs := args
			if len(dirs) == 0 {
				dirs = proj.SourceDirs
			}

			type target struct{ lang, path string }
			var targets []target
			switch {
			case tsPath != "":
				targets = append(targets, target{lang, tsPath})
			case lang != "":
				targets = append(targets, target{lang, proj.TSPath(lang)})
			default:
				list := filterOutLang(proj.Languages, proj.SourceLang)
				if langs != "" {
					list = intersectLanguages(list, strings.Split(langs, ","))
				}
				for _, l := range list {
					targets = append(targets, target{l, proj.TSPath(l)})
				}
			}
			if len(targets) == 0 {
				return errors.New(i18n.T("no target languages; pass --ts or --lang"))
			}

			files, err := extract.FindSources(dirs)
			if err != nil {
				return fmt.Errorf("scanning sources: %w", err)
			}
			if len(files) == 0 {
				return fmt.Errorf(i18n.T("no source files found in %s"), strings.Join(dirs, ", "))
			}
			logInfo(i18n.T("Found %d source files (%s)"), len(files), extract.DescribeFiles(files))

			opts := merge.Options{NoObsolete: noObsolete || proj.NoObsolete}
			for i, t := range targets {
				res, err := extract.Run(files, extract.Options{BaseDir: filepath.Dir(t.path), SourceLanguage: proj.SourceLang})
				if err != nil {
					return fmt.Errorf("extraction failed: %w", err)
				}
				if i == 0 {
					for _, w := range res.Warnings {
						logWarning("%s", w)
					}
				}
				if err := updateTS(t.lang, t.path, res.Template, opts); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&tsPath, "ts", "", "TS file to update or create")
	cmd.Flags().StringVar(&lang, "lang", "", "Target language of a new TS file")
	cmd.Flags().BoolVar(&noObsolete, "no-obsolete", false, "Drop strings that left the sources")
	addLangsFlag(cmd.Flags(), &langs)

	return cmd
}

// updateTS merges template into the TS file at path, creating it when missing.
func updateTS(lang, path string, template *tsfile.File, opts merge.Options) error {
	existing := tsfile.NewFile(lang)
	if fileExists(path) {
		f, err := tsfile.ParseFile(path)
		if err != nil {
			return err
		}
		existing = f
		if existing.Language == "" {
			existing.Language = lang
		}
	} else if lang == "" {
		return fmt.Errorf(i18n.T("%s does not exist; pass --lang to create it"), path)
	}

	merged, report := merge.Merge(existing, template, opts)
	if err := merged.WriteFile(path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	logSuccess(i18n.T("%s: %d kept, %d new (%d same-text), %d vanished, %d dropped"),
		path, report.Kept, report.Added, report.SameText, report.Vanished, report.Dropped)
	return nil
}

// ---------------------------------------------------------------------------
// convert
// ---------------------------------------------------------------------------

func newConvertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert IN OUT",
		Short: "Convert between .ts and .po",
		Long: `Convert a catalog by file extension: .ts → .po, .po → .ts, or
.ts → .ts to normalize layout. Contexts and disambiguation comments are
kept in msgctxt as "context|comment".`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := convert.File(args[0], args[1]); err != nil {
				return err
			}
			logSuccess(i18n.T("Wrote %s"), args[1])
			return nil
		},
	}
}

// ---------------------------------------------------------------------------
// init (write .tskit.yaml)
// ---------------------------------------------------------------------------

func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a .tskit.yaml for the detected layout",
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, err := config.Load(rootDir)
			if err != nil {
				return err
			}
			if proj.FromFile && !force {
				return fmt.Errorf(i18n.T("%s already exists (use --force to rewrite)"), config.TskitFileName)
			}

			tf := &config.TskitFile{
				Project:    proj.Name,
				SourceLang: proj.SourceLang,
				Languages:  proj.Languages,
				TSDir:      relTo(proj.Root, proj.TSDir),
				TSPattern:  proj.TSPattern,
				NoObsolete: proj.NoObsolete,
			}
			for _, dir := range proj.SourceDirs {
				tf.Sources = append(tf.Sources, relTo(proj.Root, dir))
			}
			if err := tf.Save(proj.Root); err != nil {
				return err
			}
			logSuccess(i18n.T("Wrote %s"), filepath.Join(proj.Root, config.TskitFileName))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing .tskit.yaml")
	return cmd
}

func relTo(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}
