package check

import (
	"strings"
	"testing"

	"github.com/minios-linux/tskit/tsfile"
)

func TestRunSampleIsClean(t *testing.T) {
	f, err := tsfile.ParseFile("../testdata/QOwnNotes_bg.ts")
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if issues := Run(f); len(issues) != 0 {
		t.Fatalf("Run(sample) = %v, want no issues", issues)
	}
}

func kinds(issues []Issue) []Kind {
	out := make([]Kind, len(issues))
	for i, is := range issues {
		out[i] = is.Kind
	}
	return out
}

func TestRunFindsProblems(t *testing.T) {
	f := tsfile.NewFile("bg")
	f.AddContext("MainWindow").Messages = []*tsfile.Message{
		{Source: "&Quit", Translation: "&Изход"},
		{Source: "&Quit", Translation: "&Изход"},
		{Source: "&Quit", Comment: "tray", Translation: "&Изход"},
		{Source: "%n notes", Numerus: true, NumerusForms: []string{"%n бележка", "%n бележки", "%n бележки"}},
		{Source: "%n files", Numerus: true, NumerusForms: []string{"%n файл", "файла"}, Type: tsfile.TypeFinished},
		{Source: "Open %1", Translation: "Отвори"},
		{Source: "&Save", Translation: "Запиши"},
		{Source: "Done.", Translation: "Готово!"},
		{Source: "Empty", Translation: ""},
		{Source: "Draft %1", Translation: "", Type: tsfile.TypeUnfinished},
		{Source: "Gone %1", Translation: "", Type: tsfile.TypeVanished},
	}

	issues := Run(f)
	got := kinds(issues)
	want := []Kind{KindDuplicate, KindNumerusCount, KindPlaceMarker, KindPlaceMarker, KindAccelerator, KindPunctuation, KindEmpty}
	if len(got) != len(want) {
		t.Fatalf("kinds = %v, want %v\n%v", got, want, issues)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("kinds = %v, want %v", got, want)
		}
	}

	if !HasErrors(issues) {
		t.Fatal("HasErrors = false, want true")
	}
	if issues[0].Severity != Error || issues[1].Severity != Error || issues[2].Severity != Warning {
		t.Fatalf("severities = %v %v %v", issues[0].Severity, issues[1].Severity, issues[2].Severity)
	}
	if !strings.Contains(issues[1].Detail, "needs 2 (one, other)") {
		t.Fatalf("numerus detail = %q", issues[1].Detail)
	}
	if !strings.Contains(issues[2].Detail, "numerus form 1") || !strings.Contains(issues[2].Detail, "%n") {
		t.Fatalf("numerus place marker detail = %q", issues[2].Detail)
	}
	if !strings.HasPrefix(issues[0].String(), "error [duplicate] MainWindow: &Quit") {
		t.Fatalf("String() = %q", issues[0].String())
	}
}

func TestWarningsOnly(t *testing.T) {
	f := tsfile.NewFile("de")
	f.AddContext("C").Messages = []*tsfile.Message{{Source: "Save", Translation: "&Speichern"}}
	issues := Run(f)
	if len(issues) != 1 || HasErrors(issues) {
		t.Fatalf("issues = %v, want a single warning", issues)
	}
}

func TestHelpers(t *testing.T) {
	if !hasAccelerator("&File") || hasAccelerator("Tom && Jerry") || hasAccelerator("a & b") {
		t.Fatal("hasAccelerator mismatch")
	}
	if got := missingMarkers("%1 of %2 (%n)", "%2 от %1"); len(got) != 1 || got[0] != "%n" {
		t.Fatalf("missingMarkers = %v", got)
	}
	if got := missingMarkers("%L1", "%1"); len(got) != 0 {
		t.Fatalf("missingMarkers(%%L1) = %v, want none", got)
	}
	if !equivalentPunct("。", ".") || !equivalentPunct("…", ".") || equivalentPunct("!", ".") {
		t.Fatal("equivalentPunct mismatch")
	}
	if endPunct("Open (beta)") != "" || endPunct("Wait... ") != "." {
		t.Fatal("endPunct mismatch")
	}
}
