package merge

import (
	"reflect"
	"strings"
	"testing"

	"github.com/minios-linux/tskit/tsfile"
)

func TestMergeKeepNewVanishedAndDropped(t *testing.T) {
	existing := tsfile.NewFile("bg")
	existing.SourceLanguage = "en"
	existing.Contexts = []*tsfile.Context{{
		Name: "MainWindow",
		Messages: []*tsfile.Message{
			{
				Locations:   []tsfile.Location{{Filename: "old.cpp", Line: "1"}},
				Source:      "&Quit",
				Translation: "&напускам",
			},
			{Source: "Encrypt note text", Translation: "Шифроване на текста"},
			{Source: "Never translated", Type: tsfile.TypeUnfinished},
			{Source: "Gone long ago", Translation: "x", Type: tsfile.TypeVanished},
		},
	}}

	template := tsfile.NewFile("")
	template.Contexts = []*tsfile.Context{
		{
			Name: "MainWindow",
			Messages: []*tsfile.Message{
				{
					Locations:    []tsfile.Location{{Filename: "../src/mainwindow.ui", Line: "1301"}},
					Source:       "&Quit",
					ExtraComment: "File menu",
				},
				{Source: "Open", Locations: []tsfile.Location{{Filename: "../src/mainwindow.cpp", Line: "40"}}},
			},
		},
		{
			Name:     "TrayMenu",
			Messages: []*tsfile.Message{{Source: "&Quit"}},
		},
	}

	merged, report := Merge(existing, template, Options{})

	want := Report{Kept: 1, Added: 2, SameText: 1, Vanished: 1, Dropped: 1}
	if report != want {
		t.Fatalf("report = %+v, want %+v", report, want)
	}
	if merged.Language != "bg" || merged.SourceLanguage != "en" {
		t.Fatalf("header lost: %q %q", merged.Language, merged.SourceLanguage)
	}

	quit := merged.Find("MainWindow", "&Quit", "")
	if quit == nil || quit.Translation != "&напускам" || !quit.IsFinished() {
		t.Fatalf("kept message mismatch: %#v", quit)
	}
	if !reflect.DeepEqual(quit.Locations, []tsfile.Location{{Filename: "../src/mainwindow.ui", Line: "1301"}}) {
		t.Fatalf("locations not refreshed: %#v", quit.Locations)
	}
	if quit.ExtraComment != "File menu" {
		t.Fatalf("extra comment = %q", quit.ExtraComment)
	}

	open := merged.Find("MainWindow", "Open", "")
	if open == nil || open.Type != tsfile.TypeUnfinished || open.Translation != "" {
		t.Fatalf("new message mismatch: %#v", open)
	}

	tray := merged.Find("TrayMenu", "&Quit", "")
	if tray == nil || tray.Translation != "&напускам" || tray.Type != tsfile.TypeUnfinished {
		t.Fatalf("same-text message mismatch: %#v", tray)
	}

	enc := merged.Find("MainWindow", "Encrypt note text", "")
	if enc == nil || enc.Type != tsfile.TypeVanished || enc.Translation == "" {
		t.Fatalf("vanished message mismatch: %#v", enc)
	}
	if merged.Find("MainWindow", "Never translated", "") != nil {
		t.Fatal("untranslated message should be dropped")
	}
	if old := merged.Find("MainWindow", "Gone long ago", ""); old == nil || old.Type != tsfile.TypeVanished {
		t.Fatalf("already vanished message should be kept: %#v", old)
	}

	names := make([]string, 0, len(merged.Contexts))
	for _, c := range merged.Contexts {
		names = append(names, c.Name)
	}
	if !reflect.DeepEqual(names, []string{"MainWindow", "TrayMenu"}) {
		t.Fatalf("context order = %v", names)
	}
}

func TestMergeRevivesVanishedMessage(t *testing.T) {
	existing := tsfile.NewFile("bg")
	existing.Contexts = []*tsfile.Context{{
		Name:     "LinkDialog",
		Messages: []*tsfile.Message{{Source: "Select file to link to", Translation: "Изберете файл", Type: tsfile.TypeVanished}},
	}}
	template := tsfile.NewFile("")
	template.Contexts = []*tsfile.Context{{
		Name:     "LinkDialog",
		Messages: []*tsfile.Message{{Source: "Select file to link to"}},
	}}

	merged, report := Merge(existing, template, Options{})
	if report.Kept != 1 {
		t.Fatalf("report = %+v", report)
	}
	m := merged.Find("LinkDialog", "Select file to link to", "")
	if m == nil || m.Type != tsfile.TypeUnfinished || m.Translation != "Изберете файл" {
		t.Fatalf("revived message mismatch: %#v", m)
	}
}

func TestMergeNumerusChange(t *testing.T) {
	existing := tsfile.NewFile("bg")
	existing.Contexts = []*tsfile.Context{{
		Name: "MainWindow",
		Messages: []*tsfile.Message{
			{Source: "%n lines moved.", Translation: "%n реда се преместиха."},
			{Source: "%n notes", Numerus: true, NumerusForms: []string{"%n бележка", "%n бележки"}},
		},
	}}
	template := tsfile.NewFile("")
	template.Contexts = []*tsfile.Context{{
		Name: "MainWindow",
		Messages: []*tsfile.Message{
			{Source: "%n lines moved.", Numerus: true},
			{Source: "%n notes"},
		},
	}}

	merged, _ := Merge(existing, template, Options{})

	moved := merged.Find("MainWindow", "%n lines moved.", "")
	if !moved.Numerus || moved.Type != tsfile.TypeUnfinished || moved.Translation != "" {
		t.Fatalf("numerus upgrade mismatch: %#v", moved)
	}
	if !reflect.DeepEqual(moved.NumerusForms, []string{"%n реда се преместиха."}) {
		t.Fatalf("numerus forms = %q", moved.NumerusForms)
	}

	notes := merged.Find("MainWindow", "%n notes", "")
	if notes.Numerus || notes.Translation != "%n бележка" || notes.NumerusForms != nil {
		t.Fatalf("numerus downgrade mismatch: %#v", notes)
	}
}

func TestMergeNoObsolete(t *testing.T) {
	existing := tsfile.NewFile("bg")
	existing.Contexts = []*tsfile.Context{{
		Name:     "MainWindow",
		Messages: []*tsfile.Message{{Source: "Encrypt note text", Translation: "Шифроване"}},
	}}

	merged, report := Merge(existing, tsfile.NewFile(""), Options{NoObsolete: true})
	if report.Dropped != 1 || report.Vanished != 0 {
		t.Fatalf("report = %+v", report)
	}
	if len(merged.Contexts) != 0 {
		t.Fatalf("contexts = %d, want 0", len(merged.Contexts))
	}
}

func TestMergeSeedsNumerusForms(t *testing.T) {
	existing := tsfile.NewFile("bg")
	template := tsfile.NewFile("")
	template.Contexts = []*tsfile.Context{{
		Name:     "MainWindow",
		Messages: []*tsfile.Message{{Source: "%n notes selected", Numerus: true}},
	}}

	merged, _ := Merge(existing, template, Options{})
	m := merged.Find("MainWindow", "%n notes selected", "")
	if m == nil || m.Type != tsfile.TypeUnfinished {
		t.Fatalf("new numerus message mismatch: %#v", m)
	}
	if !reflect.DeepEqual(m.NumerusForms, []string{"", ""}) {
		t.Fatalf("numerus forms = %q, want two empty forms", m.NumerusForms)
	}

	out := string(merged.Marshal())
	if got := strings.Count(out, "<numerusform></numerusform>"); got != 2 {
		t.Fatalf("written numerus forms = %d, want 2:\n%s", got, out)
	}
}
