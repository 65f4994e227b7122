package extract

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/minios-linux/tskit/tsfile"
)

const linkDialogCpp = `#include "linkdialog.h"
#include <QFileDialog>

LinkDialog::LinkDialog(QString dialogTitle, QWidget *parent) :
        MasterDialog(parent),
        ui(new Ui::LinkDialog) {
    ui->setupUi(this);
}

/**
 * Selects a local file to link to
 */
void LinkDialog::addFileUrl() {
    QUrl fileUrl;
    fileUrl = QFileDialog::getOpenFileUrl(this, tr("Select file to link to"),
                                          fileUrl);
}

void LinkDialog::setupFileUrlMenu() {
    auto *addMenu = new QMenu(this);

    QAction *addFileAction = addMenu->addAction(
            tr("Select file to link to"));
    //: Menu entry that opens a directory picker
    QAction *addDirectoryAction = addMenu->addAction(
            tr("Select directory to link to"));
}
`

func messages(t *testing.T, src string) []extracted {
	t.Helper()
	msgs, warnings := parseCpp([]byte(src))
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	return msgs
}

func TestParseCppMethodContext(t *testing.T) {
	got := messages(t, linkDialogCpp)
	want := []extracted{
		{context: "LinkDialog", source: "Select file to link to", line: 15},
		{context: "LinkDialog", source: "Select file to link to", line: 23},
		{context: "LinkDialog", source: "Select directory to link to", extraComment: "Menu entry that opens a directory picker", line: 26},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("messages mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestParseCppClassBodyAndNamespaces(t *testing.T) {
	src := `namespace Ui { class LinkDialog; }
namespace Widgets {
class Q_DECL_EXPORT NoteTree : public QTreeWidget {
    Q_OBJECT
public:
    QString title() const { return tr("Notes", "tree header"); }
    enum class Mode { A, B };
};

void NoteTree::refresh() {
    auto cb = [this]() { setToolTip(tr("%n notes", "", count())); };
}
}

MainWindow::MainWindow() : QMainWindow(nullptr), m_ids{1, 2} {
    setWindowTitle(tr("QOwnNotes"));
}
`
	got := messages(t, src)
	want := []extracted{
		{context: "Widgets::NoteTree", source: "Notes", comment: "tree header", line: 6},
		{context: "Widgets::NoteTree", source: "%n notes", numerus: true, line: 11},
		{context: "MainWindow", source: "QOwnNotes", line: 16},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("messages mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestParseCppTranslateAndMacros(t *testing.T) {
	src := `static const char *titles[] = {
    QT_TRANSLATE_NOOP("Settings", "General"),
    QT_TRANSLATE_NOOP3("Settings", "Note", "noun"),
    QT_TRANSLATE_N_NOOP("Settings", "%n files"),
};

class Settings {
    const char *name = QT_TR_NOOP("Editor");
};

void run() {
    //= note_remove
    QCoreApplication::translate("MainWindow", "Do you want to remove the note " "<strong>%1</strong>?");
    QApplication::translate("MainWindow", "%n lines moved.", nullptr, n);
    QApplication::translate("Legacy", "Old", 0, QApplication::UnicodeUTF8);
    QObject::tr("Explicit");
    translate(variable, "not extracted");
}
`
	got := messages(t, src)
	want := []extracted{
		{context: "Settings", source: "General", line: 2},
		{context: "Settings", source: "Note", comment: "noun", line: 3},
		{context: "Settings", source: "%n files", numerus: true, line: 4},
		{context: "Settings", source: "Editor", line: 8},
		{context: "MainWindow", source: "Do you want to remove the note <strong>%1</strong>?", id: "note_remove", line: 13},
		{context: "MainWindow", source: "%n lines moved.", numerus: true, line: 14},
		{context: "Legacy", source: "Old", line: 15},
		{context: "QObject", source: "Explicit", line: 16},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("messages mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestParseCppWarnings(t *testing.T) {
	src := `int main() {
    qDebug() << tr("no context");
    //: orphan note
    int x = 1;
}

void Dialog::show() {
    other->tr("wrong");
}
`
	msgs, warnings := parseCpp([]byte(src))
	if len(msgs) != 0 {
		t.Fatalf("expected no messages, got %+v", msgs)
	}
	want := []warning{
		{line: 2, text: "tr() cannot be called without context"},
		{line: 4, text: "discarding unconsumed meta data"},
		{line: 8, text: "cannot invoke tr() like this"},
	}
	if !reflect.DeepEqual(warnings, want) {
		t.Fatalf("warnings = %+v, want %+v", warnings, want)
	}
}

func TestLexCppLiterals(t *testing.T) {
	src := "// tr(\"in comment\")\n" +
		"/* tr(\"in block\") */\n" +
		"#define TITLE tr(\"in macro\") \\\n  continued\n" +
		"x = \"tab\\there\" \"\\x41\\101\\u00e9\" R\"raw(a \"quoted\" \\n)raw\" u8\"utf8\" 'c' '\\'' 1'000;\n"
	var strs []string
	var lines []int
	for _, tok := range lexCpp([]byte(src)) {
		if tok.kind == tokString {
			strs = append(strs, tok.text)
			lines = append(lines, tok.line)
		}
	}
	wantStrs := []string{"tab\there", "AAé", `a "quoted" \n`, "utf8"}
	if !reflect.DeepEqual(strs, wantStrs) {
		t.Fatalf("strings = %q, want %q", strs, wantStrs)
	}
	if !reflect.DeepEqual(lines, []int{5, 5, 5, 5}) {
		t.Fatalf("lines = %v", lines)
	}
}

const mainWindowUI = `<?xml version="1.0" encoding="UTF-8"?>
<ui version="4.0">
 <class>MainWindow</class>
 <widget class="QMainWindow" name="MainWindow">
  <property name="windowTitle">
   <string>QOwnNotes</string>
  </property>
  <property name="styleSheet">
   <string notr="true">color: red;</string>
  </property>
  <action name="actionQuit">
   <property name="text">
    <string extracomment="File menu">&amp;Quit</string>
   </property>
  </action>
  <action name="actionNote">
   <property name="text">
    <string comment="menu title">Note</string>
   </property>
  </action>
 </widget>
 <customwidgets>
  <customwidget>
   <class>NoteTextEdit</class>
  </customwidget>
 </customwidgets>
</ui>
`

func TestParseUI(t *testing.T) {
	got, err := parseUI([]byte(mainWindowUI))
	if err != nil {
		t.Fatalf("parseUI: %v", err)
	}
	want := []extracted{
		{context: "MainWindow", source: "QOwnNotes", line: 6},
		{context: "MainWindow", source: "&Quit", extraComment: "File menu", line: 13},
		{context: "MainWindow", source: "Note", comment: "menu title", line: 18},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("messages mismatch:\n got %+v\nwant %+v", got, want)
	}

	if _, err := parseUI([]byte(`<ui><widget><string>x</string></widget></ui>`)); err == nil {
		t.Fatal("expected error for form without <class>")
	}
}

func TestFindSourcesAndRun(t *testing.T) {
	root := t.TempDir()
	write := func(rel, content string) {
		t.Helper()
		p := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(p, []byte(content), 0644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
	write("src/dialogs/linkdialog.cpp", linkDialogCpp)
	write("src/mainwindow.ui", mainWindowUI)
	write("src/README.md", "tr(\"ignored\")")
	write("src/build/moc_linkdialog.cpp", `void LinkDialog::x() { tr("generated"); }`)

	files, err := FindSources([]string{filepath.Join(root, "src")})
	if err != nil {
		t.Fatalf("FindSources: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("files = %v, want 2 sources", files)
	}
	if got := DescribeFiles(files); got != "1 C++, 1 Designer" {
		t.Fatalf("DescribeFiles = %q", got)
	}

	res, err := Run(files, Options{BaseDir: filepath.Join(root, "translations"), SourceLanguage: "en"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	tmpl := res.Template
	if tmpl.SourceLanguage != "en" {
		t.Fatalf("SourceLanguage = %q", tmpl.SourceLanguage)
	}
	if len(tmpl.Contexts) != 2 || tmpl.Contexts[0].Name != "LinkDialog" || tmpl.Contexts[1].Name != "MainWindow" {
		t.Fatalf("contexts not sorted: %+v", tmpl.Contexts)
	}

	file := tmpl.Find("LinkDialog", "Select file to link to", "")
	if file == nil || file.Type != tsfile.TypeUnfinished {
		t.Fatalf("message mismatch: %#v", file)
	}
	wantLocs := []tsfile.Location{
		{Filename: "../src/dialogs/linkdialog.cpp", Line: "15"},
		{Filename: "../src/dialogs/linkdialog.cpp", Line: "23"},
	}
	if !reflect.DeepEqual(file.Locations, wantLocs) {
		t.Fatalf("locations = %+v", file.Locations)
	}
	if quit := tmpl.Find("MainWindow", "&Quit", ""); quit == nil || quit.Locations[0].Filename != "../src/mainwindow.ui" {
		t.Fatalf("ui message mismatch: %#v", quit)
	}

	if _, err := Run(nil, Options{}); err == nil {
		t.Fatal("expected error for empty file list")
	}
}
