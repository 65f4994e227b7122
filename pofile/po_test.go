package pofile

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
)

func TestParseWriteRoundTripAndHeaderFields(t *testing.T) {
	input := `msgid ""
msgstr ""
"Project-Id-Version: QOwnNotes\n"
"Language: ru\n"

#. Title of the note menu
#: ../src/mainwindow.cpp:4455 ../src/mainwindow.ui:12
msgctxt "MainWindow|menu title"
msgid "Note"
msgstr "Заметка"

#, fuzzy, qt-format
#| msgid "%n line moved."
msgctxt "MainWindow"
msgid "%n lines moved."
msgid_plural "%n lines moved."
msgstr[0] "%n строка"
msgstr[1] "%n строки"
msgstr[2] "%n строк"

#~ msgctxt "MainWindow"
#~ msgid "Encrypt note text"
#~ msgstr ""
#~ "Зашифровать\n"
#~ "текст"
`

	f, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	if got := f.HeaderField("language"); got != "ru" {
		t.Fatalf("HeaderField(language) = %q, want ru", got)
	}
	f.SetHeaderField("Language", "bg")
	f.SetHeaderField("Plural-Forms", PluralFormsForLang("bg"))
	if got := f.HeaderField("Language"); got != "bg" {
		t.Fatalf("Language header after SetHeaderField = %q, want bg", got)
	}
	if got := f.HeaderField("Plural-Forms"); got != "nplurals=2; plural=(n != 1);" {
		t.Fatalf("Plural-Forms = %q", got)
	}

	if len(f.Entries) != 3 {
		t.Fatalf("entries len = %d, want 3", len(f.Entries))
	}
	note := f.Entry("MainWindow|menu title", "Note")
	if note == nil || note.MsgStr != "Заметка" {
		t.Fatalf("note entry mismatch: %#v", note)
	}
	if !reflect.DeepEqual(note.References, []string{"../src/mainwindow.cpp:4455", "../src/mainwindow.ui:12"}) {
		t.Fatalf("references = %v", note.References)
	}

	moved := f.Entry("MainWindow", "%n lines moved.")
	if moved == nil {
		t.Fatal("plural entry not found")
	}
	if !moved.IsFuzzy() || !moved.HasFlag("qt-format") {
		t.Fatalf("flags = %v", moved.Flags)
	}
	if moved.PreviousMsgID != "%n line moved." {
		t.Fatalf("PreviousMsgID = %q", moved.PreviousMsgID)
	}
	if got := moved.PluralForms(); !reflect.DeepEqual(got, []string{"%n строка", "%n строки", "%n строк"}) {
		t.Fatalf("PluralForms = %q", got)
	}

	if f.Entry("MainWindow", "Encrypt note text") != nil {
		t.Fatal("obsolete entries must not be returned by Entry")
	}
	obsolete := f.Entries[2]
	if !obsolete.Obsolete || obsolete.MsgStr != "Зашифровать\nтекст" {
		t.Fatalf("obsolete entry mismatch: %#v", obsolete)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	round, err := Parse(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("Parse roundtrip error: %v\n%s", err, buf.String())
	}
	if !reflect.DeepEqual(f, round) {
		t.Fatalf("roundtrip mismatch:\n%s", buf.String())
	}
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		"msgid \"a\"\nmsgstr[x] \"b\"\n",
		"\"dangling\"\n",
		"msgid \"a\"\nbogus\n",
	}
	for _, input := range tests {
		if _, err := Parse(strings.NewReader(input)); err == nil {
			t.Fatalf("Parse(%q) should fail", input)
		}
	}
}

func TestPluralFormsForLang(t *testing.T) {
	cases := []struct {
		lang string
		want string
	}{
		{lang: "bg", want: "nplurals=2; plural=(n != 1);"},
		{lang: "ru_RU", want: "nplurals=3; plural=(n%10==1 && n%100!=11 ? 0 : n%10>=2 && n%10<=4 && (n%100<10 || n%100>=20) ? 1 : 2);"},
		{lang: "fr", want: "nplurals=2; plural=(n > 1);"},
		{lang: "ja", want: "nplurals=1; plural=0;"},
		{lang: "ga_IE", want: "nplurals=3; plural=(n==1 ? 0 : n==2 ? 1 : 2);"},
		{lang: "zz", want: "nplurals=2; plural=(n != 1);"},
	}
	for _, tc := range cases {
		if got := PluralFormsForLang(tc.lang); got != tc.want {
			t.Fatalf("PluralFormsForLang(%q) = %q, want %q", tc.lang, got, tc.want)
		}
	}
}
