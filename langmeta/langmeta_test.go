package langmeta

import "testing"

func TestCanonicalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "pt_br", want: "pt-BR"},
		{in: " EN-us ", want: "en-US"},
		{in: "sr_latn_RS", want: "sr-Latn-RS"},
		{in: "bg", want: "bg"},
		{in: "", want: ""},
	}

	for _, tc := range cases {
		got := canonicalize(tc.in)
		if got != tc.want {
			t.Fatalf("canonicalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestResolve(t *testing.T) {
	t.Run("bulgarian", func(t *testing.T) {
		got := Resolve("bg")
		if got.Name != "Български" || got.EnglishName != "Bulgarian" || got.Flag != "🇧🇬" {
			t.Fatalf("unexpected result: %#v", got)
		}
	})

	t.Run("normalized variant", func(t *testing.T) {
		got := Resolve("pt_br")
		if got.Code != "pt-BR" || got.Flag != "🇧🇷" || got.Name == "" {
			t.Fatalf("unexpected result: %#v", got)
		}
	})

	t.Run("override flag", func(t *testing.T) {
		if got := Resolve("ca"); got.Flag != "🇪🇸" {
			t.Fatalf("unexpected flag: %#v", got)
		}
	})

	t.Run("unknown passthrough", func(t *testing.T) {
		got := Resolve("zz-ZZ")
		if got.Name != "zz-ZZ" || got.Flag != "" {
			t.Fatalf("unexpected unknown result: %#v", got)
		}
	})
}

func TestFlagFromRegion(t *testing.T) {
	cases := map[string]string{
		"BG":  "🇧🇬",
		"de":  "🇩🇪",
		"419": "",
		"ZZ":  "",
		"":    "",
	}
	for in, want := range cases {
		if got := FlagFromRegion(in); got != want {
			t.Fatalf("FlagFromRegion(%q) = %q, want %q", in, got, want)
		}
	}
}
