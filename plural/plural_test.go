package plural

import (
	"reflect"
	"testing"
)

func TestCount(t *testing.T) {
	tests := []struct {
		lang string
		want int
	}{
		{lang: "bg", want: 2},
		{lang: "bg_BG", want: 2},
		{lang: "de", want: 2},
		{lang: "ja", want: 1},
		{lang: "ru", want: 3},
		{lang: "cs", want: 3},
		{lang: "sl", want: 4},
		{lang: "ar", want: 6},
		{lang: "lv", want: 3},
		{lang: "ga", want: 3},
		{lang: "mt", want: 4},
		{lang: "cy", want: 4},
		{lang: "", want: 2},
		{lang: "not a tag", want: 2},
	}
	for _, tc := range tests {
		if got := Count(tc.lang); got != tc.want {
			t.Fatalf("Count(%q) = %d, want %d", tc.lang, got, tc.want)
		}
	}
}

func TestIndex(t *testing.T) {
	tests := []struct {
		lang string
		n    int
		want int
	}{
		{lang: "bg", n: 1, want: 0},
		{lang: "bg", n: 0, want: 1},
		{lang: "bg", n: 5, want: 1},
		{lang: "bg", n: -1, want: 0},
		{lang: "en", n: 21, want: 1},
		{lang: "fr", n: 0, want: 0},
		{lang: "ja", n: 1, want: 0},
		{lang: "ja", n: 7, want: 0},
		{lang: "ru", n: 1, want: 0},
		{lang: "ru", n: 21, want: 0},
		{lang: "ru", n: 3, want: 1},
		{lang: "ru", n: 12, want: 2},
		{lang: "ru", n: 5, want: 2},
		{lang: "pl", n: 22, want: 1},
		{lang: "cs", n: 4, want: 1},
		{lang: "cs", n: 5, want: 2},
		{lang: "lv", n: 0, want: 2},
		{lang: "lv", n: 1, want: 0},
		{lang: "lv", n: 10, want: 1},
		{lang: "lv", n: 11, want: 1},
		{lang: "lv", n: 15, want: 1},
		{lang: "lv", n: 20, want: 1},
		{lang: "lv", n: 21, want: 0},
		{lang: "ga", n: 1, want: 0},
		{lang: "ga", n: 2, want: 1},
		{lang: "ga", n: 5, want: 2},
		{lang: "mt", n: 1, want: 0},
		{lang: "mt", n: 0, want: 1},
		{lang: "mt", n: 102, want: 1},
		{lang: "mt", n: 13, want: 2},
		{lang: "mt", n: 20, want: 3},
		{lang: "cy", n: 2, want: 1},
		{lang: "cy", n: 8, want: 2},
		{lang: "cy", n: 3, want: 3},
		{lang: "", n: 1, want: 0},
		{lang: "", n: 2, want: 1},
	}
	for _, tc := range tests {
		if got := Index(tc.lang, tc.n); got != tc.want {
			t.Fatalf("Index(%q, %d) = %d, want %d", tc.lang, tc.n, got, tc.want)
		}
	}
}

func TestNames(t *testing.T) {
	if got := Names("bg"); !reflect.DeepEqual(got, []string{"one", "other"}) {
		t.Fatalf("Names(bg) = %v", got)
	}
	if got := Names("uk"); !reflect.DeepEqual(got, []string{"one", "few", "many"}) {
		t.Fatalf("Names(uk) = %v", got)
	}
}
