package scoring

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"diacritics", "مُحَمَّدٌ", "محمد"},
		{"superscript alef", "رحمٰن", "رحمن"},
		{"whitespace", "  بيت   المقدس \t", "بيت المقدس"},
		{"alef hamza above", "أحمد", "احمد"},
		{"alef hamza below", "إسلام", "اسلام"},
		{"alef madda", "آمنة", "امنه"},
		{"alef wasla", "ٱبن", "ابن"},
		{"ta marbuta", "مدرسة", "مدرسه"},
		{"alef maqsura", "مستشفى", "مستشفي"},
		{"definite article", "القمر", "قمر"},
		{"article with diacritics", "الْقَمَر", "قمر"},
		{"article then space", "ال قمر", "قمر"},
		{"latin lowercase", "  Hello   WORLD ", "hello world"},
		{"empty", "", ""},
		{"only article", "ال", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Normalize(tc.in); got != tc.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	for _, s := range sampleTexts {
		once := Normalize(s)
		if twice := Normalize(once); twice != once {
			t.Fatalf("Normalize not idempotent for %q: %q then %q", s, once, twice)
		}
	}
}

var sampleTexts = []string{
	"",
	" ",
	"ال",
	"الال",
	"الالتزام",
	"ال ال قمر",
	"الْقَمَر",
	"مكة المكرمة",
	"  إِسْلامٌ  ",
	"مستشفى",
	"Ramadan Kareem",
	"İstanbul",
	"ﻻ",
	"abc الـقمر",
	"ًٰ",
}
