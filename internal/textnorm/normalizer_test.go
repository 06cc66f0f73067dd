package textnorm

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestApplyBasicForm(t *testing.T) {
	n := New()
	got, err := n.Apply("Arvoisa puhemies, hyvät edustajat!")
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got != "arvoisa puhemies hyvät edustajat" {
		t.Fatalf("Apply = %q", got)
	}
}

func TestApplyExpandsCapitalizedAbbreviations(t *testing.T) {
	n := New()
	got, err := n.Apply("Nro 5 on seuraava.")
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got != "numero viisi on seuraava" {
		t.Fatalf("Apply = %q", got)
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	n := New()
	inputs := []string{
		"Käsittelyssä on 3 momentti, 15 § ja 20 prosenttia.",
		"Esitys N:ltä sai 103 ääntä, esim. vuonna 2015.",
		"Budjetti on 2,5 miljoonaa euroa.",
		"Nro 5 on seuraava.",
		"Mm. ns. vaalit, YM. asiat.",
	}
	for _, input := range inputs {
		once, err := n.Apply(input)
		if err != nil {
			t.Fatalf("Apply(%q): %v", input, err)
		}
		twice, err := n.Apply(once)
		if err != nil {
			t.Fatalf("Apply(Apply(%q)): %v", input, err)
		}
		if once != twice {
			t.Fatalf("not idempotent:\n once: %q\ntwice: %q", once, twice)
		}
	}
}

func TestApplyExpandsNumbers(t *testing.T) {
	n := New()
	cases := []struct{ input, want string }{
		{"5", "viisi"},
		{"10", "kymmenen"},
		{"17", "seitsemäntoista"},
		{"42", "neljäkymmentäkaksi"},
		{"100", "sata"},
		{"345", "kolmesataaneljäkymmentäviisi"},
		{"1000", "tuhat"},
		{"2015", "kaksituhatta viisitoista"},
		{"10 000", "kymmenentuhatta"},
		{"3,5", "kolme pilkku viisi"},
	}
	for _, tc := range cases {
		got, err := n.Apply(tc.input)
		if err != nil {
			t.Fatalf("Apply(%q): %v", tc.input, err)
		}
		if got != tc.want {
			t.Fatalf("Apply(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestApplyExpandsSectionSign(t *testing.T) {
	n := New()
	got, err := n.Apply("käsitellään 15 §")
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got != "käsitellään viisitoista pykälää" {
		t.Fatalf("Apply = %q", got)
	}
}

func TestApplyExpandsRomanNumerals(t *testing.T) {
	n := New()
	got, err := n.Apply("lakiehdotuksen II käsittely")
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got != "lakiehdotuksen kaksi käsittely" {
		t.Fatalf("Apply = %q", got)
	}
}

func TestApplyFoldsForeignLetters(t *testing.T) {
	n := New()
	got, err := n.Apply("ministeri Ordoñez")
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got != "ministeri ordonez" {
		t.Fatalf("Apply = %q", got)
	}
}

func TestApplyRejectsUnacceptedChars(t *testing.T) {
	n := New()
	inputs := []string{
		"هذا نص",
		// Too many digits to expand as a number.
		"99999999999999999999,5 euroa",
		"99999999999999999999 euroa",
	}
	for _, input := range inputs {
		_, err := n.Apply(input)
		var unacceptedErr *UnacceptedCharsError
		if !errors.As(err, &unacceptedErr) {
			t.Fatalf("Apply(%q): expected UnacceptedCharsError, got %v", input, err)
		}
	}
}

func TestVocabularyAccumulatesDistinctWords(t *testing.T) {
	vocab := NewVocabulary()
	vocab.AddText("arvoisa puhemies arvoisa")
	vocab.AddText("hyvät edustajat")
	words := vocab.Words()
	want := []string{"arvoisa", "edustajat", "hyvät", "puhemies"}
	if len(words) != len(want) {
		t.Fatalf("words = %v", words)
	}
	for i := range want {
		if words[i] != want[i] {
			t.Fatalf("words[%d] = %q, want %q", i, words[i], want[i])
		}
	}
}

func TestVocabularySubtractAndRoundTrip(t *testing.T) {
	vocab := NewVocabulary()
	vocab.AddText("och talman arvoisa puhemies")
	vocab.Subtract([]string{"och", "talman"})

	path := filepath.Join(t.TempDir(), "session.words")
	if err := vocab.WriteFile(path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	loaded, err := ReadVocabulary(path)
	if err != nil {
		t.Fatalf("ReadVocabulary: %v", err)
	}
	if loaded.Len() != 2 {
		t.Fatalf("loaded %d words: %v", loaded.Len(), loaded.Words())
	}
	merged := NewVocabulary()
	merged.Merge(loaded)
	merged.AddText("arvoisa")
	if merged.Len() != 2 {
		t.Fatalf("merge gained duplicates: %v", merged.Words())
	}
}
