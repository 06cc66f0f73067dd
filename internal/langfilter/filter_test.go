package langfilter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"plenum/internal/corpus"
	"plenum/internal/langid"
	"plenum/internal/session"
	"plenum/internal/speaker"
	"plenum/internal/textnorm"
)

var swedishStopwords = []string{"och", "det", "som", "en", "på", "är", "av", "för", "med", "till"}

func testFilter(t *testing.T) *Filter {
	t.Helper()
	lexical := langid.NewLexical("fi", "sv", swedishStopwords, 4)
	return New(lexical, 0.4, 4, nil)
}

func testRecord(t *testing.T, spk int64, start session.Centiseconds, text string) corpus.Record {
	t.Helper()
	id, err := session.Parse("015-2015")
	if err != nil {
		t.Fatalf("parse session: %v", err)
	}
	rec, err := corpus.NewRecord(id, speaker.ID(spk), start, start+200, text)
	if err != nil {
		t.Fatalf("new record: %v", err)
	}
	return rec
}

func writeManifest(t *testing.T, dir string, records []corpus.Record) {
	t.Helper()
	a := corpus.NewAssembler()
	a.AddAll(records)
	for _, rec := range records {
		a.Vocabulary().AddText(rec.Text)
	}
	tmpl := corpus.NewAudioTemplate("audio/{session}.wav", nil)
	if err := corpus.WriteTables(dir, a, tmpl); err != nil {
		t.Fatalf("WriteTables: %v", err)
	}
}

func TestApplyRemovesDenseMinorityRecords(t *testing.T) {
	dir := t.TempDir()
	finnish := testRecord(t, 77, 0, "arvoisa puhemies hyvät edustajat kiitän puheenvuorosta")
	swedish := testRecord(t, 78, 300, "och det som är en fråga för oss")
	writeManifest(t, dir, []corpus.Record{finnish, swedish})

	report, err := testFilter(t).Apply(dir, corpus.NewAudioTemplate("audio/{session}.wav", nil))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if report.Examined != 2 || report.Removed != 1 {
		t.Fatalf("report = %+v", report)
	}
	if report.RemovedIDs[0] != swedish.UttID {
		t.Fatalf("removed %q, want %q", report.RemovedIDs[0], swedish.UttID)
	}

	records, err := corpus.ReadTables(dir)
	if err != nil {
		t.Fatalf("ReadTables: %v", err)
	}
	if len(records) != 1 || records[0].UttID != finnish.UttID {
		t.Fatalf("surviving records = %+v", records)
	}
}

func TestApplyRemovalCoversAllTables(t *testing.T) {
	dir := t.TempDir()
	swedish := testRecord(t, 78, 0, "och det som är en fråga")
	writeManifest(t, dir, []corpus.Record{swedish})

	if _, err := testFilter(t).Apply(dir, corpus.NewAudioTemplate("audio/{session}.wav", nil)); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	for _, name := range []string{corpus.SegmentsFile, corpus.TextFile, corpus.SpeakersFile, corpus.SpeakerIndexFile} {
		content := readManifestFile(t, dir, name)
		if strings.Contains(content, swedish.UttID) {
			t.Fatalf("%s still lists removed record", name)
		}
	}
	// The session lost its last record, so its audio row goes too.
	if content := readManifestFile(t, dir, corpus.AudioFile); strings.Contains(content, swedish.Session.String()) {
		t.Fatalf("%s still lists emptied session", corpus.AudioFile)
	}
}

func TestApplyPreservesAccumulatedVocabulary(t *testing.T) {
	dir := t.TempDir()
	finnish := testRecord(t, 77, 0, "arvoisa puhemies hyvät edustajat kiitän puheenvuorosta")
	swedish := testRecord(t, 78, 300, "och det som är en fråga för oss")

	a := corpus.NewAssembler()
	a.AddAll([]corpus.Record{finnish, swedish})
	// The accumulated vocabulary covers turns without kept segments too,
	// and may carry a stray stoplist word from an older assembly.
	a.Vocabulary().AddText(finnish.Text)
	a.Vocabulary().AddText("talous kasvaa ensi vuonna selvasti")
	a.Vocabulary().AddText("och")
	tmpl := corpus.NewAudioTemplate("audio/{session}.wav", nil)
	if err := corpus.WriteTables(dir, a, tmpl); err != nil {
		t.Fatalf("WriteTables: %v", err)
	}

	report, err := testFilter(t).Apply(dir, tmpl)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if report.Removed != 1 {
		t.Fatalf("report = %+v", report)
	}

	vocab, err := textnorm.ReadVocabulary(filepath.Join(dir, corpus.VocabularyFile))
	if err != nil {
		t.Fatalf("ReadVocabulary: %v", err)
	}
	words := make(map[string]bool)
	for _, word := range vocab.Words() {
		words[word] = true
	}
	for _, want := range []string{"arvoisa", "talous", "kasvaa", "selvasti"} {
		if !words[want] {
			t.Fatalf("vocabulary lost %q: %v", want, vocab.Words())
		}
	}
	if words["och"] {
		t.Fatal("stoplist word survived the rewrite")
	}
}

func TestApplySparesShortAndMajorityRecords(t *testing.T) {
	dir := t.TempDir()
	records := []corpus.Record{
		// Too few tokens for the density to count.
		testRecord(t, 77, 0, "och det"),
		testRecord(t, 78, 300, "arvoisa puhemies hyvät edustajat"),
	}
	writeManifest(t, dir, records)

	report, err := testFilter(t).Apply(dir, corpus.NewAudioTemplate("audio/{session}.wav", nil))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if report.Removed != 0 {
		t.Fatalf("report = %+v", report)
	}
	remaining, err := corpus.ReadTables(dir)
	if err != nil {
		t.Fatalf("ReadTables: %v", err)
	}
	if len(remaining) != 2 {
		t.Fatalf("got %d records, want 2", len(remaining))
	}
}

func readManifestFile(t *testing.T, dir, name string) string {
	t.Helper()
	content, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("read %s: %v", name, err)
	}
	return string(content)
}
