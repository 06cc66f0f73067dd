package pipeline_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"plenum/internal/align"
	"plenum/internal/config"
	"plenum/internal/corpus"
	"plenum/internal/pipeline"
	"plenum/internal/queue"
	"plenum/internal/session"
	"plenum/internal/testsupport"
)

const fixtureTranscript = `{
  "number": 15,
  "year": 2015,
  "begin_time": "2015-02-12T10:00:00",
  "subsections": [
    {
      "number": "1",
      "statements": [
        {
          "type": "L",
          "mp_id": 101,
          "firstname": "Maija",
          "lastname": "Virtanen",
          "language": "fi",
          "text": "arvoisa puhemies kiitos paljon hyva alku uudelle vuodelle"
        },
        {
          "type": "L",
          "mp_id": 102,
          "firstname": "Matti",
          "lastname": "Korhonen",
          "language": "fi",
          "text": "talous kasvaa ensi vuonna selvasti"
        }
      ]
    }
  ]
}
`

const fixtureSegments = `cand-1 session-015-2015 1.00 3.50
cand-2 session-015-2015 4.00 6.00
`

// cand-1 matches the first statement exactly; cand-2 disagrees on the last
// word of the second statement and lands in the realign queue.
const fixtureText = `cand-1 arvoisa puhemies kiitos paljon hyva alku uudelle vuodelle
cand-2 talous kasvaa ensi vuonna nopeasti
`

func fixtureConfig(t testing.TB) *config.Config {
	t.Helper()
	cfg := testsupport.NewConfig(t,
		testsupport.WithWorkers(2),
		testsupport.WithThresholds(0.5, 0.6),
		testsupport.WithMatchBounds(100, 30, 1),
		func(cfg *config.Config) {
			cfg.Audio.Terms = []config.TermRange{{Term: 2, FirstYear: 2015, LastYear: 2018}}
		},
	)
	testsupport.WriteSpeakerTable(t, cfg.Paths.SpeakerTable)
	return cfg
}

func writeSessionFixture(t testing.TB, cfg *config.Config, id session.ID) {
	t.Helper()
	stem := id.FileStem()
	testsupport.WriteFile(t, filepath.Join(cfg.Paths.TranscriptDir, stem+".json"), fixtureTranscript)
	testsupport.WriteFile(t, filepath.Join(cfg.Paths.DecoderDir, stem+".segments"), fixtureSegments)
	testsupport.WriteFile(t, filepath.Join(cfg.Paths.DecoderDir, stem+".text"), fixtureText)
}

func newRunner(t testing.TB, cfg *config.Config, store *queue.Store) *pipeline.Runner {
	t.Helper()
	runner, err := pipeline.NewRunner(cfg, store, nil)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	return runner
}

func TestProcessLabelsSession(t *testing.T) {
	cfg := fixtureConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	id := session.ID{Number: 15, Year: 2015}
	writeSessionFixture(t, cfg, id)

	runner := newRunner(t, cfg, store)
	report, err := runner.Process(context.Background(), []session.ID{id}, pipeline.ProcessOptions{})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(report.Sessions) != 1 {
		t.Fatalf("sessions in report = %d, want 1", len(report.Sessions))
	}
	got := report.Sessions[0]
	if got.Failed() {
		t.Fatalf("session failed: %v", got.Err)
	}
	if got.Summary.Kept != 1 || got.Summary.Queued != 1 || got.Summary.Dropped != 0 {
		t.Fatalf("summary = %+v", got.Summary)
	}
	if got.Statements != 2 || got.FailedStatements != 0 {
		t.Fatalf("statements = %d failed = %d", got.Statements, got.FailedStatements)
	}

	state, err := store.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("store.Get: %v", err)
	}
	if state == nil || state.Status != queue.StatusLabeled {
		t.Fatalf("session state = %+v, want labeled", state)
	}
	if state.Kept != 1 || state.Queued != 1 {
		t.Fatalf("stored counts = %+v", state)
	}

	text, err := os.ReadFile(filepath.Join(cfg.Paths.WorkDir, id.FileStem()+".text"))
	if err != nil {
		t.Fatalf("read kept text: %v", err)
	}
	want := "00101-015-2015-00000100-00000350 arvoisa puhemies kiitos paljon hyva alku uudelle vuodelle\n"
	if string(text) != want {
		t.Fatalf("kept text = %q, want %q", text, want)
	}

	pending, err := runner.PendingRetries()
	if err != nil {
		t.Fatalf("PendingRetries: %v", err)
	}
	if pending != 1 {
		t.Fatalf("pending retries = %d, want 1", pending)
	}
}

func TestProcessRetryRestrictsToQueuedBoundaries(t *testing.T) {
	cfg := fixtureConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	id := session.ID{Number: 15, Year: 2015}
	writeSessionFixture(t, cfg, id)

	runner := newRunner(t, cfg, store)
	if _, err := runner.Process(context.Background(), []session.ID{id}, pipeline.ProcessOptions{}); err != nil {
		t.Fatalf("first Process: %v", err)
	}

	report, err := runner.Process(context.Background(), []session.ID{id}, pipeline.ProcessOptions{Retry: true})
	if err != nil {
		t.Fatalf("retry Process: %v", err)
	}
	got := report.Sessions[0]
	if got.Failed() {
		t.Fatalf("retry session failed: %v", got.Err)
	}
	// Only the queued boundary is reconsidered; the accurate segment from
	// the first run is not relabeled.
	if got.Summary.Total() != 1 || got.Summary.Queued != 1 {
		t.Fatalf("retry summary = %+v", got.Summary)
	}
}

func TestProcessIsolatesFailedSessions(t *testing.T) {
	cfg := fixtureConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	good := session.ID{Number: 15, Year: 2015}
	writeSessionFixture(t, cfg, good)
	// The bad session has a transcript but no decoder output.
	bad := session.ID{Number: 16, Year: 2015}
	testsupport.WriteFile(t, filepath.Join(cfg.Paths.TranscriptDir, bad.FileStem()+".json"),
		strings.Replace(fixtureTranscript, `"number": 15`, `"number": 16`, 1))

	runner := newRunner(t, cfg, store)
	report, err := runner.Process(context.Background(), []session.ID{good, bad}, pipeline.ProcessOptions{})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	_, failed := report.Totals()
	if failed != 1 {
		t.Fatalf("failed sessions = %d, want 1", failed)
	}
	for _, sr := range report.Sessions {
		switch sr.Session {
		case good:
			if sr.Failed() {
				t.Fatalf("good session failed: %v", sr.Err)
			}
		case bad:
			if !sr.Failed() {
				t.Fatal("bad session did not fail")
			}
		}
	}

	state, err := store.Get(context.Background(), bad)
	if err != nil {
		t.Fatalf("store.Get: %v", err)
	}
	if state == nil || state.Status != queue.StatusFailed || state.ErrorMessage == "" {
		t.Fatalf("bad session state = %+v, want failed with message", state)
	}
}

func TestDiscoverSessions(t *testing.T) {
	cfg := fixtureConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	for _, stem := range []string{"session-020-2015.json", "session-003-2016.json", "notes.txt", "broken.json"} {
		testsupport.WriteFile(t, filepath.Join(cfg.Paths.TranscriptDir, stem), "{}")
	}

	runner := newRunner(t, cfg, store)
	ids, err := runner.DiscoverSessions()
	if err != nil {
		t.Fatalf("DiscoverSessions: %v", err)
	}
	want := []session.ID{{Number: 20, Year: 2015}, {Number: 3, Year: 2016}}
	if len(ids) != len(want) {
		t.Fatalf("discovered %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("discovered %v, want %v", ids, want)
		}
	}
}

func TestAssembleMergesLabeledSessions(t *testing.T) {
	cfg := fixtureConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	id := session.ID{Number: 15, Year: 2015}
	writeSessionFixture(t, cfg, id)

	runner := newRunner(t, cfg, store)
	if _, err := runner.Process(context.Background(), []session.ID{id}, pipeline.ProcessOptions{}); err != nil {
		t.Fatalf("Process: %v", err)
	}

	report, err := runner.Assemble(context.Background(), pipeline.AssembleOptions{})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if report.Sessions != 1 || report.Records != 1 {
		t.Fatalf("assemble report = %+v", report)
	}
	if len(report.Conflicts) != 0 || report.Duplicates != 0 {
		t.Fatalf("assemble report = %+v", report)
	}
	if report.Vocabulary == 0 {
		t.Fatal("assembled vocabulary is empty")
	}

	records, err := corpus.ReadTables(cfg.Paths.CorpusDir)
	if err != nil {
		t.Fatalf("ReadTables: %v", err)
	}
	if len(records) != 1 || records[0].UttID != "00101-015-2015-00000100-00000350" {
		t.Fatalf("merged records = %+v", records)
	}
	wavscp, err := os.ReadFile(filepath.Join(cfg.Paths.CorpusDir, corpus.AudioFile))
	if err != nil {
		t.Fatalf("read wav.scp: %v", err)
	}
	if want := "015-2015 2/2015/session-015-2015.wav\n"; string(wavscp) != want {
		t.Fatalf("wav.scp = %q, want %q", wavscp, want)
	}

	state, err := store.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("store.Get: %v", err)
	}
	if state == nil || state.Status != queue.StatusAssembled {
		t.Fatalf("session state = %+v, want assembled", state)
	}

	// Re-running assembly over the same inputs is a no-op merge.
	again, err := runner.Assemble(context.Background(), pipeline.AssembleOptions{})
	if err != nil {
		t.Fatalf("second Assemble: %v", err)
	}
	if again.Records != 1 || len(again.Conflicts) != 0 {
		t.Fatalf("second assemble report = %+v", again)
	}
}

func TestAssembleRefusesWhileProcessing(t *testing.T) {
	cfg := fixtureConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	testsupport.BeginSession(t, store, session.ID{Number: 44, Year: 2016}, "run-1")

	runner := newRunner(t, cfg, store)
	if _, err := runner.Assemble(context.Background(), pipeline.AssembleOptions{}); err == nil {
		t.Fatal("Assemble succeeded with a session mid-run")
	}

	if _, err := runner.Assemble(context.Background(), pipeline.AssembleOptions{Partial: true}); err != nil {
		t.Fatalf("partial Assemble: %v", err)
	}
}

func TestRetryListSurvivesAcrossRuns(t *testing.T) {
	cfg := fixtureConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	id := session.ID{Number: 15, Year: 2015}
	writeSessionFixture(t, cfg, id)

	runner := newRunner(t, cfg, store)
	if _, err := runner.Process(context.Background(), []session.ID{id}, pipeline.ProcessOptions{}); err != nil {
		t.Fatalf("Process: %v", err)
	}

	list, err := align.ReadRetryList(filepath.Join(cfg.Paths.WorkDir, pipeline.RetryListName))
	if err != nil {
		t.Fatalf("ReadRetryList: %v", err)
	}
	entries := list.Entries()
	if len(entries) != 1 {
		t.Fatalf("retry entries = %+v, want 1", entries)
	}
	want := align.RetryEntry{Session: id, Start: 400, End: 600}
	if entries[0] != want {
		t.Fatalf("retry entry = %+v, want %+v", entries[0], want)
	}
}
