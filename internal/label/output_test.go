package label

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"plenum/internal/align"
	"plenum/internal/session"
)

func TestSessionOutputRoundTrip(t *testing.T) {
	dir := t.TempDir()
	id, err := session.Parse("015-2015")
	if err != nil {
		t.Fatalf("parse session: %v", err)
	}

	ref := testReference(t)
	results := []align.Result{
		accurate(candidate(t, "utt-1", 0, 250, "arvoisa puhemies hyvät edustajat"), 0, 4),
		accurate(candidate(t, "utt-2", 300, 450, "ärade talman"), 4, 6),
		{Candidate: candidate(t, "utt-3", 500, 700, "arvoisa puhemies"), Class: align.ClassNeedsRealignment, EditRate: 0.2, RefStart: 0, RefEnd: 2},
	}
	decisions := testLabeler(t).Label(ref, results)
	if err := WriteSessionOutputs(dir, id, decisions); err != nil {
		t.Fatalf("WriteSessionOutputs: %v", err)
	}

	records, err := ReadSessionRecords(dir, id)
	if err != nil {
		t.Fatalf("ReadSessionRecords: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("read %d records, want 1", len(records))
	}
	rec := records[0]
	if rec.UttID != "00077-015-2015-00000000-00000250" {
		t.Fatalf("utt id = %q", rec.UttID)
	}
	if rec.Text != "arvoisa puhemies hyvät edustajat" {
		t.Fatalf("text = %q", rec.Text)
	}

	dropped, err := os.ReadFile(filepath.Join(dir, id.FileStem()+DroppedSuffix))
	if err != nil {
		t.Fatalf("read dropped list: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(dropped)), "\n")
	if len(lines) != 1 {
		t.Fatalf("dropped lines = %q", lines)
	}
	if !strings.Contains(lines[0], "utt-2") || !strings.Contains(lines[0], string(ReasonMinorityLanguage)) {
		t.Fatalf("dropped line = %q", lines[0])
	}
	if strings.Contains(string(dropped), "utt-3") {
		t.Fatal("queued candidate leaked into dropped list")
	}
}
