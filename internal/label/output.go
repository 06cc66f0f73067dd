package label

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"plenum/internal/corpus"
	"plenum/internal/session"
)

// Per-session output file suffixes under the work directory.
const (
	KeptSegmentsSuffix = ".segments"
	KeptTextSuffix     = ".text"
	DroppedSuffix      = ".dropped"
	VocabularySuffix   = ".words"
)

// WriteSessionOutputs writes one session's kept and dropped files. Kept
// segments land in a Kaldi-style segments/text pair keyed by the new
// utterance id; dropped candidates keep their decoder id plus the evidence
// behind the rejection. Queued candidates appear in neither file, they
// belong to the retry list.
func WriteSessionOutputs(dir string, id session.ID, decisions []Decision) error {
	stem := filepath.Join(dir, id.FileStem())

	segments, err := os.Create(stem + KeptSegmentsSuffix)
	if err != nil {
		return fmt.Errorf("create kept segments: %w", err)
	}
	defer segments.Close()
	text, err := os.Create(stem + KeptTextSuffix)
	if err != nil {
		return fmt.Errorf("create kept text: %w", err)
	}
	defer text.Close()
	dropped, err := os.Create(stem + DroppedSuffix)
	if err != nil {
		return fmt.Errorf("create dropped list: %w", err)
	}
	defer dropped.Close()

	segw := bufio.NewWriter(segments)
	textw := bufio.NewWriter(text)
	dropw := bufio.NewWriter(dropped)
	for _, d := range decisions {
		switch d.Outcome {
		case OutcomeKept:
			rec := d.Record
			fmt.Fprintf(segw, "%s %s %s %s\n", rec.UttID, rec.Session, rec.Start.FormatSeconds(), rec.End.FormatSeconds())
			fmt.Fprintf(textw, "%s %s\n", rec.UttID, rec.Text)
		case OutcomeDropped:
			c := d.Candidate
			fmt.Fprintf(dropw, "%s %s %s %s %d %s %.3f %s\n",
				c.UttID, id, c.Start.FormatSeconds(), c.End.FormatSeconds(),
				d.Speaker, emptyDash(d.Language), d.EditRate, d.Reason)
		}
	}
	for name, w := range map[string]*bufio.Writer{"kept segments": segw, "kept text": textw, "dropped list": dropw} {
		if err := w.Flush(); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}
	return nil
}

// ReadSessionRecords loads one session's kept records for assembly.
func ReadSessionRecords(dir string, id session.ID) ([]corpus.Record, error) {
	stem := filepath.Join(dir, id.FileStem())
	texts, err := readKeptText(stem + KeptTextSuffix)
	if err != nil {
		return nil, err
	}

	path := stem + KeptSegmentsSuffix
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open kept segments: %w", err)
	}
	defer file.Close()

	var records []corpus.Record
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		rec, err := corpus.ParseRecord(fields[0], texts[fields[0]])
		if err != nil {
			return nil, fmt.Errorf("kept segments %s line %d: %w", path, line, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read kept segments: %w", err)
	}
	return records, nil
}

func readKeptText(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open kept text: %w", err)
	}
	defer file.Close()

	texts := make(map[string]string)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		id, text, ok := strings.Cut(scanner.Text(), " ")
		if !ok {
			continue
		}
		texts[id] = strings.TrimSpace(text)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read kept text: %w", err)
	}
	return texts, nil
}

func emptyDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}
