package align

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"plenum/internal/session"
)

// Candidate is one decoder-produced segment: precise audio timing plus the
// hypothesis words the recognizer heard. Hypotheses come from the decoder's
// text file, timings from the matching segments file.
type Candidate struct {
	Session session.ID
	UttID   string
	Start   session.Centiseconds
	End     session.Centiseconds
	Words   []string
}

// Duration returns the candidate's audio length.
func (c Candidate) Duration() session.Centiseconds {
	return c.End - c.Start
}

// Hypothesis returns the candidate words joined into a single string.
func (c Candidate) Hypothesis() string {
	return strings.Join(c.Words, " ")
}

// ReadSession loads the decoder output pair for one session from dir:
// <stem>.segments holds "uttid recordid start end" rows with times in
// seconds, <stem>.text holds "uttid word..." rows. A timed segment without a
// text row yields a candidate with no words; reconciliation classifies those
// as unrecoverable.
func ReadSession(dir string, id session.ID) ([]Candidate, error) {
	stem := filepath.Join(dir, id.FileStem())
	texts, err := readTextFile(stem + ".text")
	if err != nil {
		return nil, err
	}
	return readSegmentsFile(stem+".segments", id, texts)
}

func readTextFile(path string) (map[string][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open decoder text: %w", err)
	}
	defer file.Close()

	texts := make(map[string][]string)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}
		texts[fields[0]] = fields[1:]
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read decoder text: %w", err)
	}
	return texts, nil
}

func readSegmentsFile(path string, id session.ID, texts map[string][]string) ([]Candidate, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open decoder segments: %w", err)
	}
	defer file.Close()

	var candidates []Candidate
	scanner := bufio.NewScanner(file)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 4 {
			return nil, fmt.Errorf("decoder segments %s line %d: expected 4 fields, got %d", path, line, len(fields))
		}
		start, err := session.ParseSeconds(fields[2])
		if err != nil {
			return nil, fmt.Errorf("decoder segments %s line %d: %w", path, line, err)
		}
		end, err := session.ParseSeconds(fields[3])
		if err != nil {
			return nil, fmt.Errorf("decoder segments %s line %d: %w", path, line, err)
		}
		if start >= end {
			return nil, fmt.Errorf("decoder segments %s line %d: start %s not before end %s", path, line, start.FormatSeconds(), end.FormatSeconds())
		}
		candidates = append(candidates, Candidate{
			Session: id,
			UttID:   fields[0],
			Start:   start,
			End:     end,
			Words:   texts[fields[0]],
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read decoder segments: %w", err)
	}
	return candidates, nil
}
