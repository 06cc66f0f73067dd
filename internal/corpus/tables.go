package corpus

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"plenum/internal/session"
	"plenum/internal/speaker"
)

// Manifest file names inside the corpus directory.
const (
	SegmentsFile     = "segments"
	TextFile         = "text"
	SpeakersFile     = "utt2spk"
	SpeakerIndexFile = "spk2utt"
	AudioFile        = "wav.scp"
	VocabularyFile   = "corpus.words"
)

// AudioPather maps a session to its recording path. Implemented by the
// configuration's audio path template.
type AudioPather interface {
	AudioPath(id session.ID) (string, error)
}

// WriteTables writes the manifest tables and the vocabulary under dir.
// Every table is staged to a temporary file before any is installed, so a
// write or flush failure leaves the previous manifest fully intact and a
// partially written table is never visible. The installs themselves are
// per-file renames within dir; only a failure in that final step can leave
// tables from two generations side by side.
func WriteTables(dir string, a *Assembler, audio AudioPather) error {
	records := a.Records()

	staged := make(map[string]string, 6)
	cleanup := func() {
		for _, tmp := range staged {
			os.Remove(tmp)
		}
	}

	stage := func(name string, write func(w *bufio.Writer) error) error {
		tmp, err := os.CreateTemp(dir, "."+name+"-*")
		if err != nil {
			return fmt.Errorf("stage %s: %w", name, err)
		}
		staged[name] = tmp.Name()
		w := bufio.NewWriter(tmp)
		if err := write(w); err != nil {
			tmp.Close()
			return fmt.Errorf("write %s: %w", name, err)
		}
		if err := w.Flush(); err != nil {
			tmp.Close()
			return fmt.Errorf("flush %s: %w", name, err)
		}
		return tmp.Close()
	}

	err := stage(SegmentsFile, func(w *bufio.Writer) error {
		for _, rec := range records {
			fmt.Fprintf(w, "%s %s %s %s\n", rec.UttID, rec.Session, rec.Start.FormatSeconds(), rec.End.FormatSeconds())
		}
		return nil
	})
	if err == nil {
		err = stage(TextFile, func(w *bufio.Writer) error {
			for _, rec := range records {
				fmt.Fprintf(w, "%s %s\n", rec.UttID, rec.Text)
			}
			return nil
		})
	}
	if err == nil {
		err = stage(SpeakersFile, func(w *bufio.Writer) error {
			for _, rec := range records {
				fmt.Fprintf(w, "%s %d\n", rec.UttID, rec.Speaker)
			}
			return nil
		})
	}
	if err == nil {
		err = stage(SpeakerIndexFile, func(w *bufio.Writer) error {
			// Records are sorted by utterance id, so each speaker's list
			// comes out sorted as well.
			bySpeaker := make(map[speaker.ID][]string)
			var speakers []speaker.ID
			for _, rec := range records {
				if _, seen := bySpeaker[rec.Speaker]; !seen {
					speakers = append(speakers, rec.Speaker)
				}
				bySpeaker[rec.Speaker] = append(bySpeaker[rec.Speaker], rec.UttID)
			}
			sort.Slice(speakers, func(i, j int) bool { return speakers[i] < speakers[j] })
			for _, spk := range speakers {
				fmt.Fprintf(w, "%d %s\n", spk, strings.Join(bySpeaker[spk], " "))
			}
			return nil
		})
	}
	if err == nil {
		err = stage(AudioFile, func(w *bufio.Writer) error {
			for _, id := range a.Sessions() {
				path, pathErr := audio.AudioPath(id)
				if pathErr != nil {
					return pathErr
				}
				fmt.Fprintf(w, "%s %s\n", id, path)
			}
			return nil
		})
	}
	if err == nil {
		err = stage(VocabularyFile, func(w *bufio.Writer) error {
			_, writeErr := a.Vocabulary().WriteTo(w)
			return writeErr
		})
	}
	if err != nil {
		cleanup()
		return err
	}

	for name, tmp := range staged {
		if err := os.Rename(tmp, filepath.Join(dir, name)); err != nil {
			cleanup()
			return fmt.Errorf("install %s: %w", name, err)
		}
		delete(staged, name)
	}
	return nil
}

// ReadTables loads an existing manifest's records from dir. The segments and
// text tables carry every record field between them; the speaker and audio
// tables are derived and not consulted. A missing manifest is empty.
func ReadTables(dir string) ([]Record, error) {
	texts, err := readTextTable(filepath.Join(dir, TextFile))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	path := filepath.Join(dir, SegmentsFile)
	file, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open segments table: %w", err)
	}
	defer file.Close()

	var records []Record
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 4 {
			return nil, fmt.Errorf("segments table %s line %d: expected 4 fields, got %d", path, line, len(fields))
		}
		rec, err := ParseRecord(fields[0], texts[fields[0]])
		if err != nil {
			return nil, fmt.Errorf("segments table %s line %d: %w", path, line, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read segments table: %w", err)
	}
	return records, nil
}

func readTextTable(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
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
		return nil, fmt.Errorf("read text table: %w", err)
	}
	return texts, nil
}
