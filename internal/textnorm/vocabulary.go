package textnorm

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// Vocabulary collects distinct normalized words. It is not safe for
// concurrent use; each session accumulates its own and the assembler merges
// them with a sort-unique pass.
type Vocabulary struct {
	words map[string]struct{}
}

// NewVocabulary returns an empty vocabulary.
func NewVocabulary() *Vocabulary {
	return &Vocabulary{words: make(map[string]struct{})}
}

// AddText splits canonical text into words and records each one.
func (v *Vocabulary) AddText(text string) {
	for _, word := range strings.Fields(text) {
		v.words[word] = struct{}{}
	}
}

// Merge folds another vocabulary into this one.
func (v *Vocabulary) Merge(other *Vocabulary) {
	if other == nil {
		return
	}
	for word := range other.words {
		v.words[word] = struct{}{}
	}
}

// Subtract removes every listed word.
func (v *Vocabulary) Subtract(words []string) {
	for _, word := range words {
		delete(v.words, strings.ToLower(strings.TrimSpace(word)))
	}
}

// Len returns the number of distinct words.
func (v *Vocabulary) Len() int {
	return len(v.words)
}

// Words returns the sorted word list.
func (v *Vocabulary) Words() []string {
	out := make([]string, 0, len(v.words))
	for word := range v.words {
		out = append(out, word)
	}
	sort.Strings(out)
	return out
}

// WriteTo writes the sorted word list, one word per line.
func (v *Vocabulary) WriteTo(w io.Writer) (int64, error) {
	var written int64
	for _, word := range v.Words() {
		n, err := fmt.Fprintln(w, word)
		written += int64(n)
		if err != nil {
			return written, err
		}
	}
	return written, nil
}

// WriteFile writes the vocabulary to path.
func (v *Vocabulary) WriteFile(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create vocabulary file: %w", err)
	}
	defer file.Close()
	if _, err := v.WriteTo(file); err != nil {
		return fmt.Errorf("write vocabulary: %w", err)
	}
	return nil
}

// ReadVocabulary loads a word-per-line vocabulary file.
func ReadVocabulary(path string) (*Vocabulary, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open vocabulary: %w", err)
	}
	defer file.Close()

	vocab := NewVocabulary()
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		word := strings.TrimSpace(scanner.Text())
		if word != "" {
			vocab.words[word] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read vocabulary: %w", err)
	}
	return vocab, nil
}
