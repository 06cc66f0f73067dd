package langid

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Prediction is one classifier verdict.
type Prediction struct {
	Label      string
	Confidence float64
}

// Classifier is the external language-identification contract: text in,
// label and confidence out. Implementations must be safe for concurrent use
// because sessions are classified in parallel.
type Classifier interface {
	Classify(text string) (Prediction, error)
}

// Func adapts a plain function to the Classifier interface.
type Func func(text string) (Prediction, error)

func (f Func) Classify(text string) (Prediction, error) {
	return f(text)
}

// Lexical is a stopword-density classifier over canonical (lowercased,
// punctuation-free) text. It is deliberately crude: its purpose is to catch
// minority-language statements the transcript left unlabeled, and to back
// the secondary filter pass. Quoted minority-language phrases inside
// majority-language speech can trip it; that is a known limitation of the
// heuristic, not something this code tries to repair.
type Lexical struct {
	majority  string
	minority  string
	stopwords map[string]struct{}
	minTokens int
}

// NewLexical builds a lexical classifier for a majority/minority pair.
func NewLexical(majority, minority string, stopwords []string, minTokens int) *Lexical {
	set := make(map[string]struct{}, len(stopwords))
	for _, word := range stopwords {
		word = strings.ToLower(strings.TrimSpace(word))
		if word != "" {
			set[word] = struct{}{}
		}
	}
	if minTokens < 1 {
		minTokens = 1
	}
	return &Lexical{majority: majority, minority: minority, stopwords: set, minTokens: minTokens}
}

// Stopwords returns the stoplist as a sorted slice.
func (l *Lexical) Stopwords() []string {
	words := make([]string, 0, len(l.stopwords))
	for word := range l.stopwords {
		words = append(words, word)
	}
	sort.Strings(words)
	return words
}

// Density returns the fraction of tokens found in the minority stoplist and
// the token count examined.
func (l *Lexical) Density(text string) (float64, int) {
	tokens := strings.Fields(strings.ToLower(text))
	if len(tokens) == 0 {
		return 0, 0
	}
	hits := 0
	for _, token := range tokens {
		if _, ok := l.stopwords[token]; ok {
			hits++
		}
	}
	return float64(hits) / float64(len(tokens)), len(tokens)
}

// Classify labels text by minority stopword density. Texts shorter than the
// configured minimum default to the majority language with low confidence.
func (l *Lexical) Classify(text string) (Prediction, error) {
	density, tokens := l.Density(text)
	if tokens < l.minTokens {
		return Prediction{Label: l.majority, Confidence: 0.5}, nil
	}
	switch {
	case density >= 0.75:
		return Prediction{Label: l.minority, Confidence: density}, nil
	case density >= 0.25:
		return Prediction{Label: Mixed(l.majority, l.minority), Confidence: density}, nil
	default:
		return Prediction{Label: l.majority, Confidence: 1 - density}, nil
	}
}

// LoadStoplist reads a newline-separated stopword list. Blank lines and
// lines starting with '#' are ignored.
func LoadStoplist(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open stoplist: %w", err)
	}
	defer file.Close()

	var words []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, strings.ToLower(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read stoplist: %w", err)
	}
	return words, nil
}
