package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFile writes a text fixture, creating parent directories as needed.
func WriteFile(t testing.TB, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// SpeakerTable is a small pipe-separated lookup table fixture shared by
// pipeline tests.
const SpeakerTable = `mp_id|firstname|lastname
101|Maija|Virtanen
102|Matti|Korhonen
103|Anna-Maja|Henriksson
`

// WriteSpeakerTable writes the shared speaker table fixture to path.
func WriteSpeakerTable(t testing.TB, path string) {
	t.Helper()
	WriteFile(t, path, SpeakerTable)
}
