package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"plenum/internal/config"
	"plenum/internal/session"
	"plenum/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t,
		testsupport.WithThresholds(0.5, 0.6),
		testsupport.WithMatchBounds(100, 30, 1),
		func(cfg *config.Config) {
			cfg.Audio.Terms = []config.TermRange{{Term: 2, FirstYear: 2015, LastYear: 2018}}
		},
	)
	testsupport.WriteSpeakerTable(t, cfg.Paths.SpeakerTable)

	configPath := filepath.Join(t.TempDir(), "config.toml")
	encoded, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(configPath, encoded, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	return &cliTestEnv{cfg: cfg, configPath: configPath}
}

func (env *cliTestEnv) writeSession(t *testing.T, id session.ID) {
	t.Helper()
	stem := id.FileStem()
	testsupport.WriteFile(t, filepath.Join(env.cfg.Paths.TranscriptDir, stem+".json"), `{
  "number": `+fmt.Sprintf("%d", id.Number)+`,
  "year": `+fmt.Sprintf("%d", id.Year)+`,
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
        }
      ]
    }
  ]
}
`)
	testsupport.WriteFile(t, filepath.Join(env.cfg.Paths.DecoderDir, stem+".segments"),
		"cand-1 "+stem+" 1.00 3.50\n")
	testsupport.WriteFile(t, filepath.Join(env.cfg.Paths.DecoderDir, stem+".text"),
		"cand-1 arvoisa puhemies kiitos paljon hyva alku uudelle vuodelle\n")
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if configPath != "" {
		args = append([]string{"--config", configPath}, args...)
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q, got %q", needle, haystack)
	}
}

func TestCLIProcessAssembleStatus(t *testing.T) {
	env := setupCLITestEnv(t)
	id := session.ID{Number: 15, Year: 2015}
	env.writeSession(t, id)

	out, _, err := runCLI(t, []string{"process", "015-2015"}, env.configPath)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	requireContains(t, out, "015-2015")
	requireContains(t, out, "Processed 1 sessions (0 failed)")

	out, _, err = runCLI(t, []string{"status"}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "015-2015")
	requireContains(t, out, "labeled")

	out, _, err = runCLI(t, []string{"assemble"}, env.configPath)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	requireContains(t, out, "Assembled 1 sessions into 1 records")

	if _, err := os.Stat(filepath.Join(env.cfg.Paths.CorpusDir, "segments")); err != nil {
		t.Fatalf("expected merged segments table: %v", err)
	}
}

func TestCLIProcessDiscoversSessions(t *testing.T) {
	env := setupCLITestEnv(t)
	env.writeSession(t, session.ID{Number: 15, Year: 2015})

	out, _, err := runCLI(t, []string{"process"}, env.configPath)
	if err != nil {
		t.Fatalf("process without args: %v", err)
	}
	requireContains(t, out, "015-2015")
}

func TestCLIProcessRejectsBadSessionArg(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"process", "not-a-session"}, env.configPath)
	if err == nil {
		t.Fatal("expected error for malformed session argument")
	}
}

func TestCLIStatusWithoutSessions(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"status"}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "No sessions tracked yet")
}
