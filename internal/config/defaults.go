package config

const (
	defaultTranscriptDir   = "~/.local/share/plenum/transcripts"
	defaultDecoderDir      = "~/.local/share/plenum/decoded"
	defaultWorkDir         = "~/.local/share/plenum/work"
	defaultCorpusDir       = "~/.local/share/plenum/corpus"
	defaultLogDir          = "~/.local/share/plenum/logs"
	defaultSpeakerTable    = "~/.local/share/plenum/mp-table.csv"
	defaultRealignEditRate = 0.25
	defaultMaxEditRate     = 0.6
	defaultSearchWindow    = 10000
	defaultMatchPrefix     = 30
	defaultMinMatchRun     = 5
	defaultMinDuration     = 1.0
	defaultMaxDuration     = 30.0
	defaultMajority        = "fi"
	defaultMinority        = "sv"
	defaultMinorityDensity = 0.4
	defaultMinTokens       = 4
	defaultPathTemplate    = "{term}/{year}/session-{number}-{year}.wav"
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			TranscriptDir: defaultTranscriptDir,
			DecoderDir:    defaultDecoderDir,
			WorkDir:       defaultWorkDir,
			CorpusDir:     defaultCorpusDir,
			LogDir:        defaultLogDir,
			SpeakerTable:  defaultSpeakerTable,
		},
		Reconcile: Reconcile{
			RealignEditRate: defaultRealignEditRate,
			MaxEditRate:     defaultMaxEditRate,
			SearchWindow:    defaultSearchWindow,
			MatchPrefix:     defaultMatchPrefix,
			MinMatchRun:     defaultMinMatchRun,
		},
		Label: Label{
			MinDurationSeconds: defaultMinDuration,
			MaxDurationSeconds: defaultMaxDuration,
		},
		Language: Language{
			Majority:        defaultMajority,
			Minority:        defaultMinority,
			MinorityDensity: defaultMinorityDensity,
			MinTokens:       defaultMinTokens,
		},
		Audio: Audio{
			PathTemplate: defaultPathTemplate,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
