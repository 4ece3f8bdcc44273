// Package config resolves, parses, validates, and defaults nova configuration.
package config

// Config is the fully materialized runtime configuration used by nova.
type Config struct {
	Wake      WakeConfig
	Listen    ListenConfig
	Speech    SpeechConfig
	Apps      AppsConfig
	Terminal  CommandConfig
	OpenCmd   CommandConfig
	Drives    DrivesConfig
	Close     CloseConfig
	Indicator IndicatorConfig
	Log       LogConfig

	AliasesFile  string
	CommandsFile string
	SettingsFile string
}

// WakeConfig controls wake-word detection.
type WakeConfig struct {
	Word      string
	Spellings []string
	Threshold float64
}

// ListenConfig controls the transcription collaborator and capture windows.
type ListenConfig struct {
	Command                CommandConfig
	Input                  string
	UnintelligibleExitCode int
	WakeTimeoutMS          int
	WakePhraseLimitMS      int
	CommandTimeoutMS       int
	CommandPhraseLimitMS   int
	GraceMS                int
	ErrorBackoffMS         int
	GRPCHealthEndpoint     string
}

// SpeechConfig controls spoken confirmations.
type SpeechConfig struct {
	Enable    bool
	Command   CommandConfig
	TimeoutMS int
}

// AppsConfig controls installed-application discovery and launching.
type AppsConfig struct {
	Dirs     []string
	Launcher CommandConfig
}

// DrivesConfig maps drive letters to mount roots.
type DrivesConfig struct {
	Pattern         string
	Roots           map[string]string
	FolderThreshold float64
}

// CloseConfig controls process termination.
type CloseConfig struct {
	Command       CommandConfig
	ProcessSuffix string
}

// IndicatorConfig controls audible cues.
type IndicatorConfig struct {
	SoundEnable    bool
	SoundWake      string
	SoundDone      string
	SoundMiss      string
	SoundTimeoutMS int
}

// LogConfig controls logging output.
type LogConfig struct {
	Level   string
	Console bool
}

// CommandConfig stores a raw command string and its parsed argv form.
type CommandConfig struct {
	Raw  string
	Argv []string
}

// Warning is a non-fatal parse/validation message.
type Warning struct {
	Line    int
	Message string
}
