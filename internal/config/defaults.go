package config

// Default returns the canonical runtime configuration used when no file is present.
func Default() Config {
	listen := "nova-stt --input {input} --timeout {timeout} --phrase-limit {phrase_limit}"
	speech := "spd-say --wait {text}"
	launcher := "gtk-launch"
	terminal := "kitty"
	open := "xdg-open"
	kill := "pkill -x"

	return Config{
		Wake: WakeConfig{
			Word:      "nova",
			Spellings: []string{"nova", "noah", "nora", "novah", "nover", "know va", "now a", "no va"},
			Threshold: 0.6,
		},
		Listen: ListenConfig{
			Command:                CommandConfig{Raw: listen, Argv: mustParseArgv(listen)},
			Input:                  "default",
			UnintelligibleExitCode: 3,
			WakeTimeoutMS:          1000,
			WakePhraseLimitMS:      5000,
			CommandTimeoutMS:       5000,
			CommandPhraseLimitMS:   5000,
			GraceMS:                1500,
			ErrorBackoffMS:         1000,
		},
		Speech: SpeechConfig{
			Enable:    true,
			Command:   CommandConfig{Raw: speech, Argv: mustParseArgv(speech)},
			TimeoutMS: 10000,
		},
		Apps: AppsConfig{
			Launcher: CommandConfig{Raw: launcher, Argv: mustParseArgv(launcher)},
		},
		Terminal: CommandConfig{Raw: terminal, Argv: mustParseArgv(terminal)},
		OpenCmd:  CommandConfig{Raw: open, Argv: mustParseArgv(open)},
		Drives: DrivesConfig{
			Pattern:         "/mnt/{letter}",
			Roots:           map[string]string{},
			FolderThreshold: 0.5,
		},
		Close: CloseConfig{
			Command: CommandConfig{Raw: kill, Argv: mustParseArgv(kill)},
		},
		Indicator: IndicatorConfig{
			SoundEnable:    true,
			SoundTimeoutMS: 1500,
		},
		Log: LogConfig{Level: "info"},
	}
}
