package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

type jsoncConfig struct {
	Wake      *jsoncWake      `json:"wake"`
	Listen    *jsoncListen    `json:"listen"`
	Speech    *jsoncSpeech    `json:"speech"`
	Apps      *jsoncApps      `json:"apps"`
	Drives    *jsoncDrives    `json:"drives"`
	Close     *jsoncClose     `json:"close"`
	Indicator *jsoncIndicator `json:"indicator"`
	Log       *jsoncLog       `json:"log"`

	Terminal     *string `json:"terminal"`
	OpenCmd      *string `json:"open_cmd"`
	AliasesFile  *string `json:"aliases_file"`
	CommandsFile *string `json:"commands_file"`
	SettingsFile *string `json:"settings_file"`
}

type jsoncWake struct {
	Word      *string          `json:"word"`
	Spellings *jsoncStringList `json:"spellings"`
	Threshold *float64         `json:"threshold"`
}

type jsoncListen struct {
	Command                *string `json:"command"`
	Input                  *string `json:"input"`
	UnintelligibleExitCode *int    `json:"unintelligible_exit_code"`
	WakeTimeoutMS          *int    `json:"wake_timeout_ms"`
	WakePhraseLimitMS      *int    `json:"wake_phrase_limit_ms"`
	CommandTimeoutMS       *int    `json:"command_timeout_ms"`
	CommandPhraseLimitMS   *int    `json:"command_phrase_limit_ms"`
	GraceMS                *int    `json:"grace_ms"`
	ErrorBackoffMS         *int    `json:"error_backoff_ms"`
	GRPCHealthEndpoint     *string `json:"grpc_health_endpoint"`
}

type jsoncSpeech struct {
	Enable    *bool   `json:"enable"`
	Command   *string `json:"command"`
	TimeoutMS *int    `json:"timeout_ms"`
}

type jsoncApps struct {
	Dirs     *jsoncStringList `json:"dirs"`
	Launcher *string          `json:"launcher"`
}

type jsoncDrives struct {
	Pattern         *string           `json:"pattern"`
	Roots           map[string]string `json:"roots"`
	FolderThreshold *float64          `json:"folder_threshold"`
}

type jsoncClose struct {
	Command       *string `json:"command"`
	ProcessSuffix *string `json:"process_suffix"`
}

type jsoncIndicator struct {
	SoundEnable    *bool   `json:"sound_enable"`
	SoundWake      *string `json:"sound_wake_file"`
	SoundDone      *string `json:"sound_done_file"`
	SoundMiss      *string `json:"sound_miss_file"`
	SoundTimeoutMS *int    `json:"sound_timeout_ms"`
}

type jsoncLog struct {
	Level   *string `json:"level"`
	Console *bool   `json:"console"`
}

type jsoncStringList []string

func (l *jsoncStringList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*l = list
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		parts := strings.Split(single, ",")
		out := make([]string, 0, len(parts))
		for _, part := range parts {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			out = append(out, part)
		}
		*l = out
		return nil
	}

	return fmt.Errorf("expected string array or comma-delimited string")
}

func parseJSONC(content string, base Config) (Config, []Warning, error) {
	normalized, err := normalizeJSONC(content)
	if err != nil {
		return Config{}, nil, err
	}

	decoder := json.NewDecoder(strings.NewReader(normalized))
	decoder.DisallowUnknownFields()

	var payload jsoncConfig
	if err := decoder.Decode(&payload); err != nil {
		return Config{}, nil, wrapJSONDecodeError(normalized, err)
	}
	if err := ensureSingleJSONValue(decoder); err != nil {
		return Config{}, nil, wrapJSONDecodeError(normalized, err)
	}

	cfg := base
	warnings, err := payload.applyTo(&cfg)
	if err != nil {
		return Config{}, nil, err
	}

	validatedWarnings, err := Validate(cfg)
	if err != nil {
		return Config{}, nil, err
	}
	warnings = append(warnings, validatedWarnings...)
	return cfg, warnings, nil
}

func (payload jsoncConfig) applyTo(cfg *Config) ([]Warning, error) {
	warnings := make([]Warning, 0)

	if payload.Wake != nil {
		if payload.Wake.Word != nil {
			cfg.Wake.Word = strings.TrimSpace(*payload.Wake.Word)
		}
		if payload.Wake.Spellings != nil {
			cfg.Wake.Spellings = append([]string(nil), (*payload.Wake.Spellings)...)
		}
		if payload.Wake.Threshold != nil {
			cfg.Wake.Threshold = *payload.Wake.Threshold
		}
	}

	if payload.Listen != nil {
		if payload.Listen.Command != nil {
			command, err := parseCommand("listen.command", *payload.Listen.Command)
			if err != nil {
				return nil, err
			}
			cfg.Listen.Command = command
		}
		if payload.Listen.Input != nil {
			cfg.Listen.Input = strings.TrimSpace(*payload.Listen.Input)
		}
		if payload.Listen.UnintelligibleExitCode != nil {
			cfg.Listen.UnintelligibleExitCode = *payload.Listen.UnintelligibleExitCode
		}
		if payload.Listen.WakeTimeoutMS != nil {
			cfg.Listen.WakeTimeoutMS = *payload.Listen.WakeTimeoutMS
		}
		if payload.Listen.WakePhraseLimitMS != nil {
			cfg.Listen.WakePhraseLimitMS = *payload.Listen.WakePhraseLimitMS
		}
		if payload.Listen.CommandTimeoutMS != nil {
			cfg.Listen.CommandTimeoutMS = *payload.Listen.CommandTimeoutMS
		}
		if payload.Listen.CommandPhraseLimitMS != nil {
			cfg.Listen.CommandPhraseLimitMS = *payload.Listen.CommandPhraseLimitMS
		}
		if payload.Listen.GraceMS != nil {
			cfg.Listen.GraceMS = *payload.Listen.GraceMS
		}
		if payload.Listen.ErrorBackoffMS != nil {
			cfg.Listen.ErrorBackoffMS = *payload.Listen.ErrorBackoffMS
		}
		if payload.Listen.GRPCHealthEndpoint != nil {
			cfg.Listen.GRPCHealthEndpoint = strings.TrimSpace(*payload.Listen.GRPCHealthEndpoint)
		}
	}

	if payload.Speech != nil {
		if payload.Speech.Enable != nil {
			cfg.Speech.Enable = *payload.Speech.Enable
		}
		if payload.Speech.Command != nil {
			command, err := parseCommand("speech.command", *payload.Speech.Command)
			if err != nil {
				return nil, err
			}
			cfg.Speech.Command = command
		}
		if payload.Speech.TimeoutMS != nil {
			cfg.Speech.TimeoutMS = *payload.Speech.TimeoutMS
		}
	}

	if payload.Apps != nil {
		if payload.Apps.Dirs != nil {
			cfg.Apps.Dirs = cfg.Apps.Dirs[:0]
			for _, dir := range *payload.Apps.Dirs {
				if dir = strings.TrimSpace(dir); dir != "" {
					cfg.Apps.Dirs = append(cfg.Apps.Dirs, dir)
				}
			}
		}
		if payload.Apps.Launcher != nil {
			command, err := parseCommand("apps.launcher", *payload.Apps.Launcher)
			if err != nil {
				return nil, err
			}
			cfg.Apps.Launcher = command
		}
	}

	if payload.Terminal != nil {
		command, err := parseCommand("terminal", *payload.Terminal)
		if err != nil {
			return nil, err
		}
		cfg.Terminal = command
	}

	if payload.OpenCmd != nil {
		command, err := parseCommand("open_cmd", *payload.OpenCmd)
		if err != nil {
			return nil, err
		}
		cfg.OpenCmd = command
	}

	if payload.Drives != nil {
		if payload.Drives.Pattern != nil {
			cfg.Drives.Pattern = strings.TrimSpace(*payload.Drives.Pattern)
		}
		if payload.Drives.FolderThreshold != nil {
			cfg.Drives.FolderThreshold = *payload.Drives.FolderThreshold
		}
		if payload.Drives.Roots != nil {
			roots := make(map[string]string, len(cfg.Drives.Roots)+len(payload.Drives.Roots))
			for letter, root := range cfg.Drives.Roots {
				roots[letter] = root
			}
			for letter, root := range payload.Drives.Roots {
				roots[strings.ToLower(strings.TrimSpace(letter))] = strings.TrimSpace(root)
			}
			cfg.Drives.Roots = roots
		}
	}

	if payload.Close != nil {
		if payload.Close.Command != nil {
			command, err := parseCommand("close.command", *payload.Close.Command)
			if err != nil {
				return nil, err
			}
			cfg.Close.Command = command
		}
		if payload.Close.ProcessSuffix != nil {
			cfg.Close.ProcessSuffix = strings.TrimSpace(*payload.Close.ProcessSuffix)
		}
	}

	if payload.Indicator != nil {
		if payload.Indicator.SoundEnable != nil {
			cfg.Indicator.SoundEnable = *payload.Indicator.SoundEnable
		}
		if payload.Indicator.SoundWake != nil {
			cfg.Indicator.SoundWake = strings.TrimSpace(*payload.Indicator.SoundWake)
		}
		if payload.Indicator.SoundDone != nil {
			cfg.Indicator.SoundDone = strings.TrimSpace(*payload.Indicator.SoundDone)
		}
		if payload.Indicator.SoundMiss != nil {
			cfg.Indicator.SoundMiss = strings.TrimSpace(*payload.Indicator.SoundMiss)
		}
		if payload.Indicator.SoundTimeoutMS != nil {
			cfg.Indicator.SoundTimeoutMS = *payload.Indicator.SoundTimeoutMS
		}
	}

	if payload.Log != nil {
		if payload.Log.Level != nil {
			cfg.Log.Level = strings.ToLower(strings.TrimSpace(*payload.Log.Level))
		}
		if payload.Log.Console != nil {
			cfg.Log.Console = *payload.Log.Console
		}
	}

	if payload.AliasesFile != nil {
		cfg.AliasesFile = strings.TrimSpace(*payload.AliasesFile)
	}
	if payload.CommandsFile != nil {
		cfg.CommandsFile = strings.TrimSpace(*payload.CommandsFile)
	}
	if payload.SettingsFile != nil {
		cfg.SettingsFile = strings.TrimSpace(*payload.SettingsFile)
	}

	return warnings, nil
}

func parseCommand(field string, raw string) (CommandConfig, error) {
	argv, err := parseArgv(raw)
	if err != nil {
		return CommandConfig{}, fmt.Errorf("invalid %s: %w", field, err)
	}
	return CommandConfig{Raw: raw, Argv: argv}, nil
}

func normalizeJSONC(content string) (string, error) {
	withoutComments, err := stripJSONCComments(content)
	if err != nil {
		return "", err
	}
	return stripJSONCTrailingCommas(withoutComments), nil
}

func stripJSONCComments(content string) (string, error) {
	var out strings.Builder
	out.Grow(len(content))

	inString := false
	escape := false
	lineComment := false
	blockComment := false

	for i := 0; i < len(content); i++ {
		ch := content[i]

		if lineComment {
			if ch == '\n' {
				lineComment = false
				out.WriteByte(ch)
				continue
			}
			if ch == '\r' {
				lineComment = false
				out.WriteByte(ch)
				continue
			}
			out.WriteByte(' ')
			continue
		}

		if blockComment {
			if ch == '*' && i+1 < len(content) && content[i+1] == '/' {
				blockComment = false
				out.WriteString("  ")
				i++
				continue
			}
			if ch == '\n' || ch == '\r' || ch == '\t' {
				out.WriteByte(ch)
			} else {
				out.WriteByte(' ')
			}
			continue
		}

		if inString {
			out.WriteByte(ch)
			if escape {
				escape = false
				continue
			}
			if ch == '\\' {
				escape = true
				continue
			}
			if ch == '"' {
				inString = false
			}
			continue
		}

		if ch == '"' {
			inString = true
			out.WriteByte(ch)
			continue
		}

		if ch == '/' && i+1 < len(content) {
			next := content[i+1]
			if next == '/' {
				lineComment = true
				out.WriteString("  ")
				i++
				continue
			}
			if next == '*' {
				blockComment = true
				out.WriteString("  ")
				i++
				continue
			}
		}

		out.WriteByte(ch)
	}

	if blockComment {
		return "", fmt.Errorf("unterminated block comment in JSONC")
	}

	return out.String(), nil
}

func stripJSONCTrailingCommas(content string) string {
	var out strings.Builder
	out.Grow(len(content))

	inString := false
	escape := false

	for i := 0; i < len(content); i++ {
		ch := content[i]

		if inString {
			out.WriteByte(ch)
			if escape {
				escape = false
				continue
			}
			if ch == '\\' {
				escape = true
				continue
			}
			if ch == '"' {
				inString = false
			}
			continue
		}

		if ch == '"' {
			inString = true
			out.WriteByte(ch)
			continue
		}

		if ch == ',' {
			j := i + 1
			for j < len(content) && isJSONWhitespace(content[j]) {
				j++
			}
			if j < len(content) && (content[j] == '}' || content[j] == ']') {
				continue
			}
		}

		out.WriteByte(ch)
	}

	return out.String()
}

func isJSONWhitespace(ch byte) bool {
	switch ch {
	case ' ', '\n', '\r', '\t':
		return true
	default:
		return false
	}
}

func ensureSingleJSONValue(decoder *json.Decoder) error {
	var extra struct{}
	err := decoder.Decode(&extra)
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err == nil {
		return fmt.Errorf("multiple JSON values are not allowed")
	}
	return err
}

func wrapJSONDecodeError(content string, err error) error {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		line, col := offsetToLineCol(content, syntaxErr.Offset)
		return fmt.Errorf("line %d column %d: %w", line, col, err)
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		line, col := offsetToLineCol(content, typeErr.Offset)
		return fmt.Errorf("line %d column %d: %w", line, col, err)
	}

	return err
}

func offsetToLineCol(content string, offset int64) (int, int) {
	if offset <= 0 {
		return 1, 1
	}

	limit := int(offset)
	if limit > len(content) {
		limit = len(content)
	}

	line := 1
	col := 1
	for i := 0; i < limit-1; i++ {
		if content[i] == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return line, col
}
