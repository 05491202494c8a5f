package main

import (
	"fmt"

	"go.uber.org/zap"
)

// logFormat describes varieties of log output.
type logFormat int

const (
	logFormatInvalid logFormat = iota

	// logFormatConsole is human-readable output for terminals.
	logFormatConsole

	// logFormatJSON is structured output for log collectors.
	logFormatJSON
)

var logFormatValueMap = map[logFormat]string{
	logFormatConsole: "console",
	logFormatJSON:    "json",
}

func (f logFormat) String() string {
	v, ok := logFormatValueMap[f]
	if !ok {
		return fmt.Sprintf("invalid(%d)", f)
	}

	return v
}

// UnmarshalText for setting values with configs, CLI, etc.
func (f *logFormat) UnmarshalText(rawtext []byte) error {
	text := string(rawtext)
	for k, v := range logFormatValueMap {
		if v == text {
			*f = k
			return nil
		}
	}

	return fmt.Errorf("unknown log format %q", text)
}

// Set implements pflag.Value.
func (f *logFormat) Set(s string) error {
	return f.UnmarshalText([]byte(s))
}

// Type implements pflag.Value.
func (f *logFormat) Type() string {
	return "format"
}

// logger builds the logger of the format.
func (f logFormat) logger(debug bool) (*zap.Logger, error) {
	var cfg zap.Config
	switch f {
	case logFormatConsole:
		cfg = zap.NewDevelopmentConfig()
		cfg.DisableStacktrace = true
	case logFormatJSON:
		cfg = zap.NewProductionConfig()
	default:
		return nil, fmt.Errorf("unsupported log format %s", f)
	}

	cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	return cfg.Build()
}

// overlay is the file format of go build -overlay.
type overlay struct {
	Replace map[string]string `json:"Replace"`
}
