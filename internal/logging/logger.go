// Package logging builds the zap loggers used by the CLI and core packages.
package logging

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a console logger writing to stderr at the given level
// ("debug", "info", "warn", "error"). Levels are coloured only when stderr is
// a terminal and colour has not been disabled through color.NoColor.
func New(level string) (*zap.Logger, error) {
	return newLogger(level, zapcore.Lock(os.Stderr), stderrSupportsColor())
}

func newLogger(level string, out zapcore.WriteSyncer, colored bool) (*zap.Logger, error) {
	lvl := zapcore.WarnLevel
	if level != "" {
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
	}

	encoderCfg := zap.NewDevelopmentEncoderConfig()
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	if colored {
		encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), out, lvl)
	return zap.New(core), nil
}

func stderrSupportsColor() bool {
	if color.NoColor {
		return false
	}
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Nop returns a logger that discards everything
func Nop() *zap.Logger {
	return zap.NewNop()
}
