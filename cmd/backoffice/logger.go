package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// setupLogger writes JSON logs to logFilePath and console logs to stderr.
// Stderr is used only when it is a terminal or there is no log file, so
// stdio MCP clients never see log lines they did not ask for.
func setupLogger(logFilePath string, level zapcore.Level) (*zap.Logger, func()) {
	var cores []zapcore.Core
	closeFn := func() {}

	stderrIsTerminal := false
	if info, err := os.Stderr.Stat(); err == nil {
		stderrIsTerminal = (info.Mode() & os.ModeCharDevice) != 0
	}

	hasLogFile := false
	lower := strings.ToLower(logFilePath)
	if lower != "none" && lower != "off" && logFilePath != "" {
		if err := os.MkdirAll(filepath.Dir(logFilePath), 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "backoffice: cannot create log dir %s: %v\n", filepath.Dir(logFilePath), err)
		} else if f, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "backoffice: cannot open log file %s: %v\n", logFilePath, err)
		} else {
			enc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
			cores = append(cores, zapcore.NewCore(enc, zapcore.AddSync(f), level))
			closeFn = func() { _ = f.Close() }
			hasLogFile = true
		}
	}

	if stderrIsTerminal || !hasLogFile {
		encCfg := zap.NewDevelopmentEncoderConfig()
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		if !stderrIsTerminal {
			encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(os.Stderr), level))
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()), closeFn
}
