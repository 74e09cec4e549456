package main

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pepsimidamerica/nacwrap-go/internal/config"
)

func TestBuildLoggerLevels(t *testing.T) {
	tests := []struct {
		name      string
		logLevel  string
		verbose   bool
		quiet     bool
		wantDebug bool
		wantInfo  bool
	}{
		{name: "default info", wantInfo: true},
		{name: "config debug", logLevel: "debug", wantDebug: true, wantInfo: true},
		{name: "config error", logLevel: "error"},
		{name: "verbose wins over config", logLevel: "warn", verbose: true, wantDebug: true, wantInfo: true},
		{name: "quiet wins over config", logLevel: "debug", quiet: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolvedCfg = &config.Resolved{LogLevel: tt.logLevel}
			flagVerbose = tt.verbose
			flagQuiet = tt.quiet

			t.Cleanup(func() {
				resolvedCfg = nil
				flagVerbose = false
				flagQuiet = false
			})

			logger := buildLogger()
			ctx := context.Background()

			assert.Equal(t, tt.wantDebug, logger.Enabled(ctx, slog.LevelDebug))
			assert.Equal(t, tt.wantInfo, logger.Enabled(ctx, slog.LevelInfo))
			assert.True(t, logger.Enabled(ctx, slog.LevelError))
		})
	}
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	cmd := newRootCmd()

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}

	for _, want := range []string{"instances", "tasks", "workflows", "users", "overview"} {
		assert.Contains(t, names, want)
	}
}
