package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"testing"
	"time"

	"github.com/matzehuels/boreholelog/pkg/errors"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"ok", nil, ExitOK},
		{"interrupt", fmt.Errorf("render: %w", context.Canceled), ExitInterrupt},
		{"overlap", errors.New(errors.ErrCodeInvalidInterval, "intervals 2 and 3 overlap"), ExitBadInput},
		{"missing file", errors.New(errors.ErrCodeFileNotFound, "input file not found"), ExitBadInput},
		{"reported", reported{errors.New(errors.ErrCodeInvalidConfig, "bad style")}, ExitBadInput},
		{"pages failed", errors.New(errors.ErrCodeRenderFailed, "1 of 3 pages failed"), ExitFailure},
		{"plain", fmt.Errorf("boom"), ExitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestReported(t *testing.T) {
	base := errors.New(errors.ErrCodeNoData, "empty")
	if Reported(base) {
		t.Error("plain error should not count as reported")
	}
	if !Reported(fmt.Errorf("validate: %w", reported{base})) {
		t.Error("wrapped reported error not detected")
	}
}

func TestVerboseFlag(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs([]string{"-v", "config", "list"})
	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
	if c.Logger.GetLevel() != LogDebug {
		t.Errorf("level = %v, want debug", c.Logger.GetLevel())
	}
}

func TestEnvParsed(t *testing.T) {
	t.Setenv("BOREHOLELOG_TIMEOUT", "15s")
	t.Setenv("BOREHOLELOG_REDIS_DB", "three")
	if got := envParsed("BOREHOLELOG_TIMEOUT", time.Minute, time.ParseDuration); got != 15*time.Second {
		t.Errorf("timeout = %v", got)
	}
	if got := envParsed("BOREHOLELOG_REDIS_DB", 2, strconv.Atoi); got != 2 {
		t.Errorf("unparsable value should keep default, got %d", got)
	}
	if got := envOr("BOREHOLELOG_UNSET_FOR_TEST", ":8080"); got != ":8080" {
		t.Errorf("envOr = %q", got)
	}
}
