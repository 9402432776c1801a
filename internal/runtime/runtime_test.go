package runtime

import (
	"bytes"
	"errors"
	"fmt"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manav03panchal/daymark/internal/clock"
	"github.com/manav03panchal/daymark/internal/config"
	derrors "github.com/manav03panchal/daymark/internal/errors"
	"github.com/manav03panchal/daymark/internal/journal"
	"github.com/manav03panchal/daymark/internal/output"
	"github.com/manav03panchal/daymark/internal/parser"
)

func memConfig() *config.RuntimeConfig {
	cfg := config.DefaultRuntimeConfig()
	cfg.Storage.InMemory = true
	return cfg
}

func newTestContext(t *testing.T, opts Options) *Context {
	t.Helper()
	if opts.Config == nil {
		opts.Config = memConfig()
	}
	ctx, err := New(opts)
	require.NoError(t, err)
	t.Cleanup(func() { ctx.Close() })
	return ctx
}

// =============================================================================
// Context Tests
// =============================================================================

func TestDefaultOptions(t *testing.T) {
	t.Setenv("DAYMARK_USER", "alice")
	opts := DefaultOptions()

	assert.Nil(t, opts.Config)
	assert.Equal(t, output.FormatCLI, opts.Format)
	assert.Equal(t, output.ColorAuto, opts.ColorMode)
	assert.Equal(t, "alice", opts.UserID)
	assert.False(t, opts.Debug)
}

func TestNew(t *testing.T) {
	ctx := newTestContext(t, Options{UserID: "u1"})

	assert.NotNil(t, ctx.DB)
	assert.NotNil(t, ctx.Cache)
	assert.NotNil(t, ctx.Snapshots)
	assert.NotNil(t, ctx.Journal)
	assert.NotNil(t, ctx.Analytics)
	assert.NotNil(t, ctx.Formatter)
	assert.Equal(t, "u1", ctx.UserID)
}

func TestNewWithOptions(t *testing.T) {
	ctx := newTestContext(t, Options{
		Format:    output.FormatJSON,
		ColorMode: output.ColorNever,
		Debug:     true,
	})

	assert.Equal(t, output.FormatJSON, ctx.Formatter.Format)
	assert.Equal(t, output.ColorNever, ctx.Formatter.ColorMode)
	assert.True(t, ctx.Debug)
	assert.NotEmpty(t, ctx.UserID)
}

func TestNewWithEnvVariable(t *testing.T) {
	t.Setenv("DAYMARK_CONFIG", t.TempDir()+"/missing.yaml")
	t.Setenv("DAYMARK_DATABASE", ":memory:")

	ctx, err := New(Options{UserID: "u1"})
	require.NoError(t, err)
	defer ctx.Close()

	assert.True(t, ctx.Config.Storage.InMemory)
	assert.NotNil(t, ctx.DB)
}

func TestNewWithEnvVariablePath(t *testing.T) {
	dbPath := t.TempDir() + "/daymark-test.db"
	t.Setenv("DAYMARK_CONFIG", t.TempDir()+"/missing.yaml")
	t.Setenv("DAYMARK_DATABASE", dbPath)

	ctx, err := New(Options{UserID: "u1"})
	require.NoError(t, err)
	defer ctx.Close()

	assert.Equal(t, dbPath, ctx.DB.Path())
}

func TestContextServicesShareStorage(t *testing.T) {
	clk := clock.Fixed(time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC))
	ctx := newTestContext(t, Options{UserID: "u1", Clock: clk})

	counter, err := ctx.Journal.CreateCounter("u1", "Coffee")
	require.NoError(t, err)
	_, err = ctx.Journal.IncrementCounter("u1", counter.ID, "2024-01-05", 3)
	require.NoError(t, err)

	state, err := ctx.Journal.GetState("u1")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-05", state.Date)

	// auto-capture is on by default
	exists, err := ctx.Snapshots.Exists("u1", "2024-01-05")
	require.NoError(t, err)
	assert.True(t, exists)

	assert.Equal(t, 12, ctx.Now().Hour())
}

func TestContextClose(t *testing.T) {
	ctx, err := New(Options{Config: memConfig()})
	require.NoError(t, err)
	assert.NoError(t, ctx.Close())

	// Closing an empty context should be safe
	assert.NoError(t, (&Context{}).Close())
}

func TestContextFormatters(t *testing.T) {
	ctx := newTestContext(t, Options{})
	assert.NotNil(t, ctx.CLIFormatter())
	assert.NotNil(t, ctx.JSONFormatter())
}

func TestContextIsJSON(t *testing.T) {
	t.Run("json_format", func(t *testing.T) {
		ctx := newTestContext(t, Options{Format: output.FormatJSON})
		assert.True(t, ctx.IsJSON())
	})

	t.Run("cli_format", func(t *testing.T) {
		ctx := newTestContext(t, Options{Format: output.FormatCLI})
		assert.False(t, ctx.IsJSON())
	})
}

func TestContextDebugf(t *testing.T) {
	t.Run("debug_enabled", func(t *testing.T) {
		var buf bytes.Buffer
		ctx := newTestContext(t, Options{Debug: true})

		ctx.Formatter.Writer = &buf
		ctx.Debugf("test message %s", "arg1")

		assert.Contains(t, buf.String(), "[DEBUG]")
		assert.Contains(t, buf.String(), "test message arg1")
	})

	t.Run("debug_disabled", func(t *testing.T) {
		var buf bytes.Buffer
		ctx := newTestContext(t, Options{})

		ctx.Formatter.Writer = &buf
		ctx.Debugf("test message")

		assert.Empty(t, buf.String())
	})
}

// =============================================================================
// Error Tests
// =============================================================================

func TestFormatError(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		assert.Empty(t, FormatError(nil))
	})

	t.Run("known_sentinel", func(t *testing.T) {
		err := derrors.NewValidationErrorWithValue("date", "soon", "must be a YYYY-MM-DD date", derrors.ErrInvalidDate)
		msg := FormatError(err)
		assert.Contains(t, msg, "date")
		assert.Contains(t, msg, "Try: Dates use the YYYY-MM-DD format")
	})

	t.Run("tracker_locked", func(t *testing.T) {
		clk := clock.Fixed(time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC))
		ctx := newTestContext(t, Options{UserID: "u1", Clock: clk})
		tr, err := ctx.Journal.CreateDurationTracker("u1", "Reading")
		require.NoError(t, err)
		_, err = ctx.Journal.SetTrackerLocked("u1", tr.ID, true)
		require.NoError(t, err)

		_, err = ctx.Journal.StartTracker("u1", tr.ID)
		require.Error(t, err)
		assert.Contains(t, FormatError(err), "Unlock the tracker first.")
	})

	t.Run("internal_is_opaque", func(t *testing.T) {
		msg := FormatError(derrors.NewSystemError("badger exploded", nil))
		assert.NotContains(t, msg, "badger")
	})

	t.Run("date_parse_examples", func(t *testing.T) {
		msg := FormatError(parser.NewDateError("date", "banana"))
		assert.Contains(t, msg, "invalid date 'banana'")
		assert.Contains(t, msg, "3 days ago")
	})

	t.Run("disk_full", func(t *testing.T) {
		msg := FormatError(NewDiskFullError("open", "/data", syscall.ENOSPC))
		assert.Contains(t, msg, "disk full during open on /data")
		assert.Contains(t, msg, "Free up disk space")
	})
}

func TestClassifiable(t *testing.T) {
	err := Classifiable(parser.NewRangeError("fortnight"))
	assert.True(t, derrors.IsValidationError(err))
	assert.Equal(t, derrors.CategoryValidation, derrors.Classify(err))

	plain := errors.New("plain")
	assert.Equal(t, plain, Classifiable(plain))
}

func TestNewDiskFullError(t *testing.T) {
	original := errors.New("underlying error")
	err := NewDiskFullError("write", "/path/to/db", original)

	assert.Equal(t, "write", err.Op)
	assert.Equal(t, "/path/to/db", err.Path)
	assert.Contains(t, err.Error(), "disk full")
	assert.Contains(t, err.Error(), "/path/to/db")
}

func TestDiskFullErrorWithoutPath(t *testing.T) {
	err := NewDiskFullError("sync", "", errors.New("underlying error"))

	assert.Contains(t, err.Error(), "disk full during sync")
	assert.NotContains(t, err.Error(), " on ")
}

func TestDiskFullErrorUnwrap(t *testing.T) {
	err := NewDiskFullError("write", "", errors.New("underlying error"))
	assert.True(t, errors.Is(err, ErrDiskFull))
}

func TestIsDiskFullError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil_error", nil, false},
		{"disk_full_error_type", NewDiskFullError("write", "", nil), true},
		{"sentinel_disk_full", ErrDiskFull, true},
		{"wrapped_sentinel", fmt.Errorf("context: %w", ErrDiskFull), true},
		{"enospc_errno", syscall.ENOSPC, true},
		{"wrapped_errno", fmt.Errorf("write vlog: %w", syscall.ENOSPC), true},
		{"message_no_space", errors.New("no space left on device"), true},
		{"message_upper_case", errors.New("DISK FULL"), true},
		{"message_not_enough_space", errors.New("not enough space on disk"), true},
		{"message_out_of_disk_space", errors.New("out of disk space"), true},
		{"regular_error", errors.New("connection timeout"), false},
		{"other_errno", syscall.EACCES, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDiskFullError(tt.err))
		})
	}
}

func TestWrapDiskFullError(t *testing.T) {
	t.Run("nil_error", func(t *testing.T) {
		assert.Nil(t, WrapDiskFullError(nil, "write", "/path"))
	})

	t.Run("disk_full_error", func(t *testing.T) {
		result := WrapDiskFullError(errors.New("no space left on device"), "write", "/path/to/db")

		var diskFullErr *DiskFullError
		require.True(t, errors.As(result, &diskFullErr))
		assert.Equal(t, "write", diskFullErr.Op)
		assert.Equal(t, "/path/to/db", diskFullErr.Path)
	})

	t.Run("regular_error_not_wrapped", func(t *testing.T) {
		err := errors.New("connection timeout")
		assert.Equal(t, err, WrapDiskFullError(err, "write", "/path"))
	})
}

func TestCacheIsWired(t *testing.T) {
	ctx := newTestContext(t, Options{UserID: "u1"})
	assert.IsType(t, journal.CacheStats{}, ctx.Journal.CacheStats())
}
