package cmd

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	derrors "github.com/manav03panchal/daymark/internal/errors"
)

// setupEnv points the CLI at a fresh on-disk database and a missing config
// file so every test starts empty.
func setupEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DAYMARK_CONFIG", t.TempDir()+"/none.yaml")
	t.Setenv("DAYMARK_DATABASE", t.TempDir())
	t.Setenv("DAYMARK_USER", "tester")
	t.Setenv("DAYMARK_LOG_LEVEL", "error")
}

// resetFlags restores every flag to its default between executions.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.PersistentFlags().VisitAll(reset)
	c.Flags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// execute runs the CLI and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := Execute()
	return out.String(), errOut.String(), err
}

// mustRun executes args and fails the test on error.
func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, errOut, err := execute(t, args...)
	require.NoError(t, err, errOut)
	return out
}

// jsonData runs args with JSON output and decodes the data envelope into v.
func jsonData(t *testing.T, v any, args ...string) {
	t.Helper()
	out := mustRun(t, append([]string{"--format", "json"}, args...)...)
	var envelope struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &envelope), out)
	require.Equal(t, "ok", envelope.Status)
	require.NoError(t, json.Unmarshal(envelope.Data, v))
}

type dayView struct {
	Date         string `json:"date"`
	CustomFields []struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	} `json:"customFields"`
	DailyTasks []struct {
		ID       string `json:"id"`
		Title    string `json:"title"`
		Done     bool   `json:"done"`
		Subtasks []struct {
			ID string `json:"id"`
		} `json:"subtasks"`
	} `json:"dailyTasks"`
	CustomCounters []struct {
		Name  string `json:"name"`
		Value int    `json:"value"`
	} `json:"customCounters"`
	Entries []struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	} `json:"entries"`
}

// =============================================================================
// Root Tests
// =============================================================================

func TestVersion(t *testing.T) {
	out := mustRun(t, "version")
	assert.Contains(t, out, "daymark dev")
}

func TestRootShowsToday(t *testing.T) {
	setupEnv(t)

	var day dayView
	jsonData(t, &day)
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}$`, day.Date)
}

func TestUnknownFormat(t *testing.T) {
	setupEnv(t)

	_, errOut, err := execute(t, "--format", "xml", "day")
	require.Error(t, err)
	assert.True(t, derrors.IsValidationError(err))
	assert.Contains(t, errOut, "unknown output format")
}

func TestBadDateShowsExamples(t *testing.T) {
	setupEnv(t)

	_, errOut, err := execute(t, "day", "banana")
	require.Error(t, err)
	assert.Contains(t, errOut, "invalid date 'banana'")
	assert.Contains(t, errOut, "Valid examples")
}

func TestJSONErrorEnvelope(t *testing.T) {
	setupEnv(t)

	out, _, err := execute(t, "--format", "json", "counter", "inc", "Nope")
	require.Error(t, err)

	var resp struct {
		Status   string `json:"status"`
		Category string `json:"category"`
		Error    string `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, "not_found", resp.Category)
	assert.Contains(t, resp.Error, "Nope")
}

// =============================================================================
// Journal Command Tests
// =============================================================================

func TestFieldCommands(t *testing.T) {
	setupEnv(t)

	mustRun(t, "field", "create", "Mood", "--type", "number")
	mustRun(t, "field", "set", "mood", "4")
	mustRun(t, "field", "daily", "set", "Weather", "rain")

	var day dayView
	jsonData(t, &day, "day")
	require.Len(t, day.CustomFields, 1)
	assert.Equal(t, "Mood", day.CustomFields[0].Key)
	assert.Equal(t, "4", day.CustomFields[0].Value)

	_, _, err := execute(t, "field", "set", "Mood", "happy")
	require.Error(t, err)
	assert.True(t, derrors.IsValidationError(err))

	_, _, err = execute(t, "field", "create", "MOOD")
	require.Error(t, err)
	assert.True(t, derrors.IsConflictError(err))

	out := mustRun(t, "--color", "never", "field", "list")
	assert.Contains(t, out, "Mood")
	assert.Contains(t, out, "number")
}

func TestTaskCommands(t *testing.T) {
	setupEnv(t)

	var task struct {
		ID string `json:"id"`
	}
	jsonData(t, &task, "task", "add", "Write", "report", "--points", "3")
	require.NotEmpty(t, task.ID)
	short := task.ID[len(task.ID)-8:]

	mustRun(t, "task", "add", "Outline", "--parent", short)
	mustRun(t, "task", "done", short)

	var day dayView
	jsonData(t, &day, "day")
	require.Len(t, day.DailyTasks, 1)
	assert.Equal(t, "Write report", day.DailyTasks[0].Title)
	assert.True(t, day.DailyTasks[0].Done)
	assert.Len(t, day.DailyTasks[0].Subtasks, 1)
	require.Len(t, day.Entries, 1)
	assert.Equal(t, "Completed: Write report", day.Entries[0].Text)

	mustRun(t, "task", "toggle", short)
	jsonData(t, &day, "day")
	assert.False(t, day.DailyTasks[0].Done)
	assert.Empty(t, day.Entries)

	mustRun(t, "task", "delete", short)
	jsonData(t, &day, "day")
	assert.Empty(t, day.DailyTasks)

	_, _, err := execute(t, "task", "done", "deadbeef")
	require.Error(t, err)
	assert.True(t, derrors.IsNotFoundError(err))
}

func TestEntryCommands(t *testing.T) {
	setupEnv(t)

	var entry struct {
		ID string `json:"id"`
	}
	jsonData(t, &entry, "entry", "add", "Went", "for", "a", "run")
	mustRun(t, "entry", "edit", entry.ID, "Went", "for", "a", "long", "run")

	var day dayView
	jsonData(t, &day, "day")
	require.Len(t, day.Entries, 1)
	assert.Equal(t, "Went for a long run", day.Entries[0].Text)

	_, _, err := execute(t, "entry", "add", "   ")
	require.Error(t, err)
	assert.True(t, derrors.IsValidationError(err))

	mustRun(t, "entry", "delete", entry.ID)
	jsonData(t, &day, "day")
	assert.Empty(t, day.Entries)
}

func TestCounterCommands(t *testing.T) {
	setupEnv(t)

	mustRun(t, "counter", "create", "Coffee")
	mustRun(t, "counter", "inc", "coffee")
	mustRun(t, "counter", "inc", "Coffee", "2")

	var counters []struct {
		Name  string `json:"name"`
		Value int    `json:"value"`
	}
	jsonData(t, &counters, "counter", "list")
	require.Len(t, counters, 1)
	assert.Equal(t, 3, counters[0].Value)

	// yesterday is auto-captured by the first read of today; the write
	// refreshes that capture
	mustRun(t, "counter", "set", "Coffee", "1", "--date", "yesterday")
	jsonData(t, &counters, "counter", "list", "--date", "yesterday")
	assert.Equal(t, 1, counters[0].Value)

	_, _, err := execute(t, "counter", "set", "Coffee", "lots")
	require.Error(t, err)
	assert.True(t, derrors.IsValidationError(err))

	_, _, err = execute(t, "counter", "create", "coffee")
	require.Error(t, err)
	assert.True(t, derrors.IsConflictError(err))
}

func TestTimerLocked(t *testing.T) {
	setupEnv(t)

	mustRun(t, "timer", "create", "Reading")
	mustRun(t, "timer", "lock", "Reading")

	_, errOut, err := execute(t, "timer", "start", "reading")
	require.Error(t, err)
	assert.Contains(t, errOut, "Unlock the tracker first.")

	mustRun(t, "timer", "unlock", "Reading")
	out := mustRun(t, "timer", "start", "Reading")
	assert.Contains(t, out, "Started Reading")
}

func TestSinceCommands(t *testing.T) {
	setupEnv(t)

	mustRun(t, "since", "create", "Haircut", "--at", "3 days ago")
	out := mustRun(t, "--color", "never", "since", "list")
	assert.Contains(t, out, "Haircut")
	assert.Contains(t, out, "3d")
}

func TestSnapshotCommands(t *testing.T) {
	setupEnv(t)

	mustRun(t, "snapshot", "save", "yesterday")
	mustRun(t, "snapshot", "save")

	var infos []struct {
		Date   string `json:"date"`
		Source string `json:"source"`
	}
	jsonData(t, &infos, "snapshot", "list")
	require.Len(t, infos, 2)
	assert.Equal(t, "manual", infos[0].Source)

	var result struct {
		Pruned []string `json:"pruned"`
	}
	jsonData(t, &result, "snapshot", "retention", "--max-count", "1")
	assert.Len(t, result.Pruned, 1)

	jsonData(t, &infos, "snapshot", "list")
	assert.Len(t, infos, 1)
}

func TestReorderCounters(t *testing.T) {
	setupEnv(t)

	mustRun(t, "counter", "create", "Coffee")
	mustRun(t, "counter", "create", "Tea")
	mustRun(t, "reorder", "counters", "Tea", "Coffee")

	var day dayView
	jsonData(t, &day, "day")
	require.Len(t, day.CustomCounters, 2)
	assert.Equal(t, "Tea", day.CustomCounters[0].Name)

	_, _, err := execute(t, "reorder", "goals", "x")
	require.Error(t, err)
	assert.True(t, derrors.IsValidationError(err))
}

// =============================================================================
// Analytics and Maintenance Tests
// =============================================================================

func TestStatsCounter(t *testing.T) {
	setupEnv(t)

	mustRun(t, "counter", "create", "Coffee")
	mustRun(t, "counter", "inc", "Coffee", "2")

	var result struct {
		Name    string `json:"name"`
		Summary struct {
			Sum float64 `json:"sum"`
		} `json:"summary"`
	}
	jsonData(t, &result, "stats", "--counter", "Coffee", "--period", "last 7 days")
	assert.Equal(t, "Coffee", result.Name)
	assert.Equal(t, 2.0, result.Summary.Sum)

	_, _, err := execute(t, "stats", "--period", "this week")
	require.Error(t, err)
	assert.True(t, derrors.IsValidationError(err))
}

func TestStatsTasks(t *testing.T) {
	setupEnv(t)

	mustRun(t, "task", "add", "One")
	var result struct {
		Summary struct {
			Total int `json:"total"`
		} `json:"summary"`
	}
	jsonData(t, &result, "stats", "tasks", "--period", "today", "--status", "incomplete")
	assert.Equal(t, 1, result.Summary.Total)
}

func TestSettings(t *testing.T) {
	setupEnv(t)

	var user struct {
		Timezone string `json:"timezone"`
	}
	jsonData(t, &user, "settings", "--timezone", "Asia/Tokyo")
	assert.Equal(t, "Asia/Tokyo", user.Timezone)

	_, _, err := execute(t, "settings", "--timezone", "Mars/Olympus")
	require.Error(t, err)
	assert.True(t, derrors.IsValidationError(err))
}

func TestDBBackupRestore(t *testing.T) {
	setupEnv(t)
	file := t.TempDir() + "/daymark.bak"

	mustRun(t, "counter", "create", "Coffee")
	out := mustRun(t, "db", "check")
	assert.Contains(t, out, "Database healthy")
	mustRun(t, "db", "backup", file)

	t.Setenv("DAYMARK_DATABASE", t.TempDir())
	mustRun(t, "db", "restore", file)

	var counters []struct {
		Name string `json:"name"`
	}
	jsonData(t, &counters, "counter", "list")
	require.Len(t, counters, 1)
	assert.Equal(t, "Coffee", counters[0].Name)
}

func TestConfigShow(t *testing.T) {
	setupEnv(t)

	out := mustRun(t, "config", "show")
	assert.Contains(t, out, "max_range_days: 3660")
	assert.Contains(t, out, "ttl: 5m0s")
}

// =============================================================================
// Helper Tests
// =============================================================================

func TestMatchID(t *testing.T) {
	ids := []string{"0190-aaaa-11111111", "0190-bbbb-22221111", "0190-cccc-33333333"}

	got, err := matchID("task", "0190-cccc-33333333", ids)
	require.NoError(t, err)
	assert.Equal(t, ids[2], got)

	got, err = matchID("task", "33333333", ids)
	require.NoError(t, err)
	assert.Equal(t, ids[2], got)

	_, err = matchID("task", "1111", ids)
	assert.True(t, derrors.IsValidationError(err))

	_, err = matchID("task", "9999", ids)
	assert.True(t, derrors.IsNotFoundError(err))

	_, err = matchID("task", "", ids)
	assert.True(t, derrors.IsNotFoundError(err))
}
