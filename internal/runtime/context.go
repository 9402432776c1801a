// Package runtime provides application runtime context for Daymark.
package runtime

import (
	"log/slog"
	"os"
	"os/user"
	"time"

	"github.com/manav03panchal/daymark/internal/analytics"
	"github.com/manav03panchal/daymark/internal/clock"
	"github.com/manav03panchal/daymark/internal/config"
	"github.com/manav03panchal/daymark/internal/journal"
	"github.com/manav03panchal/daymark/internal/logging"
	"github.com/manav03panchal/daymark/internal/output"
	"github.com/manav03panchal/daymark/internal/snapshot"
	"github.com/manav03panchal/daymark/internal/storage"
)

// Context holds the application runtime context.
type Context struct {
	Config    *config.RuntimeConfig
	DB        *storage.DB
	Clock     *clock.Clock
	Cache     *journal.StateCache
	Snapshots *snapshot.Store
	Journal   *journal.Service
	Analytics *analytics.Engine
	Formatter *output.Formatter

	// UserID is the journal the CLI acts on.
	UserID string

	// Debug mode
	Debug bool
}

// Options configures the runtime context.
type Options struct {
	// Config defaults to config.Load() when nil.
	Config    *config.RuntimeConfig
	Format    output.Format
	ColorMode output.ColorMode
	UserID    string
	Debug     bool
	// Clock defaults to the system clock.
	Clock *clock.Clock
}

// DefaultOptions returns default runtime options.
func DefaultOptions() Options {
	return Options{
		Format:    output.FormatCLI,
		ColorMode: output.ColorAuto,
		UserID:    DefaultUserID(),
	}
}

// DefaultUserID returns $DAYMARK_USER, else the login name, else "local".
func DefaultUserID() string {
	if id := os.Getenv("DAYMARK_USER"); id != "" {
		return id
	}
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return "local"
}

// New opens the database and wires every service over it.
func New(opts Options) (*Context, error) {
	cfg := opts.Config
	if cfg == nil {
		loaded, err := config.Load()
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	initLogging(cfg.Log, opts.Debug)

	db, err := storage.Open(storage.Options{
		Path:     cfg.Storage.Path,
		InMemory: cfg.Storage.InMemory,
	})
	if err != nil {
		return nil, WrapDiskFullError(err, "open", cfg.Storage.Path)
	}

	cache, err := journal.NewStateCache(journal.CacheConfig{
		TTL:         cfg.Cache.TTL,
		NumCounters: cfg.Cache.NumCounters,
		MaxCost:     cfg.Cache.MaxCost,
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	clk := opts.Clock
	if clk == nil {
		clk = clock.New()
	}
	snapshots := snapshot.NewStore(db, clk, snapshot.Policy{
		MaxDays:  cfg.Snapshot.DefaultMaxDays,
		MaxCount: cfg.Snapshot.DefaultMaxCount,
	})
	svc := journal.NewService(db, cache, snapshots, clk, journal.Options{
		AutoCapture: cfg.Snapshot.AutoCapture,
	})

	formatter := output.NewFormatter()
	if opts.Format != "" {
		formatter.Format = opts.Format
	}
	if opts.ColorMode != "" {
		formatter.ColorMode = opts.ColorMode
	}

	userID := opts.UserID
	if userID == "" {
		userID = DefaultUserID()
	}

	return &Context{
		Config:    cfg,
		DB:        db,
		Clock:     clk,
		Cache:     cache,
		Snapshots: snapshots,
		Journal:   svc,
		Analytics: analytics.NewEngine(db, cfg.Analytics.MaxRangeDays),
		Formatter: formatter,
		UserID:    userID,
		Debug:     opts.Debug,
	}, nil
}

func initLogging(cfg config.LogConfig, debug bool) {
	lc := logging.DefaultConfig()
	lc.Level = logging.ParseLevel(cfg.Level)
	lc.JSON = cfg.JSON
	lc.File = cfg.File
	if debug {
		lc.Level = slog.LevelDebug
		lc.AddSource = true
	}
	logging.Init(lc)
}

// Close releases the cache, the database and the log file.
func (c *Context) Close() error {
	if c.Cache != nil {
		c.Cache.Close()
	}
	var err error
	if c.DB != nil {
		err = c.DB.Close()
	}
	if lerr := logging.Close(); err == nil {
		err = lerr
	}
	return err
}

// Now returns the current instant in the acting user's timezone.
func (c *Context) Now() time.Time {
	now := c.Clock.Now()
	u, err := c.Journal.Settings(c.UserID)
	if err != nil {
		return now
	}
	return now.In(clock.Location(u.Timezone))
}

// CLIFormatter returns a CLI formatter.
func (c *Context) CLIFormatter() *output.CLIFormatter {
	return output.NewCLIFormatter(c.Formatter)
}

// JSONFormatter returns a JSON formatter.
func (c *Context) JSONFormatter() *output.JSONFormatter {
	return output.NewJSONFormatter(c.Formatter)
}

// IsJSON returns true if output format is JSON.
func (c *Context) IsJSON() bool {
	return c.Formatter.IsJSON()
}

// Debugf prints debug output if debug mode is enabled.
func (c *Context) Debugf(format string, args ...any) {
	if c.Debug {
		c.Formatter.Printf("[DEBUG] "+format+"\n", args...)
	}
}
