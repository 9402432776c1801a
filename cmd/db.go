package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	derrors "github.com/manav03panchal/daymark/internal/errors"
	"github.com/manav03panchal/daymark/internal/output"
	"github.com/manav03panchal/daymark/internal/runtime"
	"github.com/manav03panchal/daymark/internal/storage"
)

// dbCmd groups database maintenance.
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Check, back up and restore the database",
	Long: `Examples:
  daymark db check
  daymark db backup daymark.bak
  daymark db restore daymark.bak`,
}

var dbCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Probe the database for corrupted values",
	Args:  cobra.NoArgs,
	RunE:  runDBCheck,
}

var dbBackupCmd = &cobra.Command{
	Use:   "backup FILE",
	Short: "Write a full backup",
	Args:  cobra.ExactArgs(1),
	RunE:  runDBBackup,
}

var dbRestoreCmd = &cobra.Command{
	Use:   "restore FILE",
	Short: "Load a backup into the database",
	Args:  cobra.ExactArgs(1),
	RunE:  runDBRestore,
}

func init() {
	dbCmd.AddCommand(dbCheckCmd, dbBackupCmd, dbRestoreCmd)
	rootCmd.AddCommand(dbCmd)
}

func runDBCheck(cmd *cobra.Command, args []string) error {
	status := storage.CheckDatabaseIntegrity(ctx.DB)
	err := emit(status, func(c *output.CLIFormatter) {
		if status.Healthy {
			c.Success(fmt.Sprintf("Database healthy (%d keys probed)", status.KeysProbed))
			return
		}
		c.Error(fmt.Sprintf("Database has %d problem(s)", status.ErrorCount))
		for _, e := range status.Errors {
			c.Muted("  " + e)
		}
	})
	if err != nil {
		return err
	}
	if !status.Healthy {
		return derrors.NewSystemError("database integrity check failed", nil)
	}
	return nil
}

func runDBBackup(cmd *cobra.Command, args []string) error {
	f, err := os.Create(args[0])
	if err != nil {
		return derrors.NewValidationErrorWithValue("file", args[0], err.Error(), nil)
	}

	version, err := ctx.DB.Backup(f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return runtime.WrapDiskFullError(err, "backup", args[0])
	}
	return done(fmt.Sprintf("Backup written to %s (version %d)", args[0], version),
		map[string]any{"file": args[0], "version": version})
}

func runDBRestore(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return derrors.NewValidationErrorWithValue("file", args[0], err.Error(), nil)
	}
	defer f.Close()

	if err := ctx.DB.Restore(f); err != nil {
		return runtime.WrapDiskFullError(err, "restore", ctx.DB.Path())
	}
	ctx.Journal.ClearCache()
	return done("Restored "+args[0], map[string]string{"file": args[0]})
}
