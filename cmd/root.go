package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/nconklindev/ratoolkit/internal/backup"
	"github.com/nconklindev/ratoolkit/internal/config"
	"github.com/nconklindev/ratoolkit/internal/converter"
	"github.com/nconklindev/ratoolkit/internal/workflow"

	"github.com/spf13/cobra"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "ratoolkit",
	Short: "Convert Excel spreadsheets to HTML tables",
	Long: `Riot Acts Toolkit converts the first sheet of an Excel workbook into an
HTML table, backing up the source and destination files first.

Running without a command opens the interactive form.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTUI,
}

// Execute runs the command line and exits non-zero on failure.
func Execute(version, commit, date string) {
	rootCmd.Version = fmt.Sprintf("%s\ncommit: %s\nbuilt: %s", version, commit, date)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.SetVersionTemplate("ratoolkit {{.Version}}\n")
	rootCmd.PersistentFlags().String("backup-dir", "", "Directory for backup copies (default from RATOOLKIT_BACKUP_DIR or ./ratoolkit_backups)")
	rootCmd.PersistentFlags().Bool("allow-new-output", false, "Allow converting into an output file that does not exist yet")
}

func initConfig() {
	cfg = config.Load()

	if dir, _ := rootCmd.PersistentFlags().GetString("backup-dir"); dir != "" {
		cfg.BackupDir = dir
	}
	if rootCmd.PersistentFlags().Changed("allow-new-output") {
		cfg.AllowNewOutput, _ = rootCmd.PersistentFlags().GetBool("allow-new-output")
	}
}

// newController wires the converter and backup service to one logger.
func newController(log *slog.Logger) *workflow.Controller {
	return workflow.NewController(
		converter.New(log),
		backup.NewService(cfg.BackupDir, cfg.BackupPrefix, log),
		log,
		workflow.Options{AllowNewOutput: cfg.AllowNewOutput},
	)
}

func warnOutsideHome(log *slog.Logger) {
	if !cfg.InHomeDir() {
		log.Warn("This program is not being run from the default location. Backups and other output will be stored to the current directory!")
	}
}
