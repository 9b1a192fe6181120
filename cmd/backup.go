package cmd

import (
	"fmt"
	"os"

	"github.com/nconklindev/ratoolkit/internal/backup"
	"github.com/nconklindev/ratoolkit/internal/logging"

	"github.com/spf13/cobra"
)

var backupCmd = &cobra.Command{
	Use:   "backup FILE...",
	Short: "Copy files into the backup directory",
	Long:  "Copy each file into the backup directory under a timestamped name.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runBackup,
}

func init() {
	rootCmd.AddCommand(backupCmd)
}

func runBackup(cmd *cobra.Command, args []string) error {
	log := logging.New(logging.NewConsoleSink(os.Stdout))
	service := backup.NewService(cfg.BackupDir, cfg.BackupPrefix, log)

	failed := 0
	for _, path := range args {
		if _, ok := service.BackupFile(path); !ok {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d backups failed", failed, len(args))
	}
	return nil
}
