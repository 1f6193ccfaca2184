package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func importCmd() *cobra.Command {
	var userID uint
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import transactions from an xlsx or csv file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if userID == 0 {
				return fmt.Errorf("--user is required")
			}
			a, err := setup()
			if err != nil {
				return err
			}
			defer func() { _ = a.log.Sync() }()

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open %s: %w", args[0], err)
			}
			defer f.Close()

			summary, err := a.services.Transactions.ImportFile(cmd.Context(), userID, f, filepath.Base(args[0]))
			if err != nil {
				return err
			}
			a.log.Info("导入完成",
				zap.Uint("user_id", userID),
				zap.Int("inserted", summary.Inserted),
				zap.Int("skipped", summary.Skipped))
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d transactions, skipped %d rows\n", summary.Inserted, summary.Skipped)
			return nil
		},
	}
	cmd.Flags().UintVar(&userID, "user", 0, "导入到的用户ID")
	return cmd
}
