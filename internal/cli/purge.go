package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"peerprep/interview/internal/config"
	"peerprep/interview/internal/store"
)

func newPurgeCommand() *cobra.Command {
	var confirm bool
	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete every interview document from the store",
		Long: `Purge removes all accounts, tests, candidates, interviews and sessions
written by the interview service from the configured store. It cannot be undone.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirm {
				return errors.New("refusing to purge without --yes")
			}
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			backend, closeBackend, err := store.Open(cfg.Store)
			if err != nil {
				return err
			}
			defer closeBackend()

			if err := backend.Purge(cmd.Context()); err != nil {
				return fmt.Errorf("purging %s store: %w", cfg.Store.Backend, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Purged %s store.\n", cfg.Store.Backend)
			return nil
		},
	}
	cmd.Flags().BoolVar(&confirm, "yes", false, "Confirm the purge")
	return cmd
}
