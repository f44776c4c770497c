package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"coursetrack/services/certificate"
	"coursetrack/utils"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Open pending certificates for every completed enrollment",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup(cmd)
		if err != nil {
			return err
		}
		be, err := openBackend(cfg, log)
		if err != nil {
			return err
		}
		defer be.Close()

		n, err := certificate.NewService(be, utils.NewNotifier(cfg, log), log).Sweep(cmd.Context())
		if err != nil {
			return err
		}
		log.Info("certificate sweep finished", zap.Int("created", n))
		fmt.Fprintf(cmd.OutOrStdout(), "%d pending certificate(s) created\n", n)
		return nil
	},
}
