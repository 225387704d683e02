package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/elettil/hospital/internal/domain/site"
	"github.com/elettil/hospital/internal/tui"
)

func browseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse the doctor directory in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			// Logs would draw over the alternate screen.
			logger := zerolog.Nop()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			dir, err := newDirectory(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer dir.Close()

			dir.doctors.SetTiers(tui.TerminalTiers)
			title := site.DefaultContent().Hospital.Name + " · Our Doctors"
			return tui.Run(tui.New(ctx, dir.doctors.NewController(), dir.doctors.Card, title))
		},
	}
}
