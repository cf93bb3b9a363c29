package main

import (
	"fmt"

	"github.com/newthinker/signaldeck/internal/tui"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the terminal dashboard",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	// Logs would corrupt the screen; they go to log.file only.
	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	if err := a.store.Start(ctx); err != nil {
		return fmt.Errorf("starting store: %w", err)
	}

	return tui.Run(ctx, a.store, a.svc)
}
