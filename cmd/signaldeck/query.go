package main

import (
	"errors"

	"github.com/newthinker/signaldeck/internal/analytics"
	"github.com/newthinker/signaldeck/internal/view"
	"github.com/spf13/cobra"
)

var signalsLatest bool

var signalsCmd = &cobra.Command{
	Use:   "signals",
	Short: "List signals from the backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(false)
		if err != nil {
			return err
		}
		defer a.Close()

		fetch := a.svc.FetchAllSignals
		if signalsLatest {
			fetch = a.svc.FetchLatestSignals
		}
		signals, err := fetch(cmd.Context())
		if err != nil {
			return err
		}
		return writeSignals(cmd.OutOrStdout(), signals)
	},
}

var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Print win-rate analytics",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(false)
		if err != nil {
			return err
		}
		defer a.Close()

		signals, err := a.svc.FetchAllSignals(cmd.Context())
		if err != nil {
			return err
		}
		return writeAnalytics(cmd.OutOrStdout(), analytics.Compute(signals))
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show bot subsystem status",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(false)
		if err != nil {
			return err
		}
		defer a.Close()

		status, err := a.svc.FetchSystemStatus(cmd.Context())
		if err != nil {
			return err
		}
		return writeStatus(cmd.OutOrStdout(), view.Indicators(status))
	},
}

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Print bot logs, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(false)
		if err != nil {
			return err
		}
		defer a.Close()

		data := view.LoadLogs(cmd.Context(), a.svc)
		if data.Phase == view.PhaseError {
			return errors.New(data.Error)
		}
		return writeLogs(cmd.OutOrStdout(), data)
	},
}

func init() {
	signalsCmd.Flags().BoolVar(&signalsLatest, "latest", false, "only the latest active signals")

	rootCmd.AddCommand(signalsCmd)
	rootCmd.AddCommand(analyticsCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(logsCmd)
}
