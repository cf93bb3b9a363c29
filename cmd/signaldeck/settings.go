package main

import (
	"errors"
	"fmt"

	"github.com/newthinker/signaldeck/internal/core"
	"github.com/newthinker/signaldeck/internal/view"
	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Read or change the bot settings",
}

var settingsOutput string

var settingsGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the current bot settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(false)
		if err != nil {
			return err
		}
		defer a.Close()

		s, err := a.svc.FetchSettings(cmd.Context())
		if err != nil {
			return errors.New(view.SettingsLoadError)
		}
		return writeSettings(cmd.OutOrStdout(), *s, settingsOutput)
	},
}

var settingsFlags struct {
	pairs         string
	atr           string
	interval      string
	telegramToken string
	telegramGroup string
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change bot settings; unset flags keep their current value",
	Example: `  signaldeck settings set --pairs "XAUUSD, EURUSD" --interval 1h
  signaldeck settings set --atr 3`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(false)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		current := view.LoadSettings(ctx, a.svc)
		if current.Error != "" {
			return errors.New(current.Error)
		}

		form := applySettingsFlags(cmd, current.Form)
		data := view.SaveSettings(ctx, a.svc, form)
		if !data.Saved {
			return errors.New(data.Error)
		}

		fmt.Fprintln(cmd.OutOrStdout(), data.Message)
		return nil
	},
}

// applySettingsFlags overlays the flags the user set onto form.
func applySettingsFlags(cmd *cobra.Command, form core.SettingsForm) core.SettingsForm {
	flags := cmd.Flags()
	if flags.Changed("pairs") {
		form.TrackedPairs = settingsFlags.pairs
	}
	if flags.Changed("atr") {
		form.ATRMultiplier = settingsFlags.atr
	}
	if flags.Changed("interval") {
		form.SchedulerInterval = core.ScanInterval(settingsFlags.interval)
	}
	if flags.Changed("telegram-token") {
		form.TelegramToken = settingsFlags.telegramToken
	}
	if flags.Changed("telegram-group") {
		form.TelegramGroupID = settingsFlags.telegramGroup
	}
	return form
}

func init() {
	settingsGetCmd.Flags().StringVarP(&settingsOutput, "output", "o", formatTable, "output format: table, yaml or json")

	f := settingsSetCmd.Flags()
	f.StringVar(&settingsFlags.pairs, "pairs", "", "comma separated currency pairs")
	f.StringVar(&settingsFlags.atr, "atr", "", "ATR multiplier for SL/TP")
	f.StringVar(&settingsFlags.interval, "interval", "", "scan interval: 15m, 30m, 1h or 4h")
	f.StringVar(&settingsFlags.telegramToken, "telegram-token", "", "Telegram bot token")
	f.StringVar(&settingsFlags.telegramGroup, "telegram-group", "", "Telegram chat or channel id")

	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}
