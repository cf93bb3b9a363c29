package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	exportList bool
	exportShow string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Archive a snapshot of signals, status and analytics",
	Long: `Loads the current data once and writes it as a JSON snapshot to the
configured archive (local directory or S3). With --list, prints the
snapshots already archived. With --show, prints the analytics stored in
an archived snapshot.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().BoolVar(&exportList, "list", false, "list archived snapshots instead of taking one")
	exportCmd.Flags().StringVar(&exportShow, "show", "", "print the analytics of the archived snapshot at `path`")
	exportCmd.MarkFlagsMutuallyExclusive("list", "show")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	arch, err := a.archiver()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if exportList {
		paths, err := arch.List(ctx)
		if err != nil {
			return err
		}
		for _, p := range paths {
			fmt.Fprintln(out, p)
		}
		return nil
	}

	if exportShow != "" {
		snap, err := arch.Load(ctx, exportShow)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Taken At: %s\n\n", snap.TakenAt.Format(time.RFC3339))
		return writeAnalytics(out, snap.Analytics)
	}

	a.store.Load(ctx)
	st := a.store.State()
	if st.Error != "" {
		return errors.New(st.Error)
	}

	p, err := arch.Archive(ctx, st)
	if err != nil {
		return err
	}
	a.log.Debug("snapshot exported", zap.String("path", p))
	fmt.Fprintln(out, p)
	return nil
}
