package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jengzang/trackcore-go/internal/logger"
	"github.com/jengzang/trackcore-go/internal/watch"
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [DIR]",
		Short: "Import recordings dropped into a directory",
		Long: `Watch a directory and import every GPX or FIT file created in it
once the file has stopped changing. DIR defaults to --watch-dir.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := cfg.WatchDir
			if len(args) == 1 {
				dir = args[0]
			}
			if dir == "" {
				return fmt.Errorf("no directory given")
			}
			settle, err := cmd.Flags().GetDuration("settle")
			if err != nil {
				return err
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			w, err := watch.New(dir, fileImporter(a), settle, logger.L())
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return w.Run(ctx)
		},
	}
	cmd.Flags().String("watch-dir", "", "directory to watch")
	cmd.Flags().Duration("settle", watch.DefaultSettle, "time a file must stay unchanged before import")
	return cmd
}
