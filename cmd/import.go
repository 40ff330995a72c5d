package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jengzang/trackcore-go/internal/watch"
)

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE...",
		Short: "Import GPX or FIT recordings",
		Long: `Import GPX or FIT recordings as activities. The format is detected
from the content. Every stored route is searched in each new activity.
A failing file does not stop the others.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			var errs []error
			for _, path := range args {
				activity, err := a.svc.Imports.ImportFile(cmd.Context(), path)
				if err != nil {
					errs = append(errs, err)
					continue
				}
				s := activity.Stats
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\t%.0f m\t%s\n",
					activity.ID, activity.Name, activity.Category, s.Distance, formatMillis(s.TotalTime))
			}
			return errors.Join(errs...)
		},
	}
}

func fileImporter(a *app) watch.Importer {
	return watch.ImporterFunc(func(ctx context.Context, path string) error {
		_, err := a.svc.Imports.ImportFile(ctx, path)
		return err
	})
}

func formatMillis(ms int64) string {
	s := ms / 1000
	return fmt.Sprintf("%d:%02d:%02d", s/3600, s/60%60, s%60)
}
