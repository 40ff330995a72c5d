package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jengzang/trackcore-go/internal/models"
)

func newCorrectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "correct",
		Short: "Correct the elevation data of an activity",
	}
	cmd.AddCommand(
		correctionCmd("gainloss", "Re-filter elevation gain and loss from the recorded deltas",
			func(ctx context.Context, a *app, id int64) (*models.Activity, error) {
				return a.svc.Corrections.RefilterGainLoss(ctx, id)
			}),
		correctionCmd("altitude", "Replace altitudes with the elevation service and recompute gain and loss",
			func(ctx context.Context, a *app, id int64) (*models.Activity, error) {
				return a.svc.Corrections.CorrectAltitude(ctx, id)
			}),
	)
	return cmd
}

func correctionCmd(name, short string, run func(context.Context, *app, int64) (*models.Activity, error)) *cobra.Command {
	return &cobra.Command{
		Use:   name + " ACTIVITY_ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			activity, err := run(cmd.Context(), a, id)
			if err != nil {
				return err
			}
			s := activity.Stats
			fmt.Fprintf(cmd.OutOrStdout(), "activity %d: gain %s m, loss %s m\n",
				activity.ID, formatOptional(s.ElevationGain), formatOptional(s.ElevationLoss))
			return nil
		},
	}
}

func formatOptional(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", *v)
}
