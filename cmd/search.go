package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jengzang/trackcore-go/internal/models"
)

func newSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search routes in stored activities",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "route ROUTE_ID",
			Short: "Search one route in every activity",
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

				found, err := a.svc.Segments.SearchRoute(cmd.Context(), id)
				printTracks(cmd, found)
				return err
			},
		},
		&cobra.Command{
			Use:   "activity ACTIVITY_ID",
			Short: "Search every route in one activity",
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

				found, err := a.svc.Segments.SearchActivity(cmd.Context(), id)
				printTracks(cmd, found)
				return err
			},
		},
	)
	return cmd
}

func printTracks(cmd *cobra.Command, tracks []models.SegmentTrack) {
	for _, t := range tracks {
		fmt.Fprintf(cmd.OutOrStdout(), "route %d\tactivity %d\t%s\t%.0f m\n",
			t.RouteID, t.ActivityID, formatMillis(t.Time), t.Distance)
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
