package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/ewilliams-labs/aidj/backend/internal/config"
)

func newSearchCmd(load func() (*config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Look up a single track",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			track, err := a.svc.SearchTrack(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), track)
		},
	}
}

func newRecommendCmd(load func() (*config.Config, error)) *cobra.Command {
	var (
		userID string
		limit  int
	)
	cmd := &cobra.Command{
		Use:   "recommend <query>",
		Short: "Search a seed track, expand it into recommendations and pick one",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 {
				return fmt.Errorf("--limit must not be negative")
			}
			cfg, err := load()
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			d, err := a.svc.Discover(cmd.Context(), userID, strings.Join(args, " "), limit)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), d)
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id to pick a track for")
	cmd.Flags().IntVar(&limit, "limit", 10, "number of recommendations")
	return cmd
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
