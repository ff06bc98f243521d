package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/philjestin/pathresolver/internal/workspace"
)

var mapOut string

// mapCmd reports the target address of every source file in the workspace.
var mapCmd = &cobra.Command{
	Use:   "map",
	Short: "Map every workspace source file to its target address",
	RunE: func(cmd *cobra.Command, args []string) error {
		// ctx lets us cancel a long walk
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		r, err := a.session.Resolver()
		if err != nil {
			return err
		}
		entries, err := workspace.MapAll(ctx, a.settings.Workspace, r)
		if err != nil {
			return err
		}
		return emit(mapOut, entries)
	},
}

func init() {
	rootCmd.AddCommand(mapCmd)
	mapCmd.Flags().StringVar(&mapOut, "out", "", "write JSON to file")
}
