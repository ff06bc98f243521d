package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/philjestin/pathresolver/internal/lookup"
)

var resolveOp string

// resolveCmd answers one or more lookups against the configured resolver.
var resolveCmd = &cobra.Command{
	Use:   "resolve <input>...",
	Short: "Map target URLs/paths to local files, or local files to the target",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch resolveOp {
		case lookup.OpToLocal, lookup.OpToRemote, lookup.OpEligible:
		default:
			return fmt.Errorf("--op must be %s, %s or %s", lookup.OpToLocal, lookup.OpToRemote, lookup.OpEligible)
		}

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
		out := make([]lookup.Response, 0, len(args))
		for i, in := range args {
			out = append(out, lookup.Answer(ctx, r, lookup.Request{ID: int64(i), Op: resolveOp, Input: in}))
		}
		return emit("", out)
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)
	resolveCmd.Flags().StringVar(&resolveOp, "op", lookup.OpToLocal, "toLocal|toRemote|eligible")
}
