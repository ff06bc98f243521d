package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/philjestin/pathresolver/internal/resolver"
)

var classifyOut string

// classifyCmd prints the variant picked for the launch configuration and the
// options its resolver is built from.
var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Show which resolver a launch configuration gets and its options",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		st := a.session.Current()
		v := resolver.Classify(st.Config)
		var opts resolver.Options
		switch r := st.Resolver.(type) {
		case *resolver.NodeResolver:
			opts = r.Options()
		case *resolver.BrowserResolver:
			opts = r.Options()
		case *resolver.BlazorResolver:
			opts = r.Options()
		}

		return emit(classifyOut, struct {
			Name    string           `json:"name,omitempty"`
			Type    string           `json:"type"`
			Variant resolver.Variant `json:"variant"`
			Options resolver.Options `json:"options"`
		}{st.Config.Name, string(st.Config.Type), v, opts})
	},
}

func init() {
	rootCmd.AddCommand(classifyCmd)
	classifyCmd.Flags().StringVar(&classifyOut, "out", "", "write JSON to file")
}
