package dispatch

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"pressroom/internal/app"
	"pressroom/internal/config"
	"pressroom/internal/dispatch"
)

var (
	explicitAgent string
	allowMulti    bool
)

var Cmd = &cobra.Command{
	Use:   "dispatch [request]",
	Short: "Route a task request to its best-matching agent",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		request := strings.Join(args, " ")

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		a, err := app.Build(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		dreq := dispatch.Request{Text: request, ExplicitName: explicitAgent}

		var decisions []*dispatch.Decision
		if allowMulti {
			decisions, err = a.Dispatcher.DispatchMulti(ctx, dreq)
		} else {
			var d *dispatch.Decision
			d, err = a.Dispatcher.Dispatch(ctx, dreq)
			if d != nil {
				decisions = []*dispatch.Decision{d}
			}
		}
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		for _, d := range decisions {
			a.Log.Record(ctx, request, d)
			if err := enc.Encode(map[string]any{
				"id":        d.ID,
				"agent":     d.AgentName(),
				"score":     d.Score,
				"reason":    string(d.Reason),
				"rationale": d.Rationale,
				"matched":   d.Matched(),
			}); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	Cmd.Flags().StringVarP(&explicitAgent, "agent", "a", "", "bypass matching and select this agent by name")
	Cmd.Flags().BoolVarP(&allowMulti, "multi", "m", false, "return every agent above the confidence threshold")
}
