package route

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"pressroom/internal/adapter"
	"pressroom/internal/app"
	"pressroom/internal/config"
	"pressroom/internal/dispatch"
)

var explicitAgent string

var Cmd = &cobra.Command{
	Use:   "route [request]",
	Short: "Dispatch a request and run it against the selected agent",
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

		d, err := a.Dispatcher.Dispatch(ctx, dispatch.Request{Text: request, ExplicitName: explicitAgent})
		if err != nil {
			return err
		}
		a.Log.Record(ctx, request, d)

		if !d.Matched() {
			fmt.Fprintf(os.Stderr, "no match (%s): %s\n", d.Reason, d.Rationale)
			return nil
		}
		fmt.Fprintf(os.Stderr, "agent: %s (score %.2f)\n", d.AgentName(), d.Score)

		return a.Executor.Execute(ctx, d.Profile, request, func(ev adapter.Event) {
			switch ev.Type {
			case adapter.EventToken:
				fmt.Print(ev.Data)
			case adapter.EventDone:
				fmt.Println()
			}
		})
	},
}

func init() {
	Cmd.Flags().StringVarP(&explicitAgent, "agent", "a", "", "bypass matching and select this agent by name")
}
