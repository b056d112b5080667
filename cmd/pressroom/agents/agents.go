package agents

import (
	"fmt"

	"github.com/spf13/cobra"

	"pressroom/internal/config"
	"pressroom/internal/profile"
	"pressroom/internal/registry"
)

var Cmd = &cobra.Command{
	Use:   "agents",
	Short: "List registered agent profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		store := registry.NewStore()
		if err := store.Reload(cmd.Context(), profile.NewDirSource(cfg.Profiles.Dir)); err != nil {
			return err
		}

		snap := store.Snapshot()
		if snap.Len() == 0 {
			fmt.Println("no profiles registered")
			return nil
		}
		for _, s := range snap.Summaries() {
			fmt.Printf("%-32s %s\n", s.Name, s.TriggerDescription)
		}
		return nil
	},
}
