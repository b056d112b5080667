package main

import (
	"os"

	"github.com/spf13/cobra"

	"pressroom/cmd/pressroom/agents"
	"pressroom/cmd/pressroom/dispatch"
	"pressroom/cmd/pressroom/gateway"
	"pressroom/cmd/pressroom/route"
	"pressroom/internal/logger"
)

func main() {
	logger.Init()
	rootCmd := &cobra.Command{
		Use:   "pressroom",
		Short: "Pressroom routes task requests to specialized agent profiles",
	}

	rootCmd.AddCommand(dispatch.Cmd)
	rootCmd.AddCommand(route.Cmd)
	rootCmd.AddCommand(agents.Cmd)
	rootCmd.AddCommand(gateway.Cmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
