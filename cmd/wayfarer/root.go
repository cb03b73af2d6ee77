package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"wayfarer/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "wayfarer",
	Short: "LLM-backed travel planning toolkit",
	Long:  "Plans group day trips, ranks attractions, vets vendors for scam signals, and packages flight+hotel combos from free-text requests.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional; real deployments use the environment directly.
		_ = godotenv.Load()

		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
