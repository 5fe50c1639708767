package main

import (
	"fmt"
	"os"

	"go-leave/internal/config"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "leavectl",
	Short: "Leave tracker operations",
	Long:  `Schema migrations and account provisioning for the leave tracker.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		_ = godotenv.Load()
	},
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}
