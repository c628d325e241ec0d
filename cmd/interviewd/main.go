package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/mohammad-safakhou/interviewd/config"
	"github.com/mohammad-safakhou/interviewd/internal/server"
)

func main() {
	_ = godotenv.Load()

	root := &cobra.Command{Use: "interviewd"}
	root.AddCommand(serveCMD(), interviewCMD())
	if err := root.Execute(); err != nil {
		log.Fatalf("interviewd: %v", err)
	}
}

func serveCMD() *cobra.Command {
	var cfgPath string
	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(cfgPath)
			if err != nil {
				return err
			}
			return server.Run(cfg)
		},
	}
	serve.Flags().StringVarP(&cfgPath, "config", "c", "", "config file (default searches ./config and .)")
	return serve
}
