package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ssargent/omniconv/pkg/config"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Long: `Write a default configuration file.

The file is written to --config, or to the default location when --config is
not given. With --api-key a random key is generated and the HTTP server will
require it in the X-API-Key header.

Examples:
  omniconv init
  omniconv init --config ./omniconv.yaml --api-key`,
	// The config file may not exist yet, so skip loading it
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		withKey, _ := cmd.Flags().GetBool("api-key")
		force, _ := cmd.Flags().GetBool("force")

		if configPath == "" {
			configPath = config.GetDefaultConfigPath()
		}

		if config.ConfigExists(configPath) && !force {
			cmd.Printf("Configuration already exists at %s. Use --force to overwrite.\n", configPath)
			return nil
		}

		cfg, err := config.BootstrapConfig(configPath, withKey)
		if err != nil {
			return err
		}

		cmd.Printf("Wrote configuration to %s\n", configPath)
		if cfg.Security.APIKey != "" {
			cmd.Printf("API key: %s\n", cfg.Security.APIKey)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().Bool("api-key", false, "Generate an API key for the HTTP server")
	initCmd.Flags().Bool("force", false, "Overwrite an existing configuration file")
}
