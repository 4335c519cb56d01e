package cmd

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/arcanaland/cardhouse/internal/config"
)

// configCmd represents the config command group
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or initialize the configuration",
}

func configPath() string {
	if configFlag != "" {
		return configFlag
	}
	return config.GetConfigFilePath()
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default config file and create the data directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath()
		force, _ := cmd.Flags().GetBool("force")
		if _, err := os.Stat(path); err == nil && !force {
			return fmt.Errorf("config file already exists at %s (use --force to overwrite)", path)
		}

		cfg := config.Default()
		if err := config.SaveConfigTo(path, cfg); err != nil {
			return err
		}
		fmt.Println("Config file initialized at:", path)

		if dataDirFlag != "" {
			cfg.DataDir = dataDirFlag
		}
		if _, err := openStore(cfg); err != nil {
			return err
		}
		fmt.Println("Data directory initialized at:", cfg.DataPath())
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		fmt.Printf("# %s\n", configPath())
		fmt.Printf("# data: %s\n\n", cfg.DataPath())
		return toml.NewEncoder(os.Stdout).Encode(cfg)
	},
}

func init() {
	RootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)

	configInitCmd.Flags().Bool("force", false, "overwrite an existing config file")
}
