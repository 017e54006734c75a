package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jask/realcheck/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or write the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the effective configuration to the config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Save(cfg); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", configPath())
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "config\t%s\n", configPath())
		fmt.Fprintf(w, "predict.endpoint\t%s\n", cfg.Predict.Endpoint)
		fmt.Fprintf(w, "predict.field\t%s\n", cfg.Predict.Field)
		fmt.Fprintf(w, "predict.token_env\t%s\n", cfg.Predict.TokenEnv)
		fmt.Fprintf(w, "database.path\t%s\n", cfg.Database.Path)
		fmt.Fprintf(w, "upload.max_bytes\t%d\n", cfg.Upload.MaxBytes)
		fmt.Fprintf(w, "ui.notice_duration\t%s\n", cfg.UI.NoticeDuration)
		fmt.Fprintf(w, "ui.preview_width\t%d\n", cfg.UI.PreviewWidth)
		fmt.Fprintf(w, "log.file\t%s\n", cfg.Log.File)
		w.Flush()
	},
}

func configPath() string {
	if p := os.Getenv("REALCHECK_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "realcheck", "config.toml")
}

func init() {
	configCmd.AddCommand(configInitCmd, configShowCmd)
	rootCmd.AddCommand(configCmd)
}
