package cmd

import (
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "uire",
	Short: "Intent resolution engine for underspecified requests",
	Long: `uire resolves underspecified natural-language requests into structured,
machine-actionable intents. It detects missing decision criteria, asks at
most two targeted clarification questions, and merges the answers with
remembered per-user preferences into a final directive and prompt.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".uire.yml", "config file path")
}
