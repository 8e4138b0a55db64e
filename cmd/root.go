package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "intervio",
	Short: "Adaptive technical interview in your terminal",
	Long: "intervio runs a technical interview: it evaluates every answer, adapts the next question " +
		"to the candidate and writes a structured feedback report at the end.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInterview(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Config file (default is intervio.yaml in the current directory)")
	pf.String("db", "", "Path to SQLite database file (overrides INTERVIO_DB)")
	pf.BoolP("debug", "d", false, "Verbose/debug logging")
	pf.BoolP("json", "j", false, "JSON log format")

	addContextFlags(rootCmd)

	rootCmd.AddCommand(scenarioCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}
