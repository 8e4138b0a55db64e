package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/intervio/internal/scenario"
)

var scenarioCmd = &cobra.Command{
	Use:   "scenario [file]",
	Short: "Replay a scripted candidate dialogue",
	Long: "Replays a YAML or JSON scenario (name, context, dialogue) through a full interview " +
		"and prints the transcript and feedback. Without a file the built-in sample is used.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sc := scenario.Sample()
		if len(args) == 1 {
			var err error
			if sc, err = scenario.Load(args[0]); err != nil {
				return err
			}
		}

		rt, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer rt.close()

		asJSON, _ := cmd.Flags().GetBool("output-json")
		quiet := asJSON

		runner := &scenario.Runner{
			LogsDir: rt.cfg.LogsDir,
			Logger:  rt.logger,
			OnExchange: func(ex scenario.Exchange) {
				if quiet {
					return
				}
				fmt.Printf("\n[%d] Candidate: %s\n", ex.Turn, ex.User)
				fmt.Printf("    Interviewer: %s\n", ex.Reply)
			},
		}

		if !quiet {
			fmt.Printf("Scenario: %s\n", sc.Name)
			if sc.Description != "" {
				fmt.Println(sc.Description)
			}
			fmt.Println(strings.Repeat("─", 60))
		}

		orch := rt.newOrchestrator(rt.newGenerator(cmd.Context()))
		res, err := runner.Run(cmd.Context(), orch, sc)
		if err != nil {
			return err
		}

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		}

		fmt.Println()
		fmt.Println(strings.Repeat("─", 60))
		fmt.Print(res.Feedback.Text())
		if res.LogFile != "" {
			fmt.Println("\nSession saved to", res.LogFile)
		}
		return nil
	},
}

func init() {
	scenarioCmd.Flags().Bool("output-json", false, "Print the result as JSON")
}
