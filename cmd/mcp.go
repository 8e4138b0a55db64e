package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/intervio/internal/mcpserver"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve interviews as MCP tools over stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer rt.close()

		gen := rt.newGenerator(cmd.Context())
		m := mcpserver.NewManager(func() (mcpserver.Interviewer, error) {
			return rt.newOrchestrator(gen), nil
		}, rt.logger.Named("mcp"))

		rt.logger.Info("serving MCP over stdio")
		return mcpserver.ServeStdio(mcpserver.New(m, version))
	},
}
