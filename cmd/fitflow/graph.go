package main

import (
	"fmt"
	"os"

	"github.com/quentel/fitflow/internal/workflow"
	"github.com/quentel/fitflow/pkg/domain"
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the workflow graph visualization",
	Long:  `Outputs a Mermaid diagram (graph TD) of the coaching workflow. With --session, the step the session is paused at is highlighted.`,
	Run: func(cmd *cobra.Command, args []string) {
		sessionID, _ := cmd.Flags().GetString("session")

		var state *domain.WorkflowState
		if sessionID != "" {
			store := getStore(cmd)
			loaded, err := store.Load(cmd.Context(), sessionID)
			if err != nil {
				fmt.Printf("Error loading session '%s': %v\n", sessionID, err)
				os.Exit(1)
			}
			state = loaded
		}

		fmt.Print(workflow.Mermaid(state))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("session", "", "Highlight the paused step of a stored session")
}
