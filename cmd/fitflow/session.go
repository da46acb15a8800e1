package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/quentel/fitflow/pkg/domain"
	"github.com/quentel/fitflow/pkg/ports"
	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage stored coaching sessions",
	Long:  `List, inspect, resume, and remove session checkpoints in the configured store.`,
}

func getStore(cmd *cobra.Command) ports.StateStore {
	cfg := loadConfig(cmd)
	store, _ := newStore(cfg, newLogger(cfg))
	return store
}

var sessionLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List stored sessions",
	Run: func(cmd *cobra.Command, args []string) {
		store := getStore(cmd)
		sessions, err := store.List(cmd.Context())
		if err != nil {
			fmt.Printf("Error listing sessions: %v\n", err)
			os.Exit(1)
		}

		if len(sessions) == 0 {
			fmt.Println("No stored sessions found.")
			return
		}
		for _, id := range sessions {
			state, err := store.Load(cmd.Context(), id)
			if err != nil {
				fmt.Printf("- %s (unreadable: %v)\n", id, err)
				continue
			}
			fmt.Printf("- %s  status=%s  iterations=%d\n", id, state.Status, state.IterationCount)
		}
	},
}

var sessionInspectCmd = &cobra.Command{
	Use:   "inspect <session-id>",
	Short: "Print the full checkpoint of a session",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store := getStore(cmd)
		state, err := store.Load(cmd.Context(), args[0])
		if err != nil {
			fmt.Printf("Error loading session '%s': %v\n", args[0], err)
			os.Exit(1)
		}

		data, err := json.MarshalIndent(state, "", "  ")
		if err != nil {
			fmt.Printf("Error marshaling state: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(data))
	},
}

var sessionRmCmd = &cobra.Command{
	Use:   "rm <session-id>...",
	Short: "Remove one or more sessions",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store := getStore(cmd)
		hasError := false
		for _, id := range args {
			if err := store.Delete(cmd.Context(), id); err != nil {
				fmt.Printf("Error removing '%s': %v\n", id, err)
				hasError = true
			} else {
				fmt.Printf("Removed session '%s'\n", id)
			}
		}
		if hasError {
			os.Exit(1)
		}
	},
}

var sessionResumeCmd = &cobra.Command{
	Use:   "resume <session-id>",
	Short: "Approve or revise a paused session",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		approve, _ := cmd.Flags().GetBool("approve")
		feedback, _ := cmd.Flags().GetString("feedback")
		if !approve && feedback == "" {
			fmt.Println("Provide --approve or --feedback to resume a session.")
			os.Exit(1)
		}

		coach, _, _ := buildCoach(cmd, coachOptions{})
		ctx := cmd.Context()

		var (
			state *domain.WorkflowState
			err   error
		)
		if approve {
			state, err = coach.Approve(ctx, args[0])
		} else {
			state, err = coach.RequestChanges(ctx, args[0], feedback)
		}
		if err != nil && state == nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		switch state.Status {
		case domain.StatusSaved:
			fmt.Println(state.Result)
		case domain.StatusAwaitingApproval:
			showDraft(state)
			fmt.Println("\nSession is paused again; approve or send more feedback when ready.")
		default:
			fmt.Printf("Session is now %s: %s\n", state.Status, state.Result)
		}
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionLsCmd)
	sessionCmd.AddCommand(sessionInspectCmd)
	sessionCmd.AddCommand(sessionRmCmd)
	sessionCmd.AddCommand(sessionResumeCmd)

	sessionResumeCmd.Flags().Bool("approve", false, "Approve the drafted schedule")
	sessionResumeCmd.Flags().StringP("feedback", "f", "", "Revision feedback, e.g. 'less days'")
}
