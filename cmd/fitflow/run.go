package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/quentel/fitflow/internal/render"
	"github.com/quentel/fitflow/pkg/domain"
	"github.com/spf13/cobra"
)

// runCmd drives an interactive coaching session in the terminal.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Generate a workout plan interactively",
	Long: `Collects your goal and constraints, generates a weekly schedule and
nutrition plan, and lets you approve the draft or request changes.`,
	Run: func(cmd *cobra.Command, args []string) {
		offline, _ := cmd.Flags().GetBool("offline")

		inputs := collectInputs(cmd)
		opts := coachOptions{offline: offline}
		if offline {
			opts.extra = offlineOptions(inputs)
		}
		coach, _, _ := buildCoach(cmd, opts)

		userInput := fmt.Sprintf(
			"Goal: %s. Current Level: %s. Time: %d mins/day. Days: %d days/week. Equipment: %s.",
			inputs.goal, inputs.current, inputs.timePerDay, inputs.daysPerWeek, inputs.equipment,
		)

		fmt.Println("Generating your personalized plan... This may take a minute.")
		ctx := cmd.Context()
		id, state, err := coach.Generate(ctx, userInput, inputs.includeYouTube)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		reader := bufio.NewReader(os.Stdin)
		for {
			switch state.Status {
			case domain.StatusAwaitingApproval:
				showDraft(state)
				fmt.Print("\n[a]pprove, [q]uit, or type feedback to request changes: ")
				line, _ := reader.ReadString('\n')
				line = strings.TrimSpace(line)

				switch line {
				case "":
					continue
				case "q", "quit":
					fmt.Printf("Session %s is paused; resume it later with 'fitflow session resume %s'.\n", id, id)
					return
				case "a", "approve":
					state, err = coach.Approve(ctx, id)
				default:
					fmt.Println("Updating plan based on feedback...")
					state, err = coach.RequestChanges(ctx, id, line)
				}
				if err != nil && state == nil {
					fmt.Printf("Error: %v\n", err)
					os.Exit(1)
				}

			case domain.StatusSaved:
				fmt.Printf("\n%s\n", state.Result)
				fmt.Printf("Plan saved; artifact written as %s.\n", render.ArtifactName)
				return

			case domain.StatusExhausted:
				fmt.Printf("\n%s\n", state.Result)
				return

			default:
				fmt.Printf("\nRun failed: %s\n", state.Result)
				_ = coach.Delete(ctx, id)
				os.Exit(1)
			}
		}
	},
}

type runInputs struct {
	goal           string
	current        string
	timePerDay     int
	daysPerWeek    int
	equipment      string
	includeYouTube bool
}

func collectInputs(cmd *cobra.Command) runInputs {
	inputs := runInputs{}
	inputs.goal, _ = cmd.Flags().GetString("goal")
	inputs.current, _ = cmd.Flags().GetString("current")
	inputs.timePerDay, _ = cmd.Flags().GetInt("time")
	inputs.daysPerWeek, _ = cmd.Flags().GetInt("days")
	inputs.equipment, _ = cmd.Flags().GetString("equipment")
	inputs.includeYouTube, _ = cmd.Flags().GetBool("youtube")

	reader := bufio.NewReader(os.Stdin)
	if inputs.goal == "" {
		inputs.goal = prompt(reader, "Enter your fitness goal (e.g., '1 muscle up'): ", "")
	}
	if inputs.current == "" {
		inputs.current = prompt(reader, "Enter your current fitness level (e.g., '10 pull ups'): ", "")
	}
	if !cmd.Flags().Changed("time") {
		inputs.timePerDay = promptInt(reader, "Time available per day in mins (default 30, minimum 10): ", 30, domain.MinTimePerDay)
	}
	if !cmd.Flags().Changed("days") {
		inputs.daysPerWeek = promptInt(reader, "Workout days per week (default 3): ", 3, 1)
	}
	if inputs.equipment == "" {
		inputs.equipment = prompt(reader, "Equipment available (default 'none'): ", "none")
	}
	if !cmd.Flags().Changed("youtube") {
		answer := prompt(reader, "Do you want YouTube video links? (y/n): ", "y")
		inputs.includeYouTube = strings.HasPrefix(strings.ToLower(answer), "y")
	}
	inputs.clamp()
	return inputs
}

// clamp snaps out-of-range constraint values back to the defaults, so
// flag input gets the same floors as the interactive prompts.
func (in *runInputs) clamp() {
	if in.timePerDay < domain.MinTimePerDay {
		in.timePerDay = domain.DefaultTimePerDay
	}
	if in.daysPerWeek < 1 || in.daysPerWeek > 7 {
		in.daysPerWeek = domain.DefaultDaysPerWeek
	}
}

func prompt(reader *bufio.Reader, question, fallback string) string {
	fmt.Print(question)
	line, _ := reader.ReadString('\n')
	line = strings.TrimSpace(line)
	if line == "" {
		return fallback
	}
	return line
}

func promptInt(reader *bufio.Reader, question string, fallback, floor int) int {
	line := prompt(reader, question, "")
	n, err := strconv.Atoi(line)
	if err != nil || n < floor {
		return fallback
	}
	return n
}

func showDraft(state *domain.WorkflowState) {
	renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle())
	display := func(markdown string) {
		if renderer == nil || err != nil {
			fmt.Println(markdown)
			return
		}
		out, renderErr := renderer.Render(markdown)
		if renderErr != nil {
			fmt.Println(markdown)
			return
		}
		fmt.Print(out)
	}

	display(render.ScheduleSummary(state.Schedule))
	display(render.NutritionSummary(state.Nutrition))
	if state.Result != "" {
		fmt.Println(state.Result)
	}
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("goal", "", "Fitness goal (prompted when omitted)")
	runCmd.Flags().String("current", "", "Current fitness level (prompted when omitted)")
	runCmd.Flags().Int("time", 30, "Minutes available per day")
	runCmd.Flags().Int("days", 3, "Workout days per week")
	runCmd.Flags().String("equipment", "", "Available equipment, comma separated")
	runCmd.Flags().Bool("youtube", true, "Include YouTube video links in resources")
	runCmd.Flags().Bool("offline", false, "Run with canned responses instead of live LLM and search providers")

	rootCmd.Run = runCmd.Run
	rootCmd.Flags().AddFlagSet(runCmd.Flags())
}
