package workflow

import (
	"fmt"
	"strings"

	"github.com/quentel/fitflow/pkg/domain"
)

// Mermaid produces a Mermaid flowchart (graph TD) of the coaching workflow.
// It applies semantic styling:
// - Entry: ((Circle))
// - Approval gate: [/Parallelogram/] (waits for human input)
// - Terminal save: [[Subroutine]]
// - Default: [Rectangle]
// When state is non-nil its paused step is highlighted.
func Mermaid(state *domain.WorkflowState) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, n := range graph {
		opener, closer := "[", "]"
		switch n.id {
		case entryStep:
			opener, closer = "((", "))"
		case StepCreateSchedule:
			opener, closer = "[/", "/]"
		case StepSavePlan:
			opener, closer = "[[", "]]"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", n.id, opener, n.id, closer))

		for _, next := range n.next {
			arrow := "-->"
			if n.id == StepUpdateConstraints {
				// Revision loop re-enters the authoring fan-out.
				arrow = "-.->"
			}
			sb.WriteString(fmt.Sprintf("    %s %s %s\n", n.id, arrow, next))
		}
	}

	// The approval gate routes on human input rather than static successors.
	sb.WriteString(fmt.Sprintf("    %s -- \"approve\" --> %s\n", StepCreateSchedule, StepSavePlan))
	sb.WriteString(fmt.Sprintf("    %s -. \"feedback\" .-> %s\n", StepCreateSchedule, StepUpdateConstraints))

	if state != nil && state.PausedAt != "" {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		sb.WriteString(fmt.Sprintf("    class %s current;\n", state.PausedAt))
	}

	return sb.String()
}
