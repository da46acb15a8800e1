package steps

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/quentel/fitflow/pkg/domain"
)

// SearchExercises is a placeholder for a dedicated exercise search;
// ProcessResources does the actual gathering.
func SearchExercises(_ context.Context, _ *Toolbox, state domain.WorkflowState) (domain.Update, error) {
	if state.Profile == nil {
		return domain.Update{}, nil
	}
	return domain.Update{Resources: []domain.ExerciseResource{}}, nil
}

// ProcessResources searches the web for tutorials matching the goal,
// filters YouTube links when the session excludes them, and enriches
// each hit with up to three key tips. Neither search nor tip extraction
// failures abort the step; the run continues with what was gathered.
func ProcessResources(ctx context.Context, tb *Toolbox, state domain.WorkflowState) (domain.Update, error) {
	if state.Profile == nil {
		return domain.Update{}, nil
	}

	query := fmt.Sprintf("how to achieve %s progression exercises tutorial", state.Profile.Goal)
	results, err := tb.Search.Search(ctx, query, 3)
	if err != nil {
		tb.logger().Warn("web search failed, continuing without resources", "query", query, "err", err)
		return domain.Update{Resources: []domain.ExerciseResource{}}, nil
	}

	resources := make([]domain.ExerciseResource, 0, len(results))
	for _, r := range results {
		if !state.IncludeYouTube && strings.Contains(r.URL, "youtube.com") {
			continue
		}
		res := domain.ExerciseResource{Title: r.Title, URL: r.URL}
		res.KeyTips = extractTips(ctx, tb, state.Profile.Goal, r.Content)
		resources = append(resources, res)
	}
	return domain.Update{Resources: resources}, nil
}

func extractTips(ctx context.Context, tb *Toolbox, goal, content string) []string {
	if strings.TrimSpace(content) == "" {
		return nil
	}

	prompt := fmt.Sprintf(
		"Extract up to %d key tips or form cues relevant to the goal %q from this content.\n"+
			"Respond with ONLY a JSON array of short strings.\n\nContent: %s",
		domain.MaxKeyTips, goal, clip(content, 4000),
	)

	raw, err := tb.LLM.Complete(ctx, prompt)
	if err != nil {
		tb.logger().Warn("tip extraction failed", "goal", goal, "err", err)
		return nil
	}

	var tips []string
	if err := json.Unmarshal([]byte(extractJSON(raw)), &tips); err != nil {
		tb.logger().Warn("tip extraction returned malformed JSON", "goal", goal, "err", err)
		return nil
	}
	if len(tips) > domain.MaxKeyTips {
		tips = tips[:domain.MaxKeyTips]
	}
	return tips
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func mustJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(data)
}
