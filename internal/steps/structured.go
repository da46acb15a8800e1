package steps

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/quentel/fitflow/pkg/domain"
)

// completeStructured asks the LLM for a JSON document matching T,
// validates it, and retries exactly once with a corrective prompt on
// malformed output. A second failure surfaces ErrSchemaValidation;
// silently accepting malformed data is not an option.
func completeStructured[T any](ctx context.Context, tb *Toolbox, prompt string, validate func(*T) error) (*T, error) {
	out, err := attemptStructured[T](ctx, tb, prompt, validate)
	if err == nil {
		return out, nil
	}

	tb.logger().Warn("structured completion failed, retrying once", "err", err)
	corrective := fmt.Sprintf(
		"%s\n\nYour previous reply could not be parsed: %v.\nRespond with ONLY a valid JSON object matching the requested schema, no prose and no code fences.",
		prompt, err,
	)
	out, retryErr := attemptStructured[T](ctx, tb, corrective, validate)
	if retryErr != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSchemaValidation, retryErr)
	}
	return out, nil
}

func attemptStructured[T any](ctx context.Context, tb *Toolbox, prompt string, validate func(*T) error) (*T, error) {
	raw, err := tb.LLM.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var out T
	if err := json.Unmarshal([]byte(extractJSON(raw)), &out); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if validate != nil {
		if err := validate(&out); err != nil {
			return nil, err
		}
	}
	return &out, nil
}

// extractJSON strips prose and Markdown code fences around the first
// JSON object or array in a completion.
func extractJSON(s string) string {
	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return s
	}
	var end int
	if s[start] == '{' {
		end = strings.LastIndex(s, "}")
	} else {
		end = strings.LastIndex(s, "]")
	}
	if end <= start {
		return s
	}
	return s[start : end+1]
}
