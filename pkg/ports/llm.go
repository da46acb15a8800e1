package ports

import "context"

// Completer is the text-completion capability the workflow steps consume.
// Which model sits behind it is irrelevant to the engine; steps embed any
// formatting instructions in the prompt itself.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// CompleterFunc adapts a plain function to the Completer interface.
type CompleterFunc func(ctx context.Context, prompt string) (string, error)

// Complete implements Completer.
func (f CompleterFunc) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}
