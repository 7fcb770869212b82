package llm

import "context"

// Oracle defines the language-model operations the core consumes. Complete
// sends one system context plus one user message and returns the free-text
// content of the first choice.
type Oracle interface {
	Complete(ctx context.Context, system, user string) (string, error)
}
