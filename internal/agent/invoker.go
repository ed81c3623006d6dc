// Package agent turns a stored procedure and a user question into a lineage
// explanation from a text-generation model.
package agent

import (
	"context"
)

// Invoker sends one prompt to a text-generation service and returns the
// generated text. Implementations must not retry.
type Invoker interface {
	Invoke(ctx context.Context, prompt string) (string, error)
}

// InvokerFunc adapts a function to Invoker.
type InvokerFunc func(ctx context.Context, prompt string) (string, error)

// Invoke calls f.
func (f InvokerFunc) Invoke(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// Ensure AzureClient implements Invoker.
var _ Invoker = (*AzureClient)(nil)
