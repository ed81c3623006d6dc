package agent

import (
	"context"
	"fmt"
	"log/slog"
)

// Analyzer asks the model about column lineage in one stored procedure.
type Analyzer struct {
	invoker Invoker
	logger  *slog.Logger
}

// NewAnalyzer creates an analyzer backed by invoker.
func NewAnalyzer(invoker Invoker, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{invoker: invoker, logger: logger}
}

// Analyze returns the model's explanation unmodified. Model failures are
// returned to the caller as-is.
func (a *Analyzer) Analyze(ctx context.Context, sourceText, userQuery string) (string, error) {
	prompt, err := BuildPrompt(userQuery, sourceText)
	if err != nil {
		return "", err
	}

	a.logger.Debug("invoking model", "prompt_bytes", len(prompt))

	result, err := a.invoker.Invoke(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("invoke model: %w", err)
	}
	return result, nil
}
