package domain

import (
	"strings"
	"time"
)

// InteractionRecord captures one successful analysis run.
type InteractionRecord struct {
	ID         string    `json:"id"`
	SchemaName string    `json:"schema_name"`
	ProcName   string    `json:"proc_name"`
	UserQuery  string    `json:"user_query"`
	ResultText string    `json:"result"`
	StoredPath string    `json:"stored_path,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// AnalysisRequest is the user input for one run.
type AnalysisRequest struct {
	SchemaName string `json:"schema_name"`
	ProcName   string `json:"proc_name"`
	UserQuery  string `json:"user_query"`
}

// Complete reports whether all three inputs are present. Whitespace alone
// does not count.
func (r AnalysisRequest) Complete() bool {
	return strings.TrimSpace(r.SchemaName) != "" &&
		strings.TrimSpace(r.ProcName) != "" &&
		strings.TrimSpace(r.UserQuery) != ""
}

// Trimmed returns a copy with surrounding whitespace removed from the schema
// and procedure names. The query is kept exactly as typed.
func (r AnalysisRequest) Trimmed() AnalysisRequest {
	return AnalysisRequest{
		SchemaName: strings.TrimSpace(r.SchemaName),
		ProcName:   strings.TrimSpace(r.ProcName),
		UserQuery:  r.UserQuery,
	}
}
