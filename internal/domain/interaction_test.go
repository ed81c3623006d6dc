package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalysisRequestTrimmedKeepsQuery(t *testing.T) {
	req := AnalysisRequest{SchemaName: " dbo\t", ProcName: "  CalcRevenue ", UserQuery: "  How is Total derived?  "}

	got := req.Trimmed()

	assert.Equal(t, "dbo", got.SchemaName)
	assert.Equal(t, "CalcRevenue", got.ProcName)
	assert.Equal(t, "  How is Total derived?  ", got.UserQuery)
}

func TestAnalysisRequestComplete(t *testing.T) {
	tests := []struct {
		name string
		req  AnalysisRequest
		want bool
	}{
		{"all present", AnalysisRequest{SchemaName: "dbo", ProcName: "P", UserQuery: "q"}, true},
		{"missing schema", AnalysisRequest{ProcName: "P", UserQuery: "q"}, false},
		{"blank procedure", AnalysisRequest{SchemaName: "dbo", ProcName: "  ", UserQuery: "q"}, false},
		{"whitespace query", AnalysisRequest{SchemaName: "dbo", ProcName: "P", UserQuery: " \n\t"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.req.Complete())
		})
	}
}
