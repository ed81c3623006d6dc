package agent

import (
	"bytes"
	"fmt"
	"text/template"
)

const lineagePromptTemplate = `You are an expert T-SQL code reviewer specializing in tracking column derivations, their source tables, and understanding complex T-SQL logic. Please analyze the following SQL stored procedure and provide detailed insights based on the user's query.

User Query: '{{.UserQuery}}'

Instructions:
1. Identify the source table and column names involved in the derivation of the specified column.
2. Explain any derivation or logic used to create the specified column.
3. Summarise the derivation of the specified column in a few sentences.
4. Verify the column names provided in the query. If any column name does not exist in the stored procedure, please highlight the error.

### Stored Procedure:
{{.SourceText}}
`

var lineageTmpl = template.Must(template.New("lineage").Parse(lineagePromptTemplate))

type promptData struct {
	UserQuery  string
	SourceText string
}

// BuildPrompt renders the lineage review prompt for one question.
func BuildPrompt(userQuery, sourceText string) (string, error) {
	var buf bytes.Buffer
	if err := lineageTmpl.Execute(&buf, promptData{UserQuery: userQuery, SourceText: sourceText}); err != nil {
		return "", fmt.Errorf("render lineage prompt: %w", err)
	}
	return buf.String(), nil
}
