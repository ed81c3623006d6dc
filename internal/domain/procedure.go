// Package domain contains core domain types for the lineage service.
package domain

// ProcedureDefinition is the source text of a stored procedure as read from
// the database catalog.
type ProcedureDefinition struct {
	SchemaName string `json:"schema_name"`
	ProcName   string `json:"proc_name"`
	SourceText string `json:"source_text"`
}

// QualifiedName returns schema.proc.
func (p ProcedureDefinition) QualifiedName() string {
	return p.SchemaName + "." + p.ProcName
}
