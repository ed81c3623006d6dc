package domain

// AuditEntry is a completed interaction as kept in the audit log, tagged with
// the session that produced it.
type AuditEntry struct {
	SessionID string `json:"session_id"`
	InteractionRecord
}
