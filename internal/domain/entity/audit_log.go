package entity

import "time"

// AuditLog registro inmutable de una acción administrativa (base de compliance).
type AuditLog struct {
	ID           string
	ActorUserID  string
	Action       string
	ResourceType string
	ResourceID   string
	Details      map[string]any
	IPAddress    string
	CreatedAt    time.Time
}
