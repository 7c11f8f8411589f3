package audit

import (
	"time"

	"github.com/thegr8lewis/health-backend/model"
)

// ClientAccessedEvent is the contract published when a sensitive client
// profile is read. Downstream consumers (SIEM, compliance reporting) key on
// EventType and SchemaVersion.
type ClientAccessedEvent struct {
	EventType     string                `json:"event_type"`
	EventID       string                `json:"event_id"`
	EventTime     time.Time             `json:"event_time"`
	SchemaVersion string                `json:"schema_version"`
	Access        model.ClientAccessLog `json:"access"`
}
