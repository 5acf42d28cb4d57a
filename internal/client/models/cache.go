package models

import (
	"encoding/json"
	"time"
)

// ResourceKind identifies one of the three remote resources mirrored in the
// local store. Each kind owns exactly one row.
type ResourceKind string

const (
	ResourceProfile       ResourceKind = "profile"
	ResourceDossierStatus ResourceKind = "dossier_status"
	ResourceFormProgress  ResourceKind = "form_progress"
)

// ResourceKinds returns all mirrored resource kinds in a stable order.
func ResourceKinds() []ResourceKind {
	return []ResourceKind{ResourceProfile, ResourceDossierStatus, ResourceFormProgress}
}

// CacheEntry is one resource's last successfully fetched payload plus the
// time of that fetch. FetchedAt is monotonically non-decreasing: a failed
// refresh never clears or rolls back an existing entry.
type CacheEntry struct {
	Payload   json.RawMessage
	FetchedAt time.Time
}
