package domain

import "time"

// ExportEvent announces a finished export to downstream consumers.
type ExportEvent struct {
	SessionID  string    `json:"session_id"`
	Filename   string    `json:"filename"`
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	Size       int       `json:"size"`
	URL        string    `json:"url,omitempty"`
	ExportedAt time.Time `json:"exported_at"`
}

const PathPrefixExports = "exports/"

// ExportObjectKey is the storage key of an export taken at the given time.
func ExportObjectKey(sessionID string, at time.Time) string {
	return PathPrefixExports + sessionID + "/" + at.UTC().Format("20060102T150405.000Z") + "-" + ExportFilename
}
