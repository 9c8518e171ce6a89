package types

import (
	"time"
)

// Direction of a transfer
type Direction string

const (
	DirectionExport Direction = "export"
	DirectionImport Direction = "import"
)

// Valid reports whether d is a known direction.
func (d Direction) Valid() bool {
	return d == DirectionExport || d == DirectionImport
}

// TransferRecord is one entry of the transfer history.
type TransferRecord struct {
	ID          string    `json:"id"`
	Direction   Direction `json:"direction"`
	Tag         string    `json:"tag"`
	Label       string    `json:"label"`
	Path        string    `json:"path"`
	Size        int       `json:"size"`
	Fingerprint string    `json:"fingerprint,omitempty"`
	Pretty      bool      `json:"pretty,omitempty"`
	Time        time.Time `json:"time"`
	Host        string    `json:"host,omitempty"`
	Payload     string    `json:"payload,omitempty"`
	Compressed  bool      `json:"compressed,omitempty"`
}

// HasPayload reports whether a snapshot of the transferred data was kept.
func (r *TransferRecord) HasPayload() bool {
	return r != nil && r.Payload != ""
}

// HistoryFilter narrows a history listing. Zero values match everything.
type HistoryFilter struct {
	Limit     int
	Direction Direction
	Tag       string
	Since     time.Time
}

// Match reports whether r passes the filter, ignoring Limit.
func (f HistoryFilter) Match(r *TransferRecord) bool {
	if f.Direction != "" && r.Direction != f.Direction {
		return false
	}
	if f.Tag != "" && r.Tag != f.Tag {
		return false
	}
	if !f.Since.IsZero() && r.Time.Before(f.Since) {
		return false
	}
	return true
}
