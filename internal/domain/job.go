package domain

import (
	"time"

	"github.com/google/uuid"
)

type ExportStatus string

const (
	ExportPending   ExportStatus = "pending"
	ExportCompleted ExportStatus = "completed"
	ExportFailed    ExportStatus = "failed"
)

// ExportJob records one PDF export attempt.
type ExportJob struct {
	ID        uuid.UUID              `json:"id"`
	Filename  string                 `json:"filename"`
	Template  string                 `json:"template"`
	Status    ExportStatus           `json:"status"`
	Error     string                 `json:"error,omitempty"`
	ErrorCode string                 `json:"error_code,omitempty"`
	SizeBytes int                    `json:"size_bytes,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}
