package domain

import "time"

// AttachmentReference links an uploaded file to a request. Rows are
// created at submission time and never mutated; deleting the request
// cascades. Actual file storage lives behind the storage key.
type AttachmentReference struct {
	ID           int64
	RequestID    int64
	StorageKey   string
	FileName     string
	MimeType     string
	SizeBytes    int64
	UploadedByID *int64
	CreatedAt    time.Time
}
