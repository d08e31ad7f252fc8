package mail

import "errors"

// Domain errors for mail-provider operations.
var (
	// ErrIngestion indicates a malformed email record that must not enter the pipeline.
	ErrIngestion = errors.New("email record rejected at ingestion")
	// ErrNoToken indicates a missing or unreadable OAuth token file.
	ErrNoToken = errors.New("gmail token unavailable")
	// ErrSend indicates the provider rejected an outbound reply.
	ErrSend = errors.New("gmail send failed")
)
