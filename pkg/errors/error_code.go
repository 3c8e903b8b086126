package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeMissingParameter     ErrorCode = 102
	ErrCodeInvalidStrategyPath  ErrorCode = 103
	ErrCodeEmptyTuningRanges    ErrorCode = 104

	// Remote service errors (200-299)
	ErrCodeRemoteUnavailable ErrorCode = 200
	ErrCodeRemoteRejected    ErrorCode = 201
	ErrCodeRemoteDecode      ErrorCode = 202
	ErrCodeStrategyNotFound  ErrorCode = 203

	// Workspace errors (300-399)
	ErrCodeNoActiveStrategy ErrorCode = 300
	ErrCodeTuningInFlight   ErrorCode = 301

	// Paper session errors (400-499)
	ErrCodeSessionNotFound ErrorCode = 400
)
