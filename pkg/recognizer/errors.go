package recognizer

import "errors"

// Error codes surfaced by training and classification
const (
	ErrCodeInsufficientSamples = "INSUFFICIENT_SAMPLES"
	ErrCodeNotTrained          = "NOT_TRAINED"
	ErrCodeDimensionMismatch   = "DIMENSION_MISMATCH"
	ErrCodeInvalidConfig       = "INVALID_CONFIG"
	ErrCodeUnknownClass        = "UNKNOWN_CLASS"
)

// Sentinels for errors.Is. Every *Error matches the sentinel of its code.
var (
	ErrInsufficientSamples = errors.New("insufficient training samples")
	ErrNotTrained          = errors.New("recognizer not trained")
	ErrDimensionMismatch   = errors.New("feature vector dimension mismatch")
	ErrInvalidConfig       = errors.New("invalid recognizer configuration")
	ErrUnknownClass        = errors.New("unknown class label")
)

var sentinels = map[string]error{
	ErrCodeInsufficientSamples: ErrInsufficientSamples,
	ErrCodeNotTrained:          ErrNotTrained,
	ErrCodeDimensionMismatch:   ErrDimensionMismatch,
	ErrCodeInvalidConfig:       ErrInvalidConfig,
	ErrCodeUnknownClass:        ErrUnknownClass,
}

// Error represents a recoverable training or classification failure
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Label   Label  `json:"label,omitempty"`
	Cause   error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is the sentinel for this error's code
func (e *Error) Is(target error) bool {
	sentinel, ok := sentinels[e.Code]
	return ok && sentinel == target
}

// NewError creates a new recognizer error
func NewError(code, message string, label Label, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Label:   label,
		Cause:   cause,
	}
}
