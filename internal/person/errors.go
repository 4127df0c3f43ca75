package person

import (
	"github.com/gojideth/Docker-compose-networks/internal/types"
)

// Person error codes. Both are internal faults: the store answered, but not
// with what the operation needs.
const (
	ErrCodePersonCreateNoRecord types.ErrorCode = "PERSON_CREATE_NO_RECORD"
	ErrCodePersonDecodeFailed   types.ErrorCode = "PERSON_DECODE_FAILED"
)

// IsInternalFault reports whether err is a person internal fault.
func IsInternalFault(err error) bool {
	switch types.CodeOf(err) {
	case ErrCodePersonCreateNoRecord, ErrCodePersonDecodeFailed:
		return true
	default:
		return false
	}
}
