package provider

import (
	"errors"
	"fmt"
)

// Sentinel errors for gateway operations. Callers discriminate with
// errors.Is; vendor error types never cross the package boundary.
var (
	// ErrUnknownProvider indicates the requested provider name is not in
	// the registered set.
	ErrUnknownProvider = errors.New("unknown provider")

	// ErrBackendUnavailable indicates the provider is known but no working
	// client can be built in this environment.
	ErrBackendUnavailable = errors.New("provider backend unavailable")

	// ErrGenerationFailed indicates the vendor call itself failed
	// (network, auth, quota, malformed response).
	ErrGenerationFailed = errors.New("generation request failed")
)

// Error wraps gateway errors with the provider name and operation.
type Error struct {
	Provider string // provider name ("openai", "bedrock", ...)
	Op       string // operation that failed ("generate")
	Err      error  // underlying error
}

func (e *Error) Error() string {
	if e.Provider != "" {
		return fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Err
}
