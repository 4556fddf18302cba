package domain

import "fmt"

// Error codes for the failure classes a run can abort with.
const (
	CodeAuthentication    = "AUTHENTICATION"
	CodeNetwork           = "NETWORK"
	CodeQuotaExceeded     = "QUOTA_EXCEEDED"
	CodeMalformedResponse = "MALFORMED_RESPONSE"
)

// Names of the external dependencies a failure can originate from.
const (
	DepGitHub = "github"
	DepOpenAI = "openai"
	DepSlack  = "slack"
)

// PipelineError is a run-fatal failure attributed to one external dependency.
type PipelineError struct {
	Code       string
	Dependency string
	Message    string
}

func (e *PipelineError) Error() string {
	if e.Dependency == "" {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s [%s]: %s", e.Dependency, e.Code, e.Message)
}

// Is matches on the error code, so callers can use errors.Is against the sentinels below.
func (e *PipelineError) Is(target error) bool {
	if t, ok := target.(*PipelineError); ok {
		return e.Code == t.Code
	}
	return false
}

var (
	// ErrAuthentication - invalid or expired credential for an external service.
	ErrAuthentication = &PipelineError{
		Code:    CodeAuthentication,
		Message: "authentication failed",
	}

	// ErrNetwork - connectivity or unexpected HTTP failure talking to an external service.
	ErrNetwork = &PipelineError{
		Code:    CodeNetwork,
		Message: "network failure",
	}

	// ErrQuotaExceeded - rate or quota limit hit on an external service.
	ErrQuotaExceeded = &PipelineError{
		Code:    CodeQuotaExceeded,
		Message: "quota exceeded",
	}

	// ErrMalformedResponse - a dependency answered with an unparseable or impossible shape.
	ErrMalformedResponse = &PipelineError{
		Code:    CodeMalformedResponse,
		Message: "malformed response",
	}
)

// NewAuthenticationError creates an AUTHENTICATION error for the given dependency.
func NewAuthenticationError(dependency, format string, args ...any) *PipelineError {
	return &PipelineError{Code: CodeAuthentication, Dependency: dependency, Message: fmt.Sprintf(format, args...)}
}

// NewNetworkError creates a NETWORK error for the given dependency.
func NewNetworkError(dependency, format string, args ...any) *PipelineError {
	return &PipelineError{Code: CodeNetwork, Dependency: dependency, Message: fmt.Sprintf(format, args...)}
}

// NewQuotaExceededError creates a QUOTA_EXCEEDED error for the given dependency.
func NewQuotaExceededError(dependency, format string, args ...any) *PipelineError {
	return &PipelineError{Code: CodeQuotaExceeded, Dependency: dependency, Message: fmt.Sprintf(format, args...)}
}

// NewMalformedResponseError creates a MALFORMED_RESPONSE error for the given dependency.
func NewMalformedResponseError(dependency, format string, args ...any) *PipelineError {
	return &PipelineError{Code: CodeMalformedResponse, Dependency: dependency, Message: fmt.Sprintf(format, args...)}
}
