package types

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound           = errors.New("requested item not found")
	ErrConflict           = errors.New("item already exists or conflict")
	ErrPreconditionFailed = errors.New("precondition failed")
	ErrStaleGroup         = errors.New("group membership changed during processing")

	ErrPromptNotFound          = errors.New("prompt not found in registry")
	ErrMissingPromptVariable   = errors.New("prompt template references an unknown variable")
	ErrUnsupportedPromptSyntax = errors.New("prompt template uses unsupported template syntax")
	ErrInvalidPromptConfig     = errors.New("invalid prompt configuration")
	ErrMissingModelConfig      = errors.New("prompt configuration is missing a model")
	ErrMalformedModelOutput    = errors.New("model output is not valid JSON")
	ErrNoCandidates            = errors.New("provider returned no candidates")
	ErrUnknownProvider         = errors.New("unknown model provider")
	ErrBadPlan                 = errors.New("plan generator did not return expected plan_options structure")
)

// Error codes surfaced to API clients.
const (
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeCreatorNotFound    = "CREATOR_NOT_FOUND"
	CodeGroupNotFound      = "GROUP_NOT_FOUND"
	CodeNoMembersFound     = "NO_MEMBERS_FOUND"
	CodeUserAlreadyExists  = "USER_ALREADY_EXISTS"
	CodeUserAlreadyInGroup = "USER_ALREADY_IN_GROUP"
	CodeKnowledgeNotReady  = "KN_NOT_READY"
	CodeLLMBadResponse     = "LLM_BAD_RESPONSE"
	CodeModelConfigMissing = "MODEL_CONFIG_MISSING"
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeInternal           = "INTERNAL_ERROR"
)

// AppError pairs a sentinel with the HTTP status and code the API reports.
type AppError struct {
	Status  int
	Code    string
	Err     error
	Details any
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	return fmt.Sprintf("api error (%d)", e.Status)
}

func (e *AppError) Unwrap() error { return e.Err }

func NewAppError(status int, code string, err error) *AppError {
	return &AppError{Status: status, Code: code, Err: err}
}

// NotFoundError wraps ErrNotFound with an entity specific code.
func NotFoundError(code, message string) *AppError {
	return NewAppError(http.StatusNotFound, code, fmt.Errorf("%s: %w", message, ErrNotFound))
}

// ConflictError wraps ErrConflict with an entity specific code.
func ConflictError(code, message string) *AppError {
	return NewAppError(http.StatusBadRequest, code, fmt.Errorf("%s: %w", message, ErrConflict))
}

// MalformedModelOutputError keeps the raw provider text for diagnosis.
type MalformedModelOutputError struct {
	Raw string
	Err error
}

func (e *MalformedModelOutputError) Error() string {
	return fmt.Sprintf("LLM did not return valid JSON (%v). Raw output was: %q", e.Err, e.Raw)
}

func (e *MalformedModelOutputError) Unwrap() []error {
	return []error{ErrMalformedModelOutput, e.Err}
}

// StatusFor maps an error from the service layer to an HTTP status and code.
func StatusFor(err error) (int, string) {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Status != 0 {
		return appErr.Status, appErr.Code
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, ""
	case errors.Is(err, ErrConflict):
		return http.StatusBadRequest, ""
	case errors.Is(err, ErrPreconditionFailed):
		return http.StatusBadRequest, CodeKnowledgeNotReady
	case errors.Is(err, ErrMissingModelConfig), errors.Is(err, ErrInvalidPromptConfig),
		errors.Is(err, ErrPromptNotFound), errors.Is(err, ErrMissingPromptVariable),
		errors.Is(err, ErrUnsupportedPromptSyntax):
		return http.StatusInternalServerError, CodeModelConfigMissing
	case errors.Is(err, ErrMalformedModelOutput), errors.Is(err, ErrNoCandidates), errors.Is(err, ErrBadPlan):
		return http.StatusBadGateway, CodeLLMBadResponse
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

// KnowledgeNotReadyError is the readiness gate failure for plan and recommendation requests.
func KnowledgeNotReadyError() *AppError {
	return NewAppError(http.StatusBadRequest, CodeKnowledgeNotReady,
		fmt.Errorf("group processing not complete: %w", ErrPreconditionFailed))
}
