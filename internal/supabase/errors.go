package supabase

import (
	"encoding/json"
	"fmt"
	"strings"
)

// APIError is the error payload PostgREST returns for a failed request.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code,omitempty"`
	Message    string `json:"message"`
	Details    string `json:"details,omitempty"`
	Hint       string `json:"hint,omitempty"`
}

func (e *APIError) Error() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "supabase API error %d", e.StatusCode)

	if e.Code != "" {
		fmt.Fprintf(&sb, " (%s)", e.Code)
	}

	if e.Message != "" {
		sb.WriteString(": " + e.Message)
	}

	if e.Details != "" {
		sb.WriteString(": " + e.Details)
	}

	return sb.String()
}

func newAPIError(status int, body []byte) *APIError {
	var payload struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details any    `json:"details"`
		Hint    any    `json:"hint"`
	}

	apiErr := &APIError{StatusCode: status}

	if err := json.Unmarshal(body, &payload); err != nil || payload.Message == "" {
		apiErr.Message = strings.TrimSpace(string(body))
		return apiErr
	}

	apiErr.Code = payload.Code
	apiErr.Message = payload.Message
	apiErr.Details = text(payload.Details)
	apiErr.Hint = text(payload.Hint)

	return apiErr
}

func text(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		b, _ := json.Marshal(v)
		return string(b)
	}
}
