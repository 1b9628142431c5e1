package remote

import (
	"bytes"
	"time"

	"runtracker/internal/store"
)

// ListResponse is the body of GET /runs
type ListResponse struct {
	Success bool               `json:"success"`
	Runs    []store.RunSummary `json:"runs"`
	Error   string             `json:"error,omitempty"`
}

// SaveResponse is the body of POST /runs
type SaveResponse struct {
	Success bool      `json:"success"`
	RunID   RunID     `json:"runId,omitempty"`
	Date    time.Time `json:"date"`
	Error   string    `json:"error,omitempty"`
}

// ErrorResponse is the body of any failed request
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// RunID accepts a run id sent as either a JSON string or a number
type RunID string

func (id *RunID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	*id = RunID(bytes.Trim(data, `"`))
	return nil
}

// AuthRequest is the body of POST /auth/register and POST /auth/login
type AuthRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

// AuthResponse carries the session token issued for an account
type AuthResponse struct {
	Success bool        `json:"success"`
	Token   string      `json:"token,omitempty"`
	User    *store.User `json:"user,omitempty"`
	Error   string      `json:"error,omitempty"`
}
