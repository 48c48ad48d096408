package httphandler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ericfisherdev/echochamber/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// SubmitRequest is the JSON body for the submission endpoints.
type SubmitRequest struct {
	Message string `json:"message"`
}

// SubmitResponse carries the id assigned to a new suggestion.
type SubmitResponse struct {
	ID int64 `json:"id"`
}

// LoginRequest is the JSON body for the login endpoint. Username is accepted
// as an alias for Email.
type LoginRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse reports whether the credentials matched.
type LoginResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// DeleteRequest is the JSON body for the delete endpoints. Username is only
// read by the per-account route.
type DeleteRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// MessageResponse is a plain confirmation body.
type MessageResponse struct {
	Message string `json:"message"`
}

// SuggestionResponse is the JSON representation of a suggestion.
type SuggestionResponse struct {
	ID        int64  `json:"id"`
	Message   string `json:"message"`
	Username  string `json:"username"`
	Timestamp string `json:"timestamp"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// toSuggestionResponse converts a domain Suggestion to its JSON representation.
func toSuggestionResponse(s model.Suggestion) SuggestionResponse {
	return SuggestionResponse{
		ID:        s.ID,
		Message:   s.Message,
		Username:  s.Username,
		Timestamp: s.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

// toSuggestionResponses converts a slice, always returning a non-nil slice so
// an empty box encodes as [] rather than null.
func toSuggestionResponses(suggestions []model.Suggestion) []SuggestionResponse {
	resp := make([]SuggestionResponse, 0, len(suggestions))
	for _, s := range suggestions {
		resp = append(resp, toSuggestionResponse(s))
	}
	return resp
}
