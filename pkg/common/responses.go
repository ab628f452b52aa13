package common

import (
	"encoding/json"
	"net/http"
)

// Provenance values reported in the response envelope for read operations.
const (
	SourceCache    = "cache"
	SourceDatabase = "database"
)

// APIResponse represents the standard API response envelope
type APIResponse struct {
	Success    bool            `json:"success"`
	Data       interface{}     `json:"data,omitempty"`
	Message    string          `json:"message,omitempty"`
	Error      string          `json:"error,omitempty"`
	Source     string          `json:"source,omitempty"`
	Pagination *PaginationInfo `json:"pagination,omitempty"`
}

// RespondJSON sends a success envelope
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, APIResponse{
		Success: status >= 200 && status < 300,
		Data:    data,
	})
}

// RespondMessage sends a success envelope with a human-readable message
func RespondMessage(w http.ResponseWriter, status int, data interface{}, message string) {
	writeJSON(w, status, APIResponse{
		Success: status >= 200 && status < 300,
		Data:    data,
		Message: message,
	})
}

// RespondWithSource sends a success envelope tagged with data provenance
func RespondWithSource(w http.ResponseWriter, status int, data interface{}, source string) {
	writeJSON(w, status, APIResponse{
		Success: status >= 200 && status < 300,
		Data:    data,
		Source:  source,
	})
}

// RespondPaginated sends a success envelope with a pagination block
func RespondPaginated(w http.ResponseWriter, status int, data interface{}, pagination *PaginationInfo) {
	writeJSON(w, status, APIResponse{
		Success:    status >= 200 && status < 300,
		Data:       data,
		Pagination: pagination,
	})
}

// RespondError sends an error envelope
func RespondError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, APIResponse{
		Success: false,
		Error:   message,
	})
}

func writeJSON(w http.ResponseWriter, status int, response APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}

// ParseJSONBody parses a JSON request body with a size limit
func ParseJSONBody(r *http.Request, v interface{}, maxBytes int64) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBytes)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	return decoder.Decode(v)
}
