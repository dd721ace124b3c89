// Package respond writes the envelope shared by every portal endpoint.
package respond

import (
	"encoding/json"
	"log"
	"net/http"
)

// Envelope is the standard response wrapper. Redirect is set when the caller
// should navigate elsewhere (sign-in, home) instead of rendering the payload.
type Envelope struct {
	Code     int    `json:"code"`
	Message  string `json:"message"`
	Data     any    `json:"data,omitempty"`
	Redirect string `json:"redirect,omitempty"`
}

// JSON writes a success response.
func JSON(w http.ResponseWriter, status int, message string, data any) {
	write(w, status, Envelope{Code: status, Message: message, Data: data})
}

// Error writes a failure response.
func Error(w http.ResponseWriter, status int, message string) {
	write(w, status, Envelope{Code: status, Message: message})
}

// ErrorRedirect writes a failure response that points the caller at a
// reachable view.
func ErrorRedirect(w http.ResponseWriter, status int, message, redirect string) {
	write(w, status, Envelope{Code: status, Message: message, Redirect: redirect})
}

func write(w http.ResponseWriter, status int, payload Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("respond: encode payload failed: %v", err)
	}
}
