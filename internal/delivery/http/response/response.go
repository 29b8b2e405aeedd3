package response

import (
	"encoding/json"
	"net/http"
)

// Envelope is the response body shape shared by all endpoints
type Envelope struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Errors  []string    `json:"errors,omitempty"`
}

// JSON writes a JSON response
func JSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

// Error writes an error response with only a message
func Error(w http.ResponseWriter, statusCode int, message string) {
	JSON(w, statusCode, Envelope{Message: message})
}

// BadRequest writes a validation failure with field-level messages
func BadRequest(w http.ResponseWriter, errors []string) {
	JSON(w, http.StatusBadRequest, Envelope{
		Message: "invalid request parameters",
		Errors:  errors,
	})
}

// Success writes a 200 response with data
func Success(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusOK, Envelope{Message: "success", Data: data})
}

// Created writes a 201 response with data
func Created(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusCreated, Envelope{Message: "created", Data: data})
}

// NoContent writes an empty 204 response
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
