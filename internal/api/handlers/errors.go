package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"Cignito/internal/validation"
)

// Error codes of the result envelope
const (
	CodeUnauthenticated   = "Unauthenticated"
	CodeUnauthorized      = "Unauthorized"
	CodeSelfVoteForbidden = "SelfVoteForbidden"
	CodeNotFound          = "NotFound"
	CodeInvalidRequest    = "InvalidRequest"
	CodeConflict          = "Conflict"
	CodePersistence       = "PersistenceFailure"
)

// maxBodyBytes bounds JSON request bodies
const maxBodyBytes = 1 << 20

// WriteError writes a standardized JSON error envelope
func WriteError(w http.ResponseWriter, statusCode int, errorType, message string) {
	WriteJSON(w, statusCode, map[string]interface{}{
		"status":  "ERROR",
		"error":   errorType,
		"message": message,
	})
}

// WriteSuccess writes a SUCCESS envelope carrying fields
func WriteSuccess(w http.ResponseWriter, statusCode int, fields map[string]interface{}) {
	body := map[string]interface{}{"status": "SUCCESS"}
	for k, v := range fields {
		body[k] = v
	}
	WriteJSON(w, statusCode, body)
}

// WriteJSON encodes v as the response body
func WriteJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// DecodeJSON reads a JSON body into dst, writing a 400 and returning false on failure
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		WriteError(w, http.StatusBadRequest, CodeInvalidRequest, "Invalid request body")
		return false
	}
	return true
}

// WriteValidationError writes a 400 when err is a validation failure and
// reports whether it did
func WriteValidationError(w http.ResponseWriter, err error) bool {
	var ve *validation.Error
	if !errors.As(err, &ve) {
		return false
	}
	WriteError(w, http.StatusBadRequest, CodeInvalidRequest, validationMessage(ve))
	return true
}

// WriteInvalidRequest always answers 400, with the field message when err is a
// validation failure and a generic one otherwise
func WriteInvalidRequest(w http.ResponseWriter, err error) {
	if WriteValidationError(w, err) {
		return
	}
	log.Printf("Request validation failed: %v", err)
	WriteError(w, http.StatusBadRequest, CodeInvalidRequest, "Invalid request")
}

func validationMessage(ve *validation.Error) string {
	switch ve.Reason {
	case "required", "notblank":
		return fmt.Sprintf("%s is required", ve.Field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", ve.Field, ve.Param)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", ve.Field, ve.Param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", ve.Field, ve.Param)
	}
	return fmt.Sprintf("%s is invalid", ve.Field)
}
