package endpoints

import (
	"encoding/json"
	"net/http"

	"github.com/jackzampolin/lessonpress/internal/agenterr"
)

// ErrorResponse is the error body for every endpoint.
type ErrorResponse = agenterr.Payload

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes an error payload with an explicit code.
func writeError(w http.ResponseWriter, status int, code agenterr.Code, msg string) {
	writeJSON(w, status, ErrorResponse{Message: msg, Code: code})
}

// writeCodedError writes err as a payload with a status derived from its code.
func writeCodedError(w http.ResponseWriter, err error) {
	p := agenterr.ToPayload(err)
	writeJSON(w, StatusFor(p.Code), p)
}

// StatusFor maps an error code to the HTTP status reported for it.
func StatusFor(code agenterr.Code) int {
	switch code {
	case agenterr.CodeInvalidRequest, agenterr.CodeInvalidClassLevel, agenterr.CodeInvalidTerm,
		agenterr.CodeRequestBuild:
		return http.StatusBadRequest
	case agenterr.CodeNotFound:
		return http.StatusNotFound
	case agenterr.CodeCanceled:
		return http.StatusGatewayTimeout
	case agenterr.CodeConnection, agenterr.CodeQueryFailed, agenterr.CodeGeneration,
		agenterr.CodeContentGeneration, agenterr.CodeContentDBUpdate:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func notInitialized(w http.ResponseWriter) {
	writeError(w, http.StatusServiceUnavailable, agenterr.CodeConnection, "server not fully initialized")
}
