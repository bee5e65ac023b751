package httputil

import (
	"encoding/json"
	"net/http"

	dErrors "attestor/pkg/domain-errors"
)

func WriteJSON(w http.ResponseWriter, status int, response any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Errors after WriteHeader cannot change the status code, so we ignore
	// encoding errors. The response body may be incomplete, but headers are
	// already sent.
	_ = json.NewEncoder(w).Encode(response)
}

// WriteError translates domain errors to HTTP responses.
//
// Every per-request rejection collapses into one generic body regardless of
// cause: distinguishing "account not found" from "bad proof" in the response
// would let a caller enumerate accounts or probe proof internals. The
// distinct cause is logged and counted server-side only.
func WriteError(w http.ResponseWriter, err error) {
	if dErrors.IsRejection(err) {
		WriteJSON(w, http.StatusBadRequest, map[string]string{
			"error": "invalid_request",
		})
		return
	}

	WriteJSON(w, http.StatusInternalServerError, map[string]string{
		"error": string(dErrors.CodeInternal),
	})
}
