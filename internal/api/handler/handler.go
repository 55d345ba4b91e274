package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"codetrek/internal/api/middleware"
	"codetrek/internal/common"
)

// decodeJSON reads an optional JSON body into dst. An empty body leaves dst zeroed.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return false
	}
	return true
}

// requireUser fetches the caller set by middleware.Authenticator.
func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
	}
	return userID, ok
}
