package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/diary/internal/apperror"
	"github.com/go-chi/chi/v5"
)

const (
	msgInternal    = "Internal server error"
	msgInvalidJSON = "Invalid JSON body"
	msgInvalidID   = "Invalid id"

	maxBodyBytes = 1 << 20
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError renders err as {"error": ...}. AppErrors keep their status and
// message; anything else is logged and hidden behind a 500.
func (s *HTTPServer) writeError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := apperror.As(err)
	if !ok {
		appErr = apperror.Internal(msgInternal, err)
	}
	if appErr.Type == apperror.TypeInternal {
		s.logger.Error(r.Context(), "request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, apperror.ErrorResponse{Error: msgInternal})
		return
	}
	writeJSON(w, appErr.StatusCode(), appErr.ToResponse())
}

// decodeJSON reads the request body into v. An empty body leaves v as is,
// so missing-field checks report the usual validation message.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return apperror.New(apperror.TypeBadRequest, msgInvalidJSON, err)
	}
	return nil
}

// idParam parses the positive integer route parameter name.
func idParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.BadRequest(msgInvalidID)
	}
	return id, nil
}
