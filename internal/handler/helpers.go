package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/Irenepaul17/new-log-sub000/internal/errs"
	"github.com/Irenepaul17/new-log-sub000/internal/service"
)

const maxJSONBody = 1 << 20

func readJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody))
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// fail maps a service error onto its status code. Anything without a known
// kind is logged and hidden behind a generic 500.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errs.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, errs.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, errs.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, errs.ErrInvalid):
		status = http.StatusBadRequest
	case errors.Is(err, errs.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, errs.ErrUnavailable):
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeError(w, status, "internal server error")
		return
	}
	writeError(w, status, errs.Message(err))
}

func badBody(w http.ResponseWriter) {
	writeError(w, http.StatusBadRequest, "invalid request body")
}

// pathID parses a numeric URL parameter, writing a 400 when it is not one.
func pathID(w http.ResponseWriter, r *http.Request, name string) (uint, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, name), 10, 64)
	if err != nil || id == 0 {
		writeError(w, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

func queryInt(r *http.Request, key string) int {
	n, _ := strconv.Atoi(r.URL.Query().Get(key))
	return n
}

// listFilter reads the shared list query parameters.
func listFilter(w http.ResponseWriter, r *http.Request) (service.ListFilter, bool) {
	q := r.URL.Query()
	f := service.ListFilter{
		Role:   q.Get("role"),
		Month:  q.Get("month"),
		Search: q.Get("search"),
		Status: q.Get("status"),
		Page:   queryInt(r, "page"),
		Limit:  queryInt(r, "limit"),
	}
	if raw := q.Get("userId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid userId")
			return f, false
		}
		f.UserID = uint(id)
	}
	return f, true
}

type remarksRequest struct {
	Remarks string `json:"remarks"`
}

// readRemarks accepts an empty body as no remarks.
func readRemarks(r *http.Request) (string, error) {
	var req remarksRequest
	if err := readJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return req.Remarks, nil
}
