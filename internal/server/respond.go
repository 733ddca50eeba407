package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	apperr "github.com/matzehuels/gitlanes/pkg/errors"
	"github.com/matzehuels/gitlanes/pkg/observability"
	"github.com/matzehuels/gitlanes/pkg/store"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    apperr.Code `json:"code"`
	Message string      `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err to a status through its error code. Errors without a
// code are internal and their text is not echoed to the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, store.ErrNotFound) {
		err = apperr.Wrap(apperr.ErrCodeSnapshotNotFound, err, "snapshot not found")
	}
	code := apperr.GetCode(err)
	msg := apperr.UserMessage(err)
	if code == "" {
		code = apperr.ErrCodeInternal
		msg = "internal error"
	}
	status := apperr.HTTPStatus(code)
	if status >= http.StatusInternalServerError {
		observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
	}
	writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: msg}})
}

func badRequest(format string, args ...any) error {
	return apperr.New(apperr.ErrCodeInvalidInput, format, args...)
}

func notFound(format string, args ...any) error {
	return apperr.New(apperr.ErrCodeNotFound, format, args...)
}

// decodeBody decodes a JSON request body into v, rejecting unknown fields.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return apperr.Wrap(apperr.ErrCodeInvalidInput, err, "decode request body: %s", err)
	}
	return nil
}

var contentTypes = map[string]string{
	"json": "application/json",
	"svg":  "image/svg+xml",
	"text": "text/plain; charset=utf-8",
	"dot":  "text/vnd.graphviz",
	"png":  "image/png",
	"pdf":  "application/pdf",
}

func writeArtifact(w http.ResponseWriter, format string, data []byte) {
	ct, ok := contentTypes[format]
	if !ok {
		ct = "application/octet-stream"
	}
	w.Header().Set("Content-Type", ct)
	w.Header().Set("Content-Length", fmt.Sprint(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
