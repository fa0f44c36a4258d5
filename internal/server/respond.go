package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	stderrors "errors"

	"github.com/skovert/folio/pkg/errors"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain error codes onto HTTP statuses and renders the
// standard error body. Unknown errors become opaque 500s.
func writeError(w http.ResponseWriter, err error) {
	var rle *errors.RateLimitedError
	if stderrors.As(err, &rle) {
		if rle.RetryAfter > 0 {
			w.Header().Set("Retry-After", strconv.Itoa(rle.RetryAfter))
		}
		writeErrorBody(w, http.StatusTooManyRequests, string(errors.ErrCodeRateLimited), errors.UserMessage(err))
		return
	}

	code := errors.GetCode(err)
	status := statusFor(code)
	msg := errors.UserMessage(err)
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	writeErrorBody(w, status, string(code), msg)
}

func writeErrorBody(w http.ResponseWriter, status int, code, msg string) {
	var body errorBody
	body.Error.Code = code
	body.Error.Message = msg
	writeJSON(w, status, body)
}

func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput,
		errors.ErrCodeInvalidPath,
		errors.ErrCodeInvalidValue,
		errors.ErrCodeInvalidEmail,
		errors.ErrCodeInvalidMessage,
		errors.ErrCodeInvalidColor,
		errors.ErrCodeInvalidLink:
		return http.StatusBadRequest
	case errors.ErrCodeUnauthorized,
		errors.ErrCodeSessionExpired,
		errors.ErrCodeSessionNotFound:
		return http.StatusUnauthorized
	case errors.ErrCodeForbidden:
		return http.StatusForbidden
	case errors.ErrCodeNotFound,
		errors.ErrCodeDocumentNotFound,
		errors.ErrCodePathNotFound,
		errors.ErrCodeLinkNotFound:
		return http.StatusNotFound
	case errors.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON reads a JSON request body into v, rejecting unknown fields.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}
