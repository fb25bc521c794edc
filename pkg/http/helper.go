package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	apperrors "hotelier/pkg/errors"
)

// ParseIntParam converts a path or query value to an int, reporting the
// parameter name on failure.
func ParseIntParam(name, value string) (int, error) {
	v, err := strconv.Atoi(value)
	if err != nil {
		return 0, apperrors.InvalidInput("invalid " + name + " parameter: " + value)
	}
	return v, nil
}

// DecodeJSON reads a single JSON document from the request body. Unknown
// fields are rejected.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return apperrors.New(apperrors.CodeBadRequest, "request body too large", http.StatusRequestEntityTooLarge)
		case errors.Is(err, io.EOF):
			return apperrors.InvalidInput("request body is empty")
		default:
			return apperrors.InvalidInput("invalid JSON body: " + err.Error())
		}
	}
	return nil
}
