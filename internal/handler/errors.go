package handler

import (
	"errors"
	"net/http"
	"strings"
)

// formError classifies a failure to read the submitted form.
// Bodies rejected by http.MaxBytesReader map to 413, anything else to 400.
func formError(err error) int {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}

// unwrapMessage extracts the human-readable part from a wrapped sentinel error.
// e.g. "service.ListService.AddItem: validation error: You can't..." → "You can't..."
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	const marker = "validation error: "
	if i := strings.LastIndex(msg, marker); i >= 0 && len(msg) > i+len(marker) {
		return msg[i+len(marker):]
	}
	return msg
}
