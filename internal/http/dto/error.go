package dto

import "strconv"

// ErrorResponse is the body of every non-2xx response. Kind tells "cannot
// do this" (forbidden) from "cannot be done now" (conflict, invalid_state)
// from "bad input" (validation).
type ErrorResponse struct {
	Error   string `json:"error"`
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message,omitempty"`
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
