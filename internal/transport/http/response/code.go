package response

import "net/http"

// Machine codes for failures raised by the HTTP layer itself. Domain errors
// carry their own codes.
const (
	ErrCodeInvalidInput    = "invalid_input"
	ErrCodeUnauthenticated = "unauthenticated"
	ErrCodeForbidden       = "forbidden"
	ErrCodeNotFound        = "not_found"
	ErrCodeTooLarge        = "payload_too_large"
	ErrCodeTooMany         = "too_many_requests"
	ErrCodeBusy            = "server_busy"
	ErrCodeTimeout         = "timeout"
	ErrCodeInternal        = "internal"
)

// CodeMsgMap holds the default msg per HTTP status.
var CodeMsgMap = map[int]string{
	http.StatusOK:                    "OK",
	http.StatusCreated:               "Created",
	http.StatusBadRequest:            "Bad Request",
	http.StatusUnauthorized:          "Unauthorized",
	http.StatusForbidden:             "Forbidden",
	http.StatusNotFound:              "Not Found",
	http.StatusConflict:              "Conflict",
	http.StatusRequestEntityTooLarge: "Request Entity Too Large",
	http.StatusTooManyRequests:       "Too Many Requests",
	http.StatusInternalServerError:   "Internal Server Error",
	http.StatusServiceUnavailable:    "Service Unavailable",
	http.StatusGatewayTimeout:        "Gateway Timeout",
}
