package ez

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sentle-driving/internal/domain"
	mdw "sentle-driving/internal/transport/http/middleware"
	resp "sentle-driving/internal/transport/http/response"
)

// AErr is a failure ready to be written: HTTP status, machine code and a
// client-safe message.
type AErr struct {
	Status int
	Code   string
	Msg    string
	Err    error
}

func (e *AErr) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "action error"
}

func (e *AErr) Unwrap() error { return e.Err }

var kindStatus = map[domain.Kind]int{
	domain.KindValidation:     http.StatusBadRequest,
	domain.KindAuthentication: http.StatusUnauthorized,
	domain.KindAuthorization:  http.StatusForbidden,
	domain.KindNotFound:       http.StatusNotFound,
	domain.KindConflict:       http.StatusConflict,
	domain.KindRateLimited:    http.StatusTooManyRequests,
	domain.KindInternal:       http.StatusInternalServerError,
}

// FromError classifies err. Unclassified errors become a generic internal
// error; the cause is kept in Err for logging only.
func FromError(err error) *AErr {
	var ae *AErr
	if errors.As(err, &ae) {
		return ae
	}
	de := domain.AsError(err)
	status, ok := kindStatus[de.Kind]
	if !ok {
		status = http.StatusInternalServerError
	}
	return &AErr{Status: status, Code: de.Code, Msg: de.Msg, Err: err}
}

// Fail writes err as an error envelope and aborts. Internal errors are logged.
func Fail(c *gin.Context, log *zap.Logger, err error) {
	ae := FromError(err)
	if ae.Status >= http.StatusInternalServerError {
		log.Error("request failed",
			zap.String("rid", c.GetString(mdw.KeyRequestID)),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	_ = c.Error(err)
	resp.Abort(c, ae.Status, ae.Code, ae.Msg)
}
