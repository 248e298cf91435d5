package response

import "github.com/gin-gonic/gin"

// Resp is the envelope of every JSON response. Code mirrors the HTTP status;
// Error is the machine code of a failure and is empty on success.
type Resp struct {
	Code  int    `json:"code"`
	Error string `json:"error,omitempty"`
	Msg   string `json:"msg"`
	Data  any    `json:"data"`
}

// New keeps data non-null.
func New(code int, errCode, msg string, data any) Resp {
	if data == nil {
		data = struct{}{}
	}
	if msg == "" {
		msg = CodeMsgMap[code]
	}
	return Resp{Code: code, Error: errCode, Msg: msg, Data: data}
}

func OK(data any) Resp { return New(200, "", "", data) }

func Error(status int, errCode, msg string) Resp { return New(status, errCode, msg, nil) }

// JSON writes the envelope with a matching HTTP status.
func JSON(c *gin.Context, status int, data any) {
	c.JSON(status, New(status, "", "", data))
}

// Abort stops the chain with an error envelope.
func Abort(c *gin.Context, status int, errCode, msg string) {
	c.AbortWithStatusJSON(status, Error(status, errCode, msg))
}
