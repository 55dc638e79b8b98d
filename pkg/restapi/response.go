package restapi

import (
	"errors"

	"github.com/gin-gonic/gin"

	"snipx-service/pkg/errno"
	"snipx-service/pkg/logger"
)

// Response is the envelope every JSON endpoint answers with.
type Response struct {
	Code      int         `json:"code"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

// Success writes data with code 200.
func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{
		Code:      errno.OK.Code,
		Message:   errno.OK.Message,
		Data:      data,
		RequestID: c.GetString("request_id"),
	})
}

// Failed maps err onto its errno code and HTTP status.
func Failed(c *gin.Context, err error) {
	code := errno.Decode(err)
	status := code.HTTPStatus()
	msg := code.Message
	var biz *errno.BizError
	if errors.As(err, &biz) && status < 500 {
		msg = biz.Error()
	}
	if status >= 500 {
		logger.Error("Request failed", map[string]interface{}{
			"path":       c.FullPath(),
			"request_id": c.GetString("request_id"),
			"error":      err.Error(),
		})
	}
	c.AbortWithStatusJSON(status, Response{
		Code:      code.Code,
		Message:   msg,
		RequestID: c.GetString("request_id"),
	})
}
