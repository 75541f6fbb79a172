package utils

import (
	"github.com/gin-gonic/gin"
)

// Response is the envelope for message-style replies and every error.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func APIResponse(c *gin.Context, code int, success bool, message string, data interface{}) {
	c.JSON(code, Response{
		Success: success,
		Message: message,
		Data:    data,
	})
}

// APIError writes {"success": false, "message": ...}.
func APIError(c *gin.Context, code int, message string) {
	APIResponse(c, code, false, message, nil)
}
