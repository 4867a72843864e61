package middlewares

import "github.com/gin-gonic/gin"

// Keys stored on the gin context.
const (
	CtxRequestID = "request_id"
)

func RequestIDFromContext(c *gin.Context) string {
	v, ok := c.Get(CtxRequestID)
	if !ok {
		return ""
	}
	id, _ := v.(string)
	return id
}

// abort writes the shared error envelope and stops the chain.
func abort(c *gin.Context, status int, code, message string) {
	body := gin.H{
		"code":    code,
		"message": message,
	}
	if id := RequestIDFromContext(c); id != "" {
		body["requestId"] = id
	}

	c.AbortWithStatusJSON(status, gin.H{"error": body})
}
