package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/duccv/webconf-gate/internal/constant"
	"github.com/duccv/webconf-gate/pkg/logger"
)

const correlationHeader = "X-Correlation-ID"

func CorrelationIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		cid := c.GetHeader(correlationHeader)
		if cid == "" {
			cid = uuid.New().String()
		}
		c.Request = c.Request.WithContext(logger.WithCorrelationID(c.Request.Context(), cid))
		c.Set(constant.RequestIDKey, cid)
		c.Writer.Header().Set(correlationHeader, cid)
		c.Next()
	}
}
