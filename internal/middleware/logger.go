package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/muaazl/cine-match/internal/utils"
)

// Logger 请求日志中间件，客户端 IP 以哈希形式记录
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		// 处理请求
		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		log.Printf("[%s] %s %s %d %v",
			c.Request.Method,
			path,
			utils.HashIP(c.ClientIP()),
			status,
			latency,
		)
		if len(c.Errors) > 0 {
			log.Printf("[%s] %s errors: %s", c.Request.Method, path, c.Errors.String())
		}
	}
}
