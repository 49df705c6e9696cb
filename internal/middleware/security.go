package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Security 安全响应头
func Security() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Next()
	}
}

// CORS 跨域中间件，allowed 为逗号分隔的来源列表，"*" 表示全部（不含凭证）
func CORS(allowed string) gin.HandlerFunc {
	origins := make(map[string]bool)
	for _, o := range strings.Split(allowed, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins[o] = true
		}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		switch {
		case origin == "":
		case origin != "*" && origins[origin]:
			// 仅显式列出的来源可携带凭证
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Vary", "Origin")
			allowMethods(c)
		case origins["*"]:
			c.Header("Access-Control-Allow-Origin", "*")
			allowMethods(c)
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func allowMethods(c *gin.Context) {
	c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")
}
