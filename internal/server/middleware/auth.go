package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/abdulrahmanx9/bandwidth-monitor/internal/shared/config"
	"github.com/abdulrahmanx9/bandwidth-monitor/internal/shared/response"
	"github.com/abdulrahmanx9/bandwidth-monitor/internal/shared/utils"

	"github.com/gin-gonic/gin"
)

// APIKeyAuth API密钥认证中间件
// 优先检查X-API-Key header，没有时尝试Authorization Bearer
func APIKeyAuth(cfg *config.ServerConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader("X-API-Key")
		if key == "" {
			// 如果没有X-API-Key header，尝试从Authorization header获取
			authHeader := c.GetHeader("Authorization")
			if strings.HasPrefix(authHeader, "Bearer ") {
				key = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		if key == "" {
			response.Unauthorized(c, "缺少API密钥")
			c.Abort()
			return
		}

		if !verifyAPIKey(cfg, key) {
			response.Unauthorized(c, "无效的API密钥")
			c.Abort()
			return
		}

		c.Next()
	}
}

// verifyAPIKey 验证API密钥
// 配置了哈希时用bcrypt验证，否则对明文密钥做恒定时间比较
func verifyAPIKey(cfg *config.ServerConfig, key string) bool {
	if cfg.Auth.APIKeyHash != "" {
		return utils.CheckAPIKey(key, cfg.Auth.APIKeyHash)
	}
	return subtle.ConstantTimeCompare([]byte(key), []byte(cfg.Auth.APIKey)) == 1
}
