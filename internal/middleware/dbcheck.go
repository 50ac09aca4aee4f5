package middleware

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// DBHealth 数据库健康探测接口，方便在测试里替换
type DBHealth interface {
	Ping() error
	Reconnect() error
}

// DBCheck 数据库可用性中间件
// 探测失败时尝试一次重连，短暂等待后再探测；仍不可用则直接 503，
// 不做无限重试，避免把请求挂死。
func DBCheck(db DBHealth) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			log.Printf("[DB] 连接不可用，尝试重连: %v", err)

			if rErr := db.Reconnect(); rErr != nil {
				log.Printf("[DB] 重连失败: %v", rErr)
				c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
					"error": "Database service unavailable. Please try again shortly.",
				})
				return
			}

			time.Sleep(100 * time.Millisecond)
			if err := db.Ping(); err != nil {
				log.Printf("[DB] 重连后仍不可用: %v", err)
				c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
					"error": "Database service unavailable. Please try again shortly.",
				})
				return
			}
			log.Println("[DB] 重连成功")
		}

		c.Next()
	}
}
