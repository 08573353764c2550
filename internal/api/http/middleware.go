package apiHttp

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// corsMiddleware открывает API для мобильного и веб-клиентов.
// Список origin'ов не ограничивается, авторизация держится на токенах.
func corsMiddleware(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")

	if c.Request.Method != http.MethodOptions {
		c.Next()
	} else {
		c.AbortWithStatus(http.StatusOK)
	}
}
