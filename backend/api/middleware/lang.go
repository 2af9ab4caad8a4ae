package middleware

import (
	"linkboard/backend/common"

	"github.com/gin-gonic/gin"
)

// LangMiddleware 注入 lang 到 context
func LangMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 只取第一个语言
		lang := common.NormalizeLang(c.GetHeader("Accept-Language"))
		c.Set("lang", lang)
		c.Request = c.Request.WithContext(common.WithLang(c.Request.Context(), lang))
		c.Next()
	}
}
