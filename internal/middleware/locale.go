package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/lshigami/feedback-survey/internal/i18n"
)

const localeKey = "i18n.locale"

// Locale resolves the response language from ?lang or Accept-Language.
func Locale() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		locale := i18n.DetermineLocale(ctx.Query("lang"), ctx.GetHeader("Accept-Language"))
		ctx.Set(localeKey, locale)
		ctx.Header("Content-Language", locale)
		ctx.Next()
	}
}

func CurrentLocale(ctx *gin.Context) string {
	if v, ok := ctx.Get(localeKey); ok {
		if locale, ok := v.(string); ok {
			return locale
		}
	}
	return i18n.Ukrainian
}
