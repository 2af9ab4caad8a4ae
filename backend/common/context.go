package common

import (
	"context"
	"strings"
)

type contextKey int

const (
	langContextKey contextKey = iota
	userIDContextKey
)

func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, langContextKey, lang)
}

// LangFromContext returns the request language, DefaultLang when unset.
func LangFromContext(ctx context.Context) string {
	if ctx == nil {
		return DefaultLang
	}
	if lang, ok := ctx.Value(langContextKey).(string); ok && lang != "" {
		return lang
	}
	return DefaultLang
}

func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}

// UserIDFromContext reports the authenticated user id. Zero is never a valid id.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	if ctx == nil {
		return 0, false
	}
	userID, ok := ctx.Value(userIDContextKey).(int64)
	if !ok || userID == 0 {
		return 0, false
	}
	return userID, true
}

// NormalizeLang keeps the first tag of an Accept-Language header, without quality values.
func NormalizeLang(header string) string {
	lang := strings.TrimSpace(strings.Split(header, ",")[0])
	lang = strings.TrimSpace(strings.Split(lang, ";")[0])
	if lang == "" {
		return DefaultLang
	}
	return lang
}
