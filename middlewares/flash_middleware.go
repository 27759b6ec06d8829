package middlewares

import (
	"encoding/base64"
	"encoding/json"
	"gin-marketplace/constants"
	"net/http"

	"github.com/gin-gonic/gin"
)

type FlashKind string

const (
	FlashSuccess FlashKind = "success"
	FlashError   FlashKind = "error"
	FlashInfo    FlashKind = "info"
)

// Flash is a one-shot message shown on the page after a redirect.
type Flash struct {
	Kind    FlashKind `json:"type"`
	Message string    `json:"message"`
}

const (
	flashesKey        = "flashes"
	pendingFlashesKey = "pending_flashes"
	flashSecureKey    = "flash_secure"
)

func encodeFlashes(flashes []Flash) (string, error) {
	raw, err := json.Marshal(flashes)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

func decodeFlashes(value string) ([]Flash, error) {
	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil, err
	}
	var flashes []Flash
	if err := json.Unmarshal(raw, &flashes); err != nil {
		return nil, err
	}
	return flashes, nil
}

// FlashMiddleware consumes the flash cookie written by the previous response. secure applies
// to every flash cookie written during the request.
func FlashMiddleware(secure bool) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Set(flashSecureKey, secure)
		if value, err := ctx.Cookie(constants.FlashCookie); err == nil && value != "" {
			// 壊れたクッキーは読み捨てる
			if flashes, err := decodeFlashes(value); err == nil {
				ctx.Set(flashesKey, flashes)
			}
			ctx.SetSameSite(http.SameSiteLaxMode)
			ctx.SetCookie(constants.FlashCookie, "", -1, "/", "", secure, true)
		}
		ctx.Next()
	}
}

// SetFlash queues a message for the next request.
func SetFlash(ctx *gin.Context, kind FlashKind, message string) {
	pending := append(pendingFlashes(ctx), Flash{Kind: kind, Message: message})
	ctx.Set(pendingFlashesKey, pending)

	value, err := encodeFlashes(pending)
	if err != nil {
		ctx.Error(err)
		return
	}
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(constants.FlashCookie, value, 0, "/", "", ctx.GetBool(flashSecureKey), true)
}

// Flashes returns the messages carried into this request.
func Flashes(ctx *gin.Context) []Flash {
	if value, exists := ctx.Get(flashesKey); exists {
		if flashes, ok := value.([]Flash); ok {
			return flashes
		}
	}
	return []Flash{}
}

func pendingFlashes(ctx *gin.Context) []Flash {
	if value, exists := ctx.Get(pendingFlashesKey); exists {
		if flashes, ok := value.([]Flash); ok {
			return flashes
		}
	}
	return nil
}

// RedirectWithFlash queues a message and redirects with 302.
func RedirectWithFlash(ctx *gin.Context, location string, kind FlashKind, message string) {
	SetFlash(ctx, kind, message)
	ctx.Redirect(http.StatusFound, location)
}
