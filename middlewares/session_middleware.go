package middlewares

import (
	"errors"
	"gin-marketplace/constants"
	"gin-marketplace/logger"
	"gin-marketplace/services"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const identityKey = "identity"

// Identity is the caller as seen by this request. The zero value is an anonymous caller.
type Identity struct {
	UserID uuid.UUID
	Token  string
}

func (i Identity) Authenticated() bool {
	return i.UserID != uuid.Nil
}

// SessionMiddleware resolves the session cookie once per request. Unknown or expired
// sessions leave the caller anonymous and drop the cookie.
func SessionMiddleware(authService services.IAuthService, secure bool) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		identity := Identity{}

		token, err := ctx.Cookie(constants.SessionCookie)
		if err == nil && token != "" {
			session, err := authService.GetSessionFromToken(ctx, token)
			switch {
			case err == nil:
				identity = Identity{UserID: session.UserID, Token: token}
			case errors.Is(err, services.ErrInvalidSession):
				logger.Info(ctx, "Dropping invalid session cookie")
				ClearSessionCookie(ctx, secure)
			default:
				ctx.Error(err)
				ctx.Abort()
				return
			}
		}

		ctx.Set(identityKey, identity)
		ctx.Next()
	}
}

// CurrentIdentity returns the identity loaded by SessionMiddleware.
func CurrentIdentity(ctx *gin.Context) Identity {
	if value, exists := ctx.Get(identityKey); exists {
		if identity, ok := value.(Identity); ok {
			return identity
		}
	}
	return Identity{}
}

func SetSessionCookie(ctx *gin.Context, token string, maxAge int, secure bool) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(constants.SessionCookie, token, maxAge, "/", "", secure, true)
}

func ClearSessionCookie(ctx *gin.Context, secure bool) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(constants.SessionCookie, "", -1, "/", "", secure, true)
}
