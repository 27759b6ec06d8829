package controllers

import (
	"gin-marketplace/apperrors"
	"gin-marketplace/constants"
	"gin-marketplace/dto"
	"gin-marketplace/logger"
	"gin-marketplace/middlewares"
	"gin-marketplace/services"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type IAuthController interface {
	SignupForm(ctx *gin.Context)
	Signup(ctx *gin.Context)
	LoginForm(ctx *gin.Context)
	Login(ctx *gin.Context)
	Logout(ctx *gin.Context)
}

type AuthController struct {
	service      services.IAuthService
	sessionTTL   time.Duration
	secureCookie bool
}

func NewAuthController(service services.IAuthService, sessionTTL time.Duration, secureCookie bool) IAuthController {
	return &AuthController{
		service:      service,
		sessionTTL:   sessionTTL,
		secureCookie: secureCookie,
	}
}

func (c *AuthController) SignupForm(ctx *gin.Context) {
	render(ctx, http.StatusOK, gin.H{
		"form":   "signup",
		"fields": []string{"firstName", "lastName", "email", "password"},
	})
}

func (c *AuthController) Signup(ctx *gin.Context) {
	var input dto.SignupInput
	if err := ctx.ShouldBind(&input); err != nil {
		middlewares.RedirectWithFlash(ctx, constants.PathSignup, middlewares.FlashError, constants.ErrInvalidInput)
		return
	}

	fields, errs := input.Validate()
	if errs != nil {
		middlewares.RedirectWithFlash(ctx, constants.PathSignup, middlewares.FlashError, errs.Summary())
		return
	}

	if err := c.service.Signup(ctx, fields); err != nil {
		if apperrors.KindOf(err) == apperrors.KindConflict {
			middlewares.RedirectWithFlash(ctx, constants.PathSignup, middlewares.FlashError, apperrors.Message(err))
			return
		}
		ctx.Error(err)
		return
	}

	logger.Info(ctx, "User signed up")
	middlewares.RedirectWithFlash(ctx, constants.PathLogin, middlewares.FlashSuccess, constants.MsgSignedUp)
}

func (c *AuthController) LoginForm(ctx *gin.Context) {
	render(ctx, http.StatusOK, gin.H{
		"form":   "login",
		"fields": []string{"email", "password"},
	})
}

func (c *AuthController) Login(ctx *gin.Context) {
	var input dto.LoginInput
	if err := ctx.ShouldBind(&input); err != nil {
		middlewares.RedirectWithFlash(ctx, constants.PathLogin, middlewares.FlashError, constants.ErrInvalidInput)
		return
	}

	credentials, errs := input.Validate()
	if errs != nil {
		middlewares.RedirectWithFlash(ctx, constants.PathLogin, middlewares.FlashError, errs.Summary())
		return
	}

	token, err := c.service.Login(ctx, credentials.Email, credentials.Password)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindUnauthorized {
			middlewares.RedirectWithFlash(ctx, constants.PathLogin, middlewares.FlashError, apperrors.Message(err))
			return
		}
		ctx.Error(err)
		return
	}

	middlewares.SetSessionCookie(ctx, token, int(c.sessionTTL.Seconds()), c.secureCookie)
	middlewares.RedirectWithFlash(ctx, constants.PathProfile, middlewares.FlashSuccess, constants.MsgLoggedIn)
}

func (c *AuthController) Logout(ctx *gin.Context) {
	identity := middlewares.CurrentIdentity(ctx)
	if err := c.service.Logout(ctx, identity.Token); err != nil {
		ctx.Error(err)
		return
	}

	middlewares.ClearSessionCookie(ctx, c.secureCookie)
	middlewares.RedirectWithFlash(ctx, constants.PathHome, middlewares.FlashSuccess, constants.MsgLoggedOut)
}
