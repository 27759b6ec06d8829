package controllers

import (
	"gin-marketplace/apperrors"
	"gin-marketplace/constants"
	"gin-marketplace/middlewares"
	"gin-marketplace/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

type IUserController interface {
	Home(ctx *gin.Context)
	Profile(ctx *gin.Context)
}

type UserController struct {
	service services.IUserService
}

func NewUserController(service services.IUserService) IUserController {
	return &UserController{service: service}
}

func (c *UserController) Home(ctx *gin.Context) {
	render(ctx, http.StatusOK, gin.H{
		"status":        "ok",
		"authenticated": middlewares.CurrentIdentity(ctx).Authenticated(),
	})
}

func (c *UserController) Profile(ctx *gin.Context) {
	profile, err := c.service.Profile(ctx, middlewares.CurrentIdentity(ctx).UserID)
	if err != nil {
		// セッションは有効だがユーザーが削除されている
		if apperrors.KindOf(err) == apperrors.KindNotFound {
			middlewares.RedirectWithFlash(ctx, constants.PathLogin, middlewares.FlashError, apperrors.Message(err))
			return
		}
		ctx.Error(err)
		return
	}

	render(ctx, http.StatusOK, gin.H{
		"user":  profile.User,
		"items": profile.Items,
	})
}
