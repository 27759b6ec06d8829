package controllers

import (
	"errors"
	"fmt"
	"gin-marketplace/apperrors"
	"gin-marketplace/constants"
	"gin-marketplace/middlewares"
	"gin-marketplace/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

type ICartController interface {
	View(ctx *gin.Context)
	Add(ctx *gin.Context)
	Remove(ctx *gin.Context)
	Purchase(ctx *gin.Context)
}

type CartController struct {
	service services.ICartService
}

func NewCartController(service services.ICartService) ICartController {
	return &CartController{service: service}
}

// handleError recovers the cart errors a user can act on. Everything else goes to the
// fault boundary.
func (c *CartController) handleError(ctx *gin.Context, err error) {
	switch apperrors.KindOf(err) {
	case apperrors.KindNotFound:
		middlewares.RedirectWithFlash(ctx, constants.PathLogin, middlewares.FlashError, apperrors.Message(err))
	case apperrors.KindConflict:
		middlewares.RedirectWithFlash(ctx, constants.PathCart, middlewares.FlashError, apperrors.Message(err))
	default:
		ctx.Error(err)
	}
}

func (c *CartController) View(ctx *gin.Context) {
	view, err := c.service.ViewCart(ctx, middlewares.CurrentIdentity(ctx).UserID)
	if err != nil {
		c.handleError(ctx, err)
		return
	}

	render(ctx, http.StatusOK, gin.H{
		"items": view.Lines,
		"total": view.Total,
	})
}

func (c *CartController) Add(ctx *gin.Context) {
	added, err := c.service.AddToCart(ctx, middlewares.CurrentIdentity(ctx).UserID, ctx.Param("id"))
	if err != nil {
		c.handleError(ctx, err)
		return
	}

	if !added {
		middlewares.RedirectWithFlash(ctx, constants.PathCart, middlewares.FlashInfo, constants.MsgAlreadyInCart)
		return
	}
	middlewares.RedirectWithFlash(ctx, constants.PathCart, middlewares.FlashSuccess, constants.MsgAddedToCart)
}

func (c *CartController) Remove(ctx *gin.Context) {
	if err := c.service.RemoveFromCart(ctx, middlewares.CurrentIdentity(ctx).UserID, ctx.Param("id")); err != nil {
		c.handleError(ctx, err)
		return
	}
	middlewares.RedirectWithFlash(ctx, constants.PathCart, middlewares.FlashSuccess, constants.MsgRemoved)
}

func (c *CartController) Purchase(ctx *gin.Context) {
	receipt, err := c.service.PurchaseItems(ctx, middlewares.CurrentIdentity(ctx).UserID)
	if err != nil {
		if errors.Is(err, services.ErrCartEmpty) {
			middlewares.RedirectWithFlash(ctx, constants.PathCart, middlewares.FlashInfo, constants.MsgCartEmpty)
			return
		}
		c.handleError(ctx, err)
		return
	}

	message := fmt.Sprintf("Your items have been purchased! Total: %s", receipt.Total.Display())
	middlewares.RedirectWithFlash(ctx, constants.PathCart, middlewares.FlashSuccess, message)
}
