package controllers

import (
	"gin-marketplace/apperrors"
	"gin-marketplace/constants"
	"gin-marketplace/dto"
	"gin-marketplace/middlewares"
	"gin-marketplace/services"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type IItemController interface {
	FindAll(ctx *gin.Context)
	FindById(ctx *gin.Context)
	New(ctx *gin.Context)
	Create(ctx *gin.Context)
	Edit(ctx *gin.Context)
	Update(ctx *gin.Context)
	Delete(ctx *gin.Context)
}

type ItemController struct {
	service services.IItemService
}

func NewItemController(service services.IItemService) IItemController {
	return &ItemController{service: service}
}

func (c *ItemController) FindAll(ctx *gin.Context) {
	var filter dto.ItemFilter
	if err := ctx.ShouldBindQuery(&filter); err != nil {
		ctx.Error(apperrors.BadRequest(constants.ErrInvalidInput, err))
		return
	}

	items, err := c.service.FindAll(ctx, filter)
	if err != nil {
		ctx.Error(err)
		return
	}

	render(ctx, http.StatusOK, itemFormOptions(gin.H{
		"items":  items,
		"filter": filter.Normalized(),
	}))
}

// FindById runs behind ValidateIdentifier, so the id is well formed.
func (c *ItemController) FindById(ctx *gin.Context) {
	itemID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.Error(apperrors.BadRequest(constants.ErrInvalidID, err))
		return
	}

	item, err := c.service.FindById(ctx, itemID)
	if err != nil {
		ctx.Error(err)
		return
	}

	render(ctx, http.StatusOK, gin.H{"item": item})
}

func (c *ItemController) New(ctx *gin.Context) {
	render(ctx, http.StatusOK, itemFormOptions(gin.H{"form": "item"}))
}

func (c *ItemController) Create(ctx *gin.Context) {
	var input dto.CreateItemInput
	if err := ctx.ShouldBind(&input); err != nil {
		ctx.Error(apperrors.BadRequest(constants.ErrInvalidInput, err))
		return
	}

	fields, errs := input.Validate()
	if errs != nil {
		ctx.Error(apperrors.Validation(errs))
		return
	}

	if _, err := c.service.Create(ctx, fields, middlewares.CurrentIdentity(ctx).UserID); err != nil {
		ctx.Error(err)
		return
	}
	middlewares.RedirectWithFlash(ctx, constants.PathItems, middlewares.FlashSuccess, constants.MsgItemCreated)
}

func (c *ItemController) Edit(ctx *gin.Context) {
	render(ctx, http.StatusOK, itemFormOptions(gin.H{
		"form": "item",
		"item": middlewares.CurrentItem(ctx),
	}))
}

func (c *ItemController) Update(ctx *gin.Context) {
	var input dto.UpdateItemInput
	if err := ctx.ShouldBind(&input); err != nil {
		ctx.Error(apperrors.BadRequest(constants.ErrInvalidInput, err))
		return
	}

	fields, errs := input.Validate()
	if errs != nil {
		ctx.Error(apperrors.Validation(errs))
		return
	}

	updated, err := c.service.Update(ctx, middlewares.CurrentItem(ctx), fields)
	if err != nil {
		ctx.Error(err)
		return
	}
	middlewares.RedirectWithFlash(ctx, constants.PathItems+"/"+updated.ID.String(), middlewares.FlashSuccess, constants.MsgItemUpdated)
}

func (c *ItemController) Delete(ctx *gin.Context) {
	item := middlewares.CurrentItem(ctx)
	if err := c.service.Delete(ctx, item.ID); err != nil {
		ctx.Error(err)
		return
	}
	middlewares.RedirectWithFlash(ctx, constants.PathItems, middlewares.FlashSuccess, constants.MsgItemDeleted)
}
