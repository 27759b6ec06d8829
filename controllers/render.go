package controllers

import (
	"gin-marketplace/middlewares"
	"gin-marketplace/models"

	"github.com/gin-gonic/gin"
)

// render writes a page document. Every page carries the flash messages of the request.
func render(ctx *gin.Context, status int, page gin.H) {
	page["messages"] = middlewares.Flashes(ctx)
	ctx.JSON(status, page)
}

func itemFormOptions(page gin.H) gin.H {
	page["categories"] = models.Categories
	page["conditions"] = models.Conditions
	return page
}
