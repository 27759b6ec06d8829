package middlewares

import (
	"gin-marketplace/constants"
	"gin-marketplace/logger"
	"gin-marketplace/models"
	"gin-marketplace/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Outcome int

const (
	Proceed Outcome = iota
	Redirect
	Fail
)

// Decision is the verdict of a Guard. Location and Flash are set for Redirect, Err for Fail.
type Decision struct {
	Outcome  Outcome
	Location string
	Flash    Flash
	Err      error
}

func Allow() Decision {
	return Decision{Outcome: Proceed}
}

func RedirectTo(location string, kind FlashKind, message string) Decision {
	return Decision{Outcome: Redirect, Location: location, Flash: Flash{Kind: kind, Message: message}}
}

func FailWith(err error) Decision {
	return Decision{Outcome: Fail, Err: err}
}

// Guard decides whether a request may reach its handler. Guards must not mutate state other
// than stashing values on the context.
type Guard func(ctx *gin.Context) Decision

// Guarded runs guards in order and stops at the first one that does not proceed.
func Guarded(guards ...Guard) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		for _, guard := range guards {
			decision := guard(ctx)
			switch decision.Outcome {
			case Redirect:
				RedirectWithFlash(ctx, decision.Location, decision.Flash.Kind, decision.Flash.Message)
				ctx.Abort()
				return
			case Fail:
				ctx.Error(decision.Err)
				ctx.Abort()
				return
			}
		}
		ctx.Next()
	}
}

func RequireGuest(ctx *gin.Context) Decision {
	if CurrentIdentity(ctx).Authenticated() {
		return RedirectTo(constants.PathProfile, FlashInfo, constants.ErrAlreadyLoggedIn)
	}
	return Allow()
}

func RequireAuthenticated(ctx *gin.Context) Decision {
	if !CurrentIdentity(ctx).Authenticated() {
		return RedirectTo(constants.PathLogin, FlashError, constants.ErrLoginRequired)
	}
	return Allow()
}

func ValidateIdentifier(ctx *gin.Context) Decision {
	if _, err := uuid.Parse(ctx.Param("id")); err != nil {
		return RedirectTo(constants.PathItems, FlashError, constants.ErrInvalidID)
	}
	return Allow()
}

const itemKey = "item"

// RequireOwnership loads the item named by :id and lets only its seller through. The loaded
// item is available to the handler through CurrentItem.
func RequireOwnership(items services.IItemService) Guard {
	return func(ctx *gin.Context) Decision {
		itemID, err := uuid.Parse(ctx.Param("id"))
		if err != nil {
			return RedirectTo(constants.PathItems, FlashError, constants.ErrInvalidID)
		}

		item, err := items.FindById(ctx, itemID)
		if err != nil {
			return FailWith(err)
		}

		identity := CurrentIdentity(ctx)
		if item.SellerID != identity.UserID {
			logger.Warn(ctx, "Ownership check failed",
				zap.String("item_id", item.ID.String()),
				zap.String("user_id", identity.UserID.String()),
			)
			return RedirectTo(constants.PathItems, FlashError, constants.ErrNotItemOwner)
		}

		ctx.Set(itemKey, item)
		return Allow()
	}
}

// CurrentItem returns the item stashed by RequireOwnership.
func CurrentItem(ctx *gin.Context) *models.Item {
	if value, exists := ctx.Get(itemKey); exists {
		if item, ok := value.(*models.Item); ok {
			return item
		}
	}
	return nil
}
