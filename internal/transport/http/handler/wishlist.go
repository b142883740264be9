package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"homehunt-server/internal/domain"
	"homehunt-server/internal/service"
	"homehunt-server/internal/transport/http/ez"
)

type Wishlist struct{ Svc *service.WishlistService }

func (h Wishlist) MountAPI(e ez.EZ) {
	type addIn struct {
		PropertyID string `json:"propertyId"`
	}
	ez.RegisterAction(e, ez.Action[addIn, *domain.WishlistEntry]{
		Method: http.MethodPost, Path: "/wishlist", Binder: ez.BindJSON, Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *addIn) (*domain.WishlistEntry, error) {
			return h.Svc.Add(c.Request.Context(), actor(c), in.PropertyID)
		},
	})

	ez.RegisterAction(e, ez.Action[emailQuery, []domain.WishlistEntry]{
		Method: http.MethodGet, Path: "/wishlist", Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *emailQuery) ([]domain.WishlistEntry, error) {
			return h.Svc.ListByUser(c.Request.Context(), in.Email)
		},
	})

	ez.RegisterAction(e, ez.Action[byID, service.Deleted]{
		Method: http.MethodDelete, Path: "/wishlist/:id", Binder: ez.BindURI,
		Handler: func(c *gin.Context, in *byID) (service.Deleted, error) {
			return h.Svc.Remove(c.Request.Context(), actor(c), in.ID)
		},
	})
}
