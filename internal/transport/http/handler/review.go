package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"homehunt-server/internal/domain"
	"homehunt-server/internal/service"
	"homehunt-server/internal/transport/http/ez"
)

type Reviews struct{ Svc *service.ReviewService }

func (h Reviews) MountAPI(e ez.EZ) {
	type createIn struct {
		PropertyID    string `json:"propertyId"`
		ReviewerName  string `json:"reviewerName"`
		ReviewerImage string `json:"reviewerImage"`
		Rating        int    `json:"rating"`
		Comment       string `json:"comment"`
	}
	ez.RegisterAction(e, ez.Action[createIn, *domain.Review]{
		Method: http.MethodPost, Path: "/reviews", Binder: ez.BindJSON, Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *createIn) (*domain.Review, error) {
			return h.Svc.Create(c.Request.Context(), actor(c), service.ReviewInput{
				PropertyID: in.PropertyID, ReviewerName: in.ReviewerName, ReviewerImage: in.ReviewerImage,
				Rating: in.Rating, Comment: in.Comment,
			})
		},
	})

	ez.RegisterAction(e, ez.Action[emailQuery, []domain.Review]{
		Method: http.MethodGet, Path: "/reviews", Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *emailQuery) ([]domain.Review, error) {
			return h.Svc.ListByReviewer(c.Request.Context(), in.Email)
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, []domain.Review]{
		Method: http.MethodGet, Path: "/reviews/all", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Review, error) {
			return h.Svc.ListAll(c.Request.Context())
		},
	})

	type byProperty struct {
		PropertyID string `uri:"propertyId" binding:"required"`
	}
	ez.RegisterAction(e, ez.Action[byProperty, []domain.Review]{
		Method: http.MethodGet, Path: "/reviews/:propertyId", Binder: ez.BindURI,
		Handler: func(c *gin.Context, in *byProperty) ([]domain.Review, error) {
			return h.Svc.ListByProperty(c.Request.Context(), in.PropertyID)
		},
	})

	ez.RegisterAction(e, ez.Action[byID, service.Deleted]{
		Method: http.MethodDelete, Path: "/reviews/:id", Binder: ez.BindURI,
		Handler: func(c *gin.Context, in *byID) (service.Deleted, error) {
			return h.Svc.Delete(c.Request.Context(), actor(c), in.ID)
		},
	})
}
