package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"homehunt-server/internal/domain"
	"homehunt-server/internal/service"
	"homehunt-server/internal/transport/http/ez"
)

type Properties struct{ Svc *service.PropertyService }

type propertyBody struct {
	Title       string         `json:"title"`
	Location    string         `json:"location"`
	Image       string         `json:"image"`
	Description string         `json:"description"`
	AgentName   string         `json:"agentName"`
	AgentImage  string         `json:"agentImage"`
	MinPrice    float64        `json:"minPrice"`
	MaxPrice    float64        `json:"maxPrice"`
	Details     map[string]any `json:"details"`
}

func (b propertyBody) input() service.PropertyInput {
	return service.PropertyInput{
		Title: b.Title, Location: b.Location, Image: b.Image, Description: b.Description,
		AgentName: b.AgentName, AgentImage: b.AgentImage,
		MinPrice: b.MinPrice, MaxPrice: b.MaxPrice, Details: b.Details,
	}
}

func (h Properties) MountAPI(e ez.EZ) {
	ez.RegisterAction(e, ez.Action[propertyBody, *domain.Property]{
		Method: http.MethodPost, Path: "/properties", Binder: ez.BindJSON, Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *propertyBody) (*domain.Property, error) {
			return h.Svc.Create(c.Request.Context(), actor(c), in.input())
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, []domain.Property]{
		Method: http.MethodGet, Path: "/properties", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Property, error) {
			return h.Svc.List(c.Request.Context())
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, []domain.Property]{
		Method: http.MethodGet, Path: "/properties/verified", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Property, error) {
			return h.Svc.ListVerified(c.Request.Context())
		},
	})

	ez.RegisterAction(e, ez.Action[emailQuery, []domain.Property]{
		Method: http.MethodGet, Path: "/properties/agent", Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *emailQuery) ([]domain.Property, error) {
			return h.Svc.ListByAgent(c.Request.Context(), in.Email)
		},
	})

	ez.RegisterAction(e, ez.Action[byID, *domain.Property]{
		Method: http.MethodGet, Path: "/properties/:id", Binder: ez.BindURI,
		Handler: func(c *gin.Context, in *byID) (*domain.Property, error) {
			return h.Svc.Get(c.Request.Context(), in.ID)
		},
	})

	ez.RegisterAction(e, ez.Action[propertyBody, service.Modified]{
		Method: http.MethodPut, Path: "/properties/:id", Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *propertyBody) (service.Modified, error) {
			return h.Svc.Update(c.Request.Context(), actor(c), c.Param("id"), in.input())
		},
	})

	type verifyIn struct {
		Status domain.VerificationStatus `json:"status"`
	}
	ez.RegisterAction(e, ez.Action[verifyIn, service.Modified]{
		Method: http.MethodPatch, Path: "/properties/verify/:id", Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *verifyIn) (service.Modified, error) {
			return h.Svc.Verify(c.Request.Context(), c.Param("id"), in.Status)
		},
	})

	ez.RegisterAction(e, ez.Action[byID, service.Deleted]{
		Method: http.MethodDelete, Path: "/properties/:id", Binder: ez.BindURI,
		Handler: func(c *gin.Context, in *byID) (service.Deleted, error) {
			return h.Svc.Delete(c.Request.Context(), actor(c), in.ID)
		},
	})
}
