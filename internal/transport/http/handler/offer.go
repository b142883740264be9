package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"homehunt-server/internal/domain"
	"homehunt-server/internal/service"
	"homehunt-server/internal/transport/http/ez"
)

type Offers struct{ Svc *service.OfferService }

func (h Offers) MountAPI(e ez.EZ) {
	type createIn struct {
		PropertyID  string  `json:"propertyId"`
		BuyerName   string  `json:"buyerName"`
		OfferAmount float64 `json:"offerAmount"`
		BuyingDate  string  `json:"buyingDate"`
	}
	ez.RegisterAction(e, ez.Action[createIn, *domain.Offer]{
		Method: http.MethodPost, Path: "/offers", Binder: ez.BindJSON, Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *createIn) (*domain.Offer, error) {
			return h.Svc.Create(c.Request.Context(), actor(c), service.OfferInput{
				PropertyID: in.PropertyID, BuyerName: in.BuyerName,
				OfferAmount: in.OfferAmount, BuyingDate: in.BuyingDate,
			})
		},
	})

	type buyerQuery struct {
		BuyerEmail string `form:"buyerEmail" binding:"required"`
	}
	ez.RegisterAction(e, ez.Action[buyerQuery, []domain.Offer]{
		Method: http.MethodGet, Path: "/offers", Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *buyerQuery) ([]domain.Offer, error) {
			return h.Svc.ListByBuyer(c.Request.Context(), in.BuyerEmail)
		},
	})

	ez.RegisterAction(e, ez.Action[emailQuery, []domain.Offer]{
		Method: http.MethodGet, Path: "/offers/agent", Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *emailQuery) ([]domain.Offer, error) {
			return h.Svc.ListByAgent(c.Request.Context(), in.Email)
		},
	})

	accept := func(c *gin.Context, in *byID) (service.AcceptResult, error) {
		return h.Svc.Accept(c.Request.Context(), actor(c), in.ID)
	}
	for _, path := range []string{"/offers/accept/:id", "/offers/:id/accept"} {
		ez.RegisterAction(e, ez.Action[byID, service.AcceptResult]{
			Method: http.MethodPatch, Path: path, Binder: ez.BindURI, Handler: accept,
		})
	}

	ez.RegisterAction(e, ez.Action[byID, service.Modified]{
		Method: http.MethodPatch, Path: "/offers/reject/:id", Binder: ez.BindURI,
		Handler: func(c *gin.Context, in *byID) (service.Modified, error) {
			return h.Svc.Reject(c.Request.Context(), actor(c), in.ID)
		},
	})

	type agentQuery struct {
		AgentEmail string `form:"agentEmail" binding:"required"`
	}
	ez.RegisterAction(e, ez.Action[agentQuery, []domain.SoldProperty]{
		Method: http.MethodGet, Path: "/sold-properties", Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *agentQuery) ([]domain.SoldProperty, error) {
			return h.Svc.SoldByAgent(c.Request.Context(), in.AgentEmail)
		},
	})
}
