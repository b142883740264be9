package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"homehunt-server/internal/domain"
	"homehunt-server/internal/service"
	"homehunt-server/internal/transport/http/ez"
)

type Payments struct{ Svc *service.PaymentService }

func (h Payments) MountAPI(e ez.EZ) {
	type intentIn struct {
		AmountInCents int64 `json:"amountInCents"`
	}
	ez.RegisterAction(e, ez.Action[intentIn, service.Intent]{
		Method: http.MethodPost, Path: "/create-payment-intent", Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *intentIn) (service.Intent, error) {
			return h.Svc.CreateIntent(c.Request.Context(), in.AmountInCents)
		},
	})

	type recordIn struct {
		OfferID       string  `json:"offerId"`
		TransactionID string  `json:"transactionId"`
		Amount        float64 `json:"amount"`
		Email         string  `json:"email"`
		UserName      string  `json:"userName"`
		Status        string  `json:"status"`
	}
	ez.RegisterAction(e, ez.Action[recordIn, service.Recorded]{
		Method: http.MethodPost, Path: "/payments", Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *recordIn) (service.Recorded, error) {
			return h.Svc.Record(c.Request.Context(), actor(c), service.PaymentInput{
				OfferID: in.OfferID, TransactionID: in.TransactionID, Amount: in.Amount,
				Email: in.Email, UserName: in.UserName, Status: in.Status,
			})
		},
	})

	type byOffer struct {
		OfferID string `uri:"offerId" binding:"required"`
	}
	ez.RegisterAction(e, ez.Action[byOffer, *domain.Payment]{
		Method: http.MethodGet, Path: "/payments/:offerId", Binder: ez.BindURI,
		Handler: func(c *gin.Context, in *byOffer) (*domain.Payment, error) {
			return h.Svc.GetByOffer(c.Request.Context(), actor(c), in.OfferID)
		},
	})
}
