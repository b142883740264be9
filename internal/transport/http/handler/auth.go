package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"homehunt-server/internal/service"
	"homehunt-server/internal/transport/http/ez"
)

type Auth struct{ Svc *service.AuthService }

func (Auth) Priority() int { return 10 }

func (h Auth) MountAPI(e ez.EZ) {
	type in struct {
		Email string `json:"email" binding:"required,email"`
		UID   string `json:"uid" binding:"required"`
	}
	ez.RegisterAction(e, ez.Action[in, service.Token]{
		Method: http.MethodPost, Path: "/jwt", Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *in) (service.Token, error) {
			return h.Svc.Issue(c.Request.Context(), in.Email, in.UID)
		},
	})
}
