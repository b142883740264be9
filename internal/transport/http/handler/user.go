package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"homehunt-server/internal/domain"
	"homehunt-server/internal/service"
	"homehunt-server/internal/transport/http/ez"
)

type Users struct{ Svc *service.UserService }

func (h Users) MountAPI(e ez.EZ) {
	type signUp struct {
		Email    string      `json:"email"`
		Name     string      `json:"name"`
		PhotoURL string      `json:"photoURL"`
		UID      string      `json:"uid"`
		Role     domain.Role `json:"role"`
	}
	ez.RegisterAction(e, ez.Action[signUp, service.SignUpResult]{
		Method: http.MethodPost, Path: "/users", Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *signUp) (service.SignUpResult, error) {
			return h.Svc.Create(c.Request.Context(), service.SignUp{
				Email: in.Email, Name: in.Name, PhotoURL: in.PhotoURL, UID: in.UID, Role: in.Role,
			})
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, []domain.User]{
		Method: http.MethodGet, Path: "/users", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.User, error) {
			return h.Svc.List(c.Request.Context())
		},
	})

	type roleOut struct {
		Role domain.Role `json:"role"`
	}
	ez.RegisterAction(e, ez.Action[byEmail, roleOut]{
		Method: http.MethodGet, Path: "/users/role/:email", Binder: ez.BindURI,
		Handler: func(c *gin.Context, in *byEmail) (roleOut, error) {
			r, err := h.Svc.RoleOf(c.Request.Context(), in.Email)
			return roleOut{Role: r}, err
		},
	})

	grants := map[string]func(*gin.Context, string) (service.Modified, error){
		"/users/make-admin/:email": func(c *gin.Context, email string) (service.Modified, error) {
			return h.Svc.MakeAdmin(c.Request.Context(), email)
		},
		"/users/make-agent/:email": func(c *gin.Context, email string) (service.Modified, error) {
			return h.Svc.MakeAgent(c.Request.Context(), email)
		},
		"/users/mark-fraud/:email": func(c *gin.Context, email string) (service.Modified, error) {
			return h.Svc.MarkFraud(c.Request.Context(), email)
		},
	}
	for path, fn := range grants {
		ez.RegisterAction(e, ez.Action[byEmail, service.Modified]{
			Method: http.MethodPatch, Path: path, Binder: ez.BindURI,
			Handler: func(c *gin.Context, in *byEmail) (service.Modified, error) { return fn(c, in.Email) },
		})
	}

	ez.RegisterAction(e, ez.Action[byEmail, service.Deleted]{
		Method: http.MethodDelete, Path: "/users/:email", Binder: ez.BindURI,
		Handler: func(c *gin.Context, in *byEmail) (service.Deleted, error) {
			return h.Svc.Delete(c.Request.Context(), in.Email)
		},
	})
}
