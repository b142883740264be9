// Package handler binds HTTP requests to the services. Access rules live in the router's
// policy table; ownership rules live in the services.
package handler

import (
	"github.com/gin-gonic/gin"

	"homehunt-server/internal/domain"
	"homehunt-server/internal/service"
	"homehunt-server/internal/transport/http/middleware"
)

func actor(c *gin.Context) service.Actor {
	cl, ok := middleware.ClaimsFrom(c)
	if !ok {
		return service.Actor{}
	}
	return service.Actor{Email: cl.Email, Role: domain.Role(cl.Role)}
}

type byID struct {
	ID string `uri:"id" binding:"required"`
}

type byEmail struct {
	Email string `uri:"email" binding:"required"`
}

type emailQuery struct {
	Email string `form:"email" binding:"required"`
}
