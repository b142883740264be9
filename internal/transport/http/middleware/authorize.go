package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"homehunt-server/internal/core/auth"
	"homehunt-server/internal/domain"
	resp "homehunt-server/internal/transport/http/response"
)

const keyClaims = "claims"

// Policy describes who may call one route.
type Policy struct {
	Public bool
	// Roles restricts by the caller's stored role; admin always passes. Empty means any authenticated caller.
	Roles []domain.Role
	// SelfQuery names a query parameter that must equal the caller's email (admin exempt).
	SelfQuery string
	// SelfOptional lets the SelfQuery parameter be absent.
	SelfOptional bool
}

// RoleSource resolves the caller's role at request time; ok is false for a deleted account.
// The role claim in the token is only what was true when it was issued.
type RoleSource interface {
	CurrentRole(ctx context.Context, email string) (role domain.Role, ok bool, err error)
}

// Policies is keyed by "METHOD /full/path" as registered on the engine.
type Policies map[string]Policy

func Key(method, path string) string { return method + " " + path }

// Authorize gates every matched route through the policy table. Routes without an entry are refused.
func Authorize(j *auth.JWTer, roles RoleSource, p Policies) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath()
		if path == "" { // 404/405 交给 gin 处理
			c.Next()
			return
		}
		pol, ok := p[Key(c.Request.Method, path)]
		if !ok {
			resp.Abort(c, resp.CodeForbidden, "route has no access policy")
			return
		}
		if pol.Public {
			c.Next()
			return
		}

		tok, err := auth.BearerToken(c.GetHeader("Authorization"))
		if err != nil {
			resp.Abort(c, resp.CodeUnauthorized, "unauthorized access")
			return
		}
		claims, err := j.Parse(tok)
		if err != nil {
			resp.Abort(c, resp.CodeForbidden, "forbidden access")
			return
		}
		role, found, err := roles.CurrentRole(c.Request.Context(), claims.Email)
		if err != nil {
			_ = c.Error(err)
			resp.Abort(c, resp.CodeServerError, "internal error")
			return
		}
		if !found {
			resp.Abort(c, resp.CodeForbidden, "forbidden access")
			return
		}
		claims.Role = string(role)
		c.Set(keyClaims, claims)

		if role == domain.RoleAdmin {
			c.Next()
			return
		}
		if len(pol.Roles) > 0 && !hasRole(pol.Roles, role) {
			resp.Abort(c, resp.CodeForbidden, "forbidden access")
			return
		}
		if pol.SelfQuery != "" {
			q, present := c.GetQuery(pol.SelfQuery)
			if (!present && !pol.SelfOptional) || (present && q != claims.Email) {
				resp.Abort(c, resp.CodeForbidden, "forbidden access")
				return
			}
		}
		c.Next()
	}
}

func hasRole(roles []domain.Role, r domain.Role) bool {
	for _, x := range roles {
		if x == r {
			return true
		}
	}
	return false
}

// ClaimsFrom returns the claims stored by Authorize; ok is false on public routes.
func ClaimsFrom(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(keyClaims)
	if !ok {
		return nil, false
	}
	cl, ok := v.(*auth.Claims)
	return cl, ok
}
