package router

import (
	"net/http"

	"homehunt-server/internal/domain"
	mdw "homehunt-server/internal/transport/http/middleware"
)

var (
	adminOnly = []domain.Role{domain.RoleAdmin}
	agentOnly = []domain.Role{domain.RoleAgent}
	userOnly  = []domain.Role{domain.RoleUser}
)

// Policies is the single access table. A route missing here answers 403.
func Policies() mdw.Policies {
	const (
		get   = http.MethodGet
		post  = http.MethodPost
		put   = http.MethodPut
		patch = http.MethodPatch
		del   = http.MethodDelete
	)
	public := mdw.Policy{Public: true}
	authed := mdw.Policy{}
	admin := mdw.Policy{Roles: adminOnly}

	return mdw.Policies{
		mdw.Key(get, "/health"):  public,
		mdw.Key(get, "/metrics"): public,

		mdw.Key(post, "/jwt"): public,

		mdw.Key(post, "/users"):                    public,
		mdw.Key(get, "/users"):                     admin,
		mdw.Key(get, "/users/role/:email"):         authed,
		mdw.Key(patch, "/users/make-admin/:email"): admin,
		mdw.Key(patch, "/users/make-agent/:email"): admin,
		mdw.Key(patch, "/users/mark-fraud/:email"): admin,
		mdw.Key(del, "/users/:email"):              admin,

		mdw.Key(post, "/properties"):             {Roles: agentOnly},
		mdw.Key(get, "/properties"):              admin,
		mdw.Key(get, "/properties/verified"):     public,
		mdw.Key(get, "/properties/agent"):        {SelfQuery: "email"},
		mdw.Key(get, "/properties/:id"):          public,
		mdw.Key(put, "/properties/:id"):          {Roles: agentOnly},
		mdw.Key(patch, "/properties/verify/:id"): admin,
		mdw.Key(del, "/properties/:id"):          {Roles: agentOnly},

		mdw.Key(post, "/wishlist"):    {Roles: userOnly},
		mdw.Key(get, "/wishlist"):     {SelfQuery: "email"},
		mdw.Key(del, "/wishlist/:id"): authed,

		mdw.Key(post, "/reviews"):            {Roles: userOnly},
		mdw.Key(get, "/reviews"):             {SelfQuery: "email"},
		mdw.Key(get, "/reviews/all"):         admin,
		mdw.Key(get, "/reviews/:propertyId"): public,
		mdw.Key(del, "/reviews/:id"):         {SelfQuery: "email", SelfOptional: true},

		mdw.Key(post, "/offers"):             {Roles: userOnly},
		mdw.Key(get, "/offers"):              {SelfQuery: "buyerEmail"},
		mdw.Key(get, "/offers/agent"):        {Roles: agentOnly, SelfQuery: "email"},
		mdw.Key(patch, "/offers/accept/:id"): {Roles: agentOnly},
		mdw.Key(patch, "/offers/:id/accept"): {Roles: agentOnly},
		mdw.Key(patch, "/offers/reject/:id"): {Roles: agentOnly},
		mdw.Key(get, "/sold-properties"):     {Roles: agentOnly, SelfQuery: "agentEmail"},

		mdw.Key(post, "/create-payment-intent"): {Roles: userOnly},
		mdw.Key(post, "/payments"):              {Roles: userOnly},
		mdw.Key(get, "/payments/:offerId"):      authed,
	}
}
