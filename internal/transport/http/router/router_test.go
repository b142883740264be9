package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"homehunt-server/internal/core/auth"
	"homehunt-server/internal/domain"
	"homehunt-server/internal/repo"
	"homehunt-server/internal/repo/repotest"
	"homehunt-server/internal/service"
	mdw "homehunt-server/internal/transport/http/middleware"
)

type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

type intentStub struct{}

func (intentStub) CreateIntent(context.Context, int64) (string, error) { return "pi_1_secret_2", nil }

type api struct {
	t     *testing.T
	r     *gin.Engine
	store *repo.Store
}

func newAPI(t *testing.T) *api {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := repotest.Open(t)
	store := repo.NewStore(db)
	jwter := &auth.JWTer{Secret: []byte("router-test"), Issuer: "homehunt", TTL: time.Hour}
	svc := service.New(service.Deps{Store: store, Log: zap.NewNop(), Gateway: intentStub{}, Signer: jwter})
	r := NewAPIEngine(Deps{
		Log:      zap.NewNop(),
		JWT:      jwter,
		Services: svc,
		DB:       db,
		Limiter:  mdw.NewLocalLimiter(1000, 1000),
	})
	return &api{t: t, r: r, store: store}
}

func (a *api) do(method, path, token string, body any) (int, envelope) {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.r.ServeHTTP(w, req)
	var env envelope
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func (a *api) data(env envelope, v any) {
	a.t.Helper()
	require.NoError(a.t, json.Unmarshal(env.Data, v))
}

func (a *api) signUp(email string, role domain.Role) string {
	a.t.Helper()
	signUpRole := role
	if role == domain.RoleAdmin {
		signUpRole = domain.RoleUser // sign-up never grants admin
	}
	code, _ := a.do(http.MethodPost, "/users", "", gin.H{"email": email, "uid": "uid-" + email, "name": email, "role": signUpRole})
	require.Equal(a.t, http.StatusCreated, code)
	if role == domain.RoleAdmin {
		_, err := a.store.Users().SetRole(context.Background(), email, domain.RoleAdmin)
		require.NoError(a.t, err)
	}
	code, env := a.do(http.MethodPost, "/jwt", "", gin.H{"email": email, "uid": "uid-" + email})
	require.Equal(a.t, http.StatusOK, code)
	var tok service.Token
	a.data(env, &tok)
	return tok.Token
}

func TestEveryRouteHasPolicy(t *testing.T) {
	a := newAPI(t)
	p := Policies()
	for _, rt := range a.r.Routes() {
		_, ok := p[mdw.Key(rt.Method, rt.Path)]
		assert.True(t, ok, "missing policy for %s %s", rt.Method, rt.Path)
	}
}

func TestHealthAndNotFound(t *testing.T) {
	a := newAPI(t)

	code, env := a.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"db":"ok"}`, string(env.Data))

	code, _ = a.do(http.MethodGet, "/nowhere", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestAccessControl(t *testing.T) {
	a := newAPI(t)
	buyer := a.signUp("buyer@x.io", domain.RoleUser)

	code, _ := a.do(http.MethodGet, "/wishlist?email=buyer@x.io", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = a.do(http.MethodGet, "/wishlist?email=buyer@x.io", "forged.token.value", nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = a.do(http.MethodGet, "/wishlist?email=someone@x.io", buyer, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, env := a.do(http.MethodGet, "/wishlist?email=buyer@x.io", buyer, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `[]`, string(env.Data))

	code, _ = a.do(http.MethodGet, "/users", buyer, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = a.do(http.MethodPost, "/properties", buyer, gin.H{"title": "x", "location": "y"})
	assert.Equal(t, http.StatusForbidden, code)
}

func TestJWTRequiresMatchingUID(t *testing.T) {
	a := newAPI(t)
	a.signUp("root@x.io", domain.RoleAdmin)

	code, _ := a.do(http.MethodPost, "/jwt", "", gin.H{"email": "root@x.io"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = a.do(http.MethodPost, "/jwt", "", gin.H{"email": "root@x.io", "uid": "guessed"})
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = a.do(http.MethodPost, "/jwt", "", gin.H{"email": "stranger@x.io", "uid": "uid-stranger@x.io"})
	assert.Equal(t, http.StatusForbidden, code)

	code, env := a.do(http.MethodPost, "/jwt", "", gin.H{"email": "root@x.io", "uid": "uid-root@x.io"})
	require.Equal(t, http.StatusOK, code)
	var tok service.Token
	a.data(env, &tok)
	code, _ = a.do(http.MethodGet, "/users", tok.Token, nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestDemotionRevokesOldTokens(t *testing.T) {
	a := newAPI(t)
	admin := a.signUp("root@x.io", domain.RoleAdmin)
	agent := a.signUp("ag@x.io", domain.RoleAgent)
	listing := gin.H{"title": "Villa", "location": "Sylhet", "maxPrice": 10}

	code, _ := a.do(http.MethodPost, "/properties", agent, listing)
	require.Equal(t, http.StatusCreated, code)

	code, _ = a.do(http.MethodPatch, "/users/mark-fraud/ag@x.io", admin, nil)
	require.Equal(t, http.StatusOK, code)
	code, _ = a.do(http.MethodPost, "/properties", agent, listing)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = a.do(http.MethodDelete, "/users/ag@x.io", admin, nil)
	require.Equal(t, http.StatusOK, code)
	code, _ = a.do(http.MethodGet, "/users/role/ag@x.io", agent, nil)
	assert.Equal(t, http.StatusForbidden, code)
}

func TestUsersEndpoints(t *testing.T) {
	a := newAPI(t)
	admin := a.signUp("root@x.io", domain.RoleAdmin)
	a.signUp("ag@x.io", domain.RoleAgent)

	code, env := a.do(http.MethodPost, "/users", "", gin.H{"email": "ag@x.io", "uid": "again"})
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"inserted":false}`, string(env.Data))

	code, _ = a.do(http.MethodPost, "/users", "", gin.H{"email": "no-uid@x.io"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, env = a.do(http.MethodGet, "/users/role/ag@x.io", admin, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"role":"agent"}`, string(env.Data))

	code, _ = a.do(http.MethodPatch, "/users/mark-fraud/root@x.io", admin, nil)
	assert.Equal(t, http.StatusConflict, code)
	code, _ = a.do(http.MethodPatch, "/users/mark-fraud/ghost@x.io", admin, nil)
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = a.do(http.MethodPatch, "/users/mark-fraud/ag@x.io", admin, nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = a.do(http.MethodDelete, "/users/ag@x.io", admin, nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = a.do(http.MethodDelete, "/users/ag@x.io", admin, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestOfferToPaymentFlow(t *testing.T) {
	a := newAPI(t)
	admin := a.signUp("root@x.io", domain.RoleAdmin)
	agent := a.signUp("ag@x.io", domain.RoleAgent)
	buyer := a.signUp("buyer@x.io", domain.RoleUser)
	rival := a.signUp("rival@x.io", domain.RoleUser)

	code, env := a.do(http.MethodPost, "/properties", agent, gin.H{
		"title": "Lake House", "location": "Gulshan", "minPrice": 100, "maxPrice": 200,
		"details": gin.H{"bedrooms": 3},
	})
	require.Equal(t, http.StatusCreated, code)
	var prop domain.Property
	a.data(env, &prop)
	assert.Equal(t, domain.VerificationPending, prop.VerificationStatus)

	code, env = a.do(http.MethodGet, "/properties/"+prop.ID, "", nil)
	require.Equal(t, http.StatusOK, code)
	var fetched domain.Property
	a.data(env, &fetched)
	assert.Equal(t, "Lake House", fetched.Title)
	assert.Equal(t, "ag@x.io", fetched.AgentEmail)

	offer := gin.H{"propertyId": prop.ID, "offerAmount": 150, "buyingDate": "2026-12-01"}
	code, _ = a.do(http.MethodPost, "/offers", buyer, offer)
	assert.Equal(t, http.StatusConflict, code, "property not verified yet")

	code, _ = a.do(http.MethodPatch, "/properties/verify/"+prop.ID, admin, gin.H{"status": "approved"})
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = a.do(http.MethodPatch, "/properties/verify/"+prop.ID, admin, gin.H{"status": "verified"})
	require.Equal(t, http.StatusOK, code)

	code, env = a.do(http.MethodPost, "/offers", buyer, offer)
	require.Equal(t, http.StatusCreated, code)
	var mine domain.Offer
	a.data(env, &mine)
	code, env = a.do(http.MethodPost, "/offers", rival, gin.H{"propertyId": prop.ID, "offerAmount": 120, "buyingDate": "2026-12-02"})
	require.Equal(t, http.StatusCreated, code)
	var theirs domain.Offer
	a.data(env, &theirs)

	code, _ = a.do(http.MethodGet, "/offers/agent?email=ag@x.io", agent, nil)
	assert.Equal(t, http.StatusOK, code)

	code, env = a.do(http.MethodPatch, "/offers/"+mine.ID+"/accept", agent, nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"modifiedCount":1,"rejectedCount":1}`, string(env.Data))

	code, env = a.do(http.MethodGet, "/offers?buyerEmail=rival@x.io", rival, nil)
	require.Equal(t, http.StatusOK, code)
	var rivalOffers []domain.Offer
	a.data(env, &rivalOffers)
	require.Len(t, rivalOffers, 1)
	assert.Equal(t, domain.OfferRejected, rivalOffers[0].Status)

	code, env = a.do(http.MethodPost, "/create-payment-intent", buyer, gin.H{"amountInCents": 15000})
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"clientSecret":"pi_1_secret_2"}`, string(env.Data))

	pay := gin.H{"offerId": mine.ID, "transactionId": "pi_1", "amount": 150, "email": "buyer@x.io", "userName": "Bea"}
	code, _ = a.do(http.MethodPost, "/payments", rival, gin.H{"offerId": mine.ID, "transactionId": "pi_x", "amount": 150})
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = a.do(http.MethodPost, "/payments", buyer, gin.H{"offerId": mine.ID, "transactionId": "pi_1", "amount": 1})
	assert.Equal(t, http.StatusBadRequest, code, "amount must match the offer")
	code, _ = a.do(http.MethodPost, "/payments", buyer, pay)
	require.Equal(t, http.StatusCreated, code)
	code, _ = a.do(http.MethodPost, "/payments", buyer, pay)
	assert.Equal(t, http.StatusOK, code, "replay is idempotent")

	code, env = a.do(http.MethodGet, "/payments/"+mine.ID, agent, nil)
	require.Equal(t, http.StatusOK, code)
	var p domain.Payment
	a.data(env, &p)
	assert.Equal(t, "pi_1", p.TransactionID)
	assert.Equal(t, "paid", p.Status)

	code, env = a.do(http.MethodGet, "/sold-properties?agentEmail=ag@x.io", agent, nil)
	require.Equal(t, http.StatusOK, code)
	var sold []domain.SoldProperty
	a.data(env, &sold)
	require.Len(t, sold, 1)
	assert.Equal(t, mine.ID, sold[0].OfferID)
	assert.Equal(t, "pi_1", sold[0].TransactionID)
	assert.Equal(t, 150.0, sold[0].SoldPrice)

	code, _ = a.do(http.MethodGet, "/sold-properties?agentEmail=other@x.io", agent, nil)
	assert.Equal(t, http.StatusForbidden, code)
}

func TestPropertyEditsAndReviews(t *testing.T) {
	a := newAPI(t)
	admin := a.signUp("root@x.io", domain.RoleAdmin)
	agent := a.signUp("ag@x.io", domain.RoleAgent)
	buyer := a.signUp("buyer@x.io", domain.RoleUser)

	code, env := a.do(http.MethodPost, "/properties", agent, gin.H{"title": "A", "location": "B", "maxPrice": 10})
	require.Equal(t, http.StatusCreated, code)
	var prop domain.Property
	a.data(env, &prop)

	code, _ = a.do(http.MethodPut, "/properties/"+prop.ID, agent, gin.H{"title": "A2", "location": "B", "maxPrice": 12})
	assert.Equal(t, http.StatusOK, code)

	code, _ = a.do(http.MethodPatch, "/properties/verify/"+prop.ID, admin, gin.H{"status": "rejected"})
	require.Equal(t, http.StatusOK, code)
	code, _ = a.do(http.MethodPut, "/properties/"+prop.ID, agent, gin.H{"title": "A3", "location": "B", "maxPrice": 12})
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = a.do(http.MethodPut, "/properties/"+prop.ID, agent, gin.H{"title": ""})
	assert.Equal(t, http.StatusForbidden, code)

	code, env = a.do(http.MethodPost, "/reviews", buyer, gin.H{"propertyId": prop.ID, "rating": 5, "comment": "great"})
	require.Equal(t, http.StatusCreated, code)
	var rv domain.Review
	a.data(env, &rv)

	code, env = a.do(http.MethodGet, "/reviews/"+prop.ID, "", nil)
	require.Equal(t, http.StatusOK, code)
	var list []domain.Review
	a.data(env, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "A2", list[0].PropertyTitle)

	code, _ = a.do(http.MethodGet, "/reviews/all", buyer, nil)
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = a.do(http.MethodGet, "/reviews/all", admin, nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = a.do(http.MethodDelete, "/reviews/"+rv.ID+"?email=buyer@x.io", buyer, nil)
	assert.Equal(t, http.StatusOK, code)

	code, env = a.do(http.MethodPost, "/wishlist", buyer, gin.H{"propertyId": prop.ID})
	require.Equal(t, http.StatusCreated, code)
	var w domain.WishlistEntry
	a.data(env, &w)
	code, _ = a.do(http.MethodDelete, "/wishlist/"+w.ID, agent, nil)
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = a.do(http.MethodDelete, "/wishlist/"+w.ID, buyer, nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = a.do(http.MethodDelete, "/properties/"+prop.ID, agent, nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = a.do(http.MethodGet, "/properties/"+prop.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, code)
}
