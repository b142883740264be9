package ez

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"homehunt-server/internal/domain"
)

type created struct{ ID string }

func (created) HTTPStatus() int { return http.StatusCreated }

func TestStatusOf(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: x", domain.ErrInvalid), 400},
		{fmt.Errorf("%w: x", domain.ErrUnauthorized), 401},
		{fmt.Errorf("%w: x", domain.ErrForbidden), 403},
		{fmt.Errorf("%w: x", domain.ErrNotFound), 404},
		{fmt.Errorf("%w: x", domain.ErrConflict), 409},
		{fmt.Errorf("%w: x", domain.ErrUnavailable), 503},
		{NotFound("gone"), 404},
		{errors.New("driver: bad connection"), 500},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusOf(tt.err), tt.err.Error())
	}
}

func TestRegisterAction(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	e := New(r)

	type in struct {
		Name string `json:"name" binding:"required"`
	}
	RegisterAction(e, Action[in, created]{
		Method: http.MethodPost, Path: "/things", Binder: BindJSON,
		Handler: func(_ *gin.Context, in *in) (created, error) {
			if in.Name == "boom" {
				return created{}, errors.New("secret dsn leaked")
			}
			if in.Name == "dup" {
				return created{}, fmt.Errorf("%w: dup", domain.ErrConflict)
			}
			return created{ID: in.Name}, nil
		},
	})
	type idIn struct {
		ID string `uri:"id" binding:"required"`
	}
	RegisterAction(e, Action[idIn, string]{
		Method: http.MethodPatch, Path: "/things/:id", Binder: BindURI,
		Handler: func(_ *gin.Context, in *idIn) (string, error) { return in.ID, nil },
	})

	do := func(method, path, body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		return w
	}

	w := do(http.MethodPost, "/things", `{"name":"a"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"code":0,"msg":"OK","data":{"ID":"a"}}`, w.Body.String())

	w = do(http.MethodPost, "/things", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(http.MethodPost, "/things", `{"name":"dup"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "precondition failed: dup")

	w = do(http.MethodPost, "/things", `{"name":"boom"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "dsn")

	w = do(http.MethodPatch, "/things/42", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"code":0,"msg":"OK","data":"42"}`, w.Body.String())
}
