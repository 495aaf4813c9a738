package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Irenepaul17/new-log-sub000/internal/auth"
	"github.com/Irenepaul17/new-log-sub000/internal/errs"
	"github.com/Irenepaul17/new-log-sub000/internal/models"
)

const secret = "test-secret"

func TestTokenRoundTrip(t *testing.T) {
	u := &models.User{ID: 7, Email: "je@rail.in", Name: "Asha", Role: models.RoleJE}
	tok, err := auth.GenerateToken(secret, time.Hour, u)
	require.NoError(t, err)

	claims, err := auth.ValidateToken(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, models.RoleJE, claims.Role)
	assert.Equal(t, "Asha", claims.Name)

	_, err = auth.ValidateToken("other", tok)
	assert.Error(t, err)
}

func TestExpiredToken(t *testing.T) {
	u := &models.User{ID: 1, Email: "a@b.c", Role: models.RoleAdmin}
	tok, err := auth.GenerateToken(secret, -time.Minute, u)
	require.NoError(t, err)
	_, err = auth.ValidateToken(secret, tok)
	assert.Error(t, err)
}

func TestPassword(t *testing.T) {
	hash, err := auth.HashPassword("s3cret")
	require.NoError(t, err)
	assert.True(t, auth.CheckPassword("s3cret", hash))
	assert.False(t, auth.CheckPassword("wrong", hash))
}

func protected(mw ...func(http.Handler) http.Handler) http.Handler {
	var h http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(auth.GetUser(r.Context()).Email))
	})
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	return h
}

func TestMiddleware(t *testing.T) {
	h := protected(auth.Middleware(secret, nil))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"unauthorized"}`, rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	tok, _ := auth.GenerateToken(secret, time.Hour, &models.User{ID: 3, Email: "t@rail.in", Role: models.RoleTechnician})
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "t@rail.in", rec.Body.String())
}

func TestRequireRole(t *testing.T) {
	h := protected(auth.Middleware(secret, nil), auth.RequireRole(models.RoleSSE))

	call := func(role models.Role) int {
		tok, _ := auth.GenerateToken(secret, time.Hour, &models.User{ID: 2, Email: "x@rail.in", Role: role})
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}
	assert.Equal(t, http.StatusForbidden, call(models.RoleJE))
	assert.Equal(t, http.StatusOK, call(models.RoleSSE))
	assert.Equal(t, http.StatusOK, call(models.RoleAdmin))
}

func TestMiddlewareChecksAccount(t *testing.T) {
	accounts := map[uint]*models.User{
		3: {ID: 3, Email: "t@rail.in", Role: models.RoleJE, Active: true},
		4: {ID: 4, Email: "gone@rail.in", Role: models.RoleSSE, Active: false},
	}
	lookup := func(_ context.Context, id uint) (*models.User, error) {
		u, ok := accounts[id]
		if !ok {
			return nil, errs.NotFound("user")
		}
		return u, nil
	}
	h := protected(auth.Middleware(secret, lookup), auth.RequireRole(models.RoleJE))

	call := func(u *models.User) *httptest.ResponseRecorder {
		tok, err := auth.GenerateToken(secret, time.Hour, u)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	// Promoted after the token was issued: the stored role applies.
	rec := call(&models.User{ID: 3, Email: "t@rail.in", Role: models.RoleTechnician})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = call(&models.User{ID: 4, Email: "gone@rail.in", Role: models.RoleSSE})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error":"account is disabled"}`, rec.Body.String())

	rec = call(&models.User{ID: 9, Email: "x@rail.in", Role: models.RoleAdmin})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	accounts[3].Role = models.RoleTechnician
	rec = call(&models.User{ID: 3, Email: "t@rail.in", Role: models.RoleJE})
	assert.Equal(t, http.StatusForbidden, rec.Code, "demoted account loses supervisor routes")
}
