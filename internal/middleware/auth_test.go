package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spartacusmuoz/transferte-prenota/internal/domain"
	"github.com/spartacusmuoz/transferte-prenota/internal/middleware"
)

// parserFunc adapts a function to the TokenParser interface.
type parserFunc func(token string) (domain.Actor, error)

func (f parserFunc) Parse(token string) (domain.Actor, error) { return f(token) }

func TestAuthenticator_ValidToken_InjectsActor(t *testing.T) {
	want := domain.Actor{ID: uuid.New(), Role: domain.RoleManager}
	parser := parserFunc(func(token string) (domain.Actor, error) {
		assert.Equal(t, "good-token", token)
		return want, nil
	})

	var got domain.Actor
	var found bool
	h := middleware.NewAuthenticator(parser)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, found = middleware.ActorFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/trasferte", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, found, "actor must be stored in the request context")
	assert.Equal(t, want, got)
}

func TestAuthenticator_MissingHeader_Returns401(t *testing.T) {
	parser := parserFunc(func(string) (domain.Actor, error) {
		t.Fatal("parser must not be called without a bearer token")
		return domain.Actor{}, nil
	})

	h := middleware.NewAuthenticator(parser)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/trasferte", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "unauthorized")
}

func TestAuthenticator_NonBearerHeader_Returns401(t *testing.T) {
	parser := parserFunc(func(string) (domain.Actor, error) {
		t.Fatal("parser must not be called for a non-bearer header")
		return domain.Actor{}, nil
	})

	h := middleware.NewAuthenticator(parser)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/trasferte", nil)
	req.Header.Set("Authorization", "Basic bWFyaWE6c2VjcmV0")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticator_ParserRejectsToken_Returns401(t *testing.T) {
	parser := parserFunc(func(string) (domain.Actor, error) {
		return domain.Actor{}, errors.New("token is expired")
	})

	h := middleware.NewAuthenticator(parser)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/trasferte", nil)
	req.Header.Set("Authorization", "Bearer expired-token")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	// Expiry details must not leak to the client.
	assert.NotContains(t, rec.Body.String(), "expired")
}
