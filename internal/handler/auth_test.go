package handler_test

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spartacusmuoz/transferte-prenota/internal/domain"
	"github.com/spartacusmuoz/transferte-prenota/internal/service"
)

func TestRegister(t *testing.T) {
	ts := newTestServer(t, testActor(), serverDeps{
		auth: &mockAuthServicer{
			register: func(_ context.Context, input service.RegisterInput) (domain.Employee, error) {
				assert.Equal(t, "maria.rossi@example.com", input.Email)
				assert.Equal(t, "secret-password", input.Password)
				return domain.Employee{
					ID:           uuid.New(),
					FirstName:    input.FirstName,
					LastName:     input.LastName,
					Email:        input.Email,
					Role:         domain.RoleEmployee,
					PasswordHash: "$2a$10$secret",
				}, nil
			},
		},
	})

	body := `{"first_name":"Maria","last_name":"Rossi","email":"maria.rossi@example.com","password":"secret-password"}`
	resp, err := http.Post(ts.URL+"/auth/register", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var got map[string]any
	decodeBody(t, resp, &got)
	assert.Equal(t, "Maria", got["first_name"])
	assert.Equal(t, "employee", got["role"])
	assert.NotContains(t, got, "password_hash", "hash must never appear in responses")
	assert.NotContains(t, got, "password")
}

func TestRegister_DuplicateEmail(t *testing.T) {
	ts := newTestServer(t, testActor(), serverDeps{
		auth: &mockAuthServicer{
			register: func(_ context.Context, _ service.RegisterInput) (domain.Employee, error) {
				return domain.Employee{}, domain.ErrConflict
			},
		},
	})

	body := `{"first_name":"Maria","last_name":"Rossi","email":"taken@example.com","password":"secret-password"}`
	resp, err := http.Post(ts.URL+"/auth/register", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestLogin(t *testing.T) {
	ts := newTestServer(t, testActor(), serverDeps{
		auth: &mockAuthServicer{
			login: func(_ context.Context, email, password string) (string, domain.Employee, error) {
				assert.Equal(t, "maria.rossi@example.com", email)
				assert.Equal(t, "secret-password", password)
				return "signed.jwt.token", domain.Employee{
					ID:    uuid.New(),
					Email: email,
					Role:  domain.RoleEmployee,
				}, nil
			},
		},
	})

	body := `{"email":"maria.rossi@example.com","password":"secret-password"}`
	resp, err := http.Post(ts.URL+"/auth/login", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got map[string]any
	decodeBody(t, resp, &got)
	assert.Equal(t, "signed.jwt.token", got["access_token"])
	assert.Equal(t, "bearer", got["token_type"])
}

func TestLogin_BadCredentials(t *testing.T) {
	ts := newTestServer(t, testActor(), serverDeps{
		auth: &mockAuthServicer{
			login: func(_ context.Context, _, _ string) (string, domain.Employee, error) {
				return "", domain.Employee{}, domain.ErrUnauthorized
			},
		},
	})

	body := `{"email":"maria.rossi@example.com","password":"wrong"}`
	resp, err := http.Post(ts.URL+"/auth/login", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
