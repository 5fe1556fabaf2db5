package http

import (
	"net/http"
	"testing"

	"github.com/fleetcrm/fleet-backend-go/internal/domain/auth"
	"github.com/fleetcrm/fleet-backend-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthHandler_Login(t *testing.T) {
	svc := &fakeAuthService{tokens: auth.TokenResponse{
		AccessToken:           "access",
		AccessTokenExpiresIn:  1700000000,
		RefreshToken:          "refresh",
		RefreshTokenExpiresIn: 1700600000,
	}}
	s := newTestServer(t, Handlers{Auth: NewAuthHandler(testJWT(), svc)})

	w := s.do("", jsonRequest(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    "  Owner@Fleet.Test ",
		"password": "password123",
	}))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "owner@fleet.test", svc.lastLogin.Email)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "refresh_token", cookies[0].Name)
	assert.Equal(t, "refresh", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestAuthHandler_LoginErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    interface{}
		svcErr  error
		want    int
		errCode string
	}{
		{"invalid json", "not-an-object", nil, http.StatusBadRequest, "BAD_REQUEST"},
		{"validation", map[string]string{"email": "nope", "password": "x"}, nil, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"bad credentials", map[string]string{"email": "a@b.co", "password": "password123"}, auth.ErrInvalidCredentials, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"inactive", map[string]string{"email": "a@b.co", "password": "password123"}, auth.ErrAccountInactive, http.StatusForbidden, "FORBIDDEN"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, Handlers{Auth: NewAuthHandler(testJWT(), &fakeAuthService{err: tt.svcErr})})

			w := s.do("", jsonRequest(t, http.MethodPost, "/api/v1/auth/login", tt.body))
			require.Equal(t, tt.want, w.Code, w.Body.String())
			env := decodeEnvelope(t, w)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.errCode, env.Error.Code)
		})
	}
}

func TestAuthHandler_RefreshToken(t *testing.T) {
	svc := &fakeAuthService{}
	s := newTestServer(t, Handlers{Auth: NewAuthHandler(testJWT(), svc)})

	req := jsonRequest(t, http.MethodPost, "/api/v1/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: "refresh_token", Value: "from-cookie"})
	w := s.do("", req)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "from-cookie", svc.refreshed)

	w = s.do("", jsonRequest(t, http.MethodPost, "/api/v1/auth/refresh", map[string]string{"refresh_token": "from-body"}))
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "from-body", svc.refreshed)

	w = s.do("", jsonRequest(t, http.MethodPost, "/api/v1/auth/refresh", map[string]string{}))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestAuthHandler_Logout(t *testing.T) {
	svc := &fakeAuthService{}
	s := newTestServer(t, Handlers{Auth: NewAuthHandler(testJWT(), svc)})

	req := jsonRequest(t, http.MethodPost, "/api/v1/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: "refresh_token", Value: "refresh"})
	req.Header.Set("Authorization", "Bearer access-token")
	w := s.do("", req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, auth.LogoutRequest{RefreshToken: "refresh", AccessToken: "access-token"}, svc.lastLogout)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "", cookies[0].Value)
	assert.True(t, cookies[0].Expires.Unix() <= 0)
}

func TestAuthHandler_LogoutWithoutToken(t *testing.T) {
	s := newTestServer(t, Handlers{})
	w := s.do("", jsonRequest(t, http.MethodPost, "/api/v1/auth/logout", nil))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestAuthHandler_MeAndChangePassword(t *testing.T) {
	svc := &fakeAuthService{}
	s := newTestServer(t, Handlers{Auth: NewAuthHandler(testJWT(), svc)})

	w := s.do(user.RoleDriver, jsonRequest(t, http.MethodGet, "/api/v1/auth/me", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"driver_id":"drv-1"`)

	w = s.do(user.RoleAdmin, jsonRequest(t, http.MethodPost, "/api/v1/auth/change-password", map[string]string{
		"current_password": "password123",
		"new_password":     "password456",
	}))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "password456", svc.lastChange.NewPassword)

	svc.err = auth.ErrWrongPassword
	w = s.do(user.RoleAdmin, jsonRequest(t, http.MethodPost, "/api/v1/auth/change-password", map[string]string{
		"current_password": "wrong-pass",
		"new_password":     "password456",
	}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
