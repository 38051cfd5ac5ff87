package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignInSetsCookie(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/api/v1/auth/session", "", `{"idToken":"admin-token"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "admin_session", cookies[0].Name)
	assert.Equal(t, "new-session", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestSignInErrors(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/api/v1/auth/session", "", `{"idToken":""}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(http.MethodPost, "/api/v1/auth/session", "", `{"idToken":"client-token"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Access denied", decodeError(t, rec.Body.Bytes()).Message)
}

func TestSessionFromCookie(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/session", nil)
	req.AddCookie(&http.Cookie{Name: "admin_session", Value: subAdminSession})
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"role":"sub-admin"`)
}

func TestSignOutClearsCookie(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodDelete, "/api/v1/auth/session", adminSession, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, adminSession, env.auth.signedOut)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "", cookies[0].Value)
	assert.Less(t, cookies[0].MaxAge, 0)
}
