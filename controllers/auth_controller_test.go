package controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authData struct {
	Token string `json:"token"`
	User  struct {
		ID       uint   `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
	} `json:"user"`
}

func TestRegisterIssuesUsableToken(t *testing.T) {
	r, _ := newTestEnv(t)

	w := doJSON(r, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": "dave",
		"email":    "dave@example.com",
		"password": "hunter22",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var data authData
	decodeData(t, w, &data)
	require.NotEmpty(t, data.Token)
	assert.Equal(t, "dave", data.User.Username)
	assert.Equal(t, "dave@example.com", data.User.Email)

	w = doJSON(r, http.MethodGet, "/api/v1/me", data.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me struct {
		Username string `json:"username"`
	}
	decodeData(t, w, &me)
	assert.Equal(t, "dave", me.Username)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	r, db := newTestEnv(t)
	createUser(t, db, "alice")

	w := doJSON(r, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": "alice",
		"email":    "fresh@example.com",
		"password": "hunter22",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(r, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": "alice2",
		"email":    "alice@example.com",
		"password": "hunter22",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRegisterValidation(t *testing.T) {
	r, _ := newTestEnv(t)

	w := doJSON(r, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": "ed",
		"email":    "not-an-email",
		"password": "short",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var data struct {
		Errors map[string]string `json:"errors"`
	}
	decodeData(t, w, &data)
	assert.Contains(t, data.Errors, "Username")
	assert.Contains(t, data.Errors, "Email")
	assert.Contains(t, data.Errors, "Password")
}

func TestLogin(t *testing.T) {
	r, db := newTestEnv(t)
	createUser(t, db, "alice")

	w := doJSON(r, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "password-1",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var data authData
	decodeData(t, w, &data)
	assert.NotEmpty(t, data.Token)
	assert.Equal(t, "alice", data.User.Username)

	// Wrong password and unknown email fail identically.
	w = doJSON(r, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(r, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "ghost@example.com",
		"password": "password-1",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMeAnonymousIsUnauthorized(t *testing.T) {
	r, _ := newTestEnv(t)
	w := doJSON(r, http.MethodGet, "/api/v1/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogoutBlacklistsToken(t *testing.T) {
	r, db := newTestEnv(t)
	_, token := createUser(t, db, "alice")

	w := doJSON(r, http.MethodGet, "/api/v1/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodPost, "/api/v1/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodGet, "/api/v1/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
