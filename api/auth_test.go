package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthHandler_SessionLifecycle(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "alice")

	w := env.do(t, "GET", "/api/v1/auth/session", token, nil)
	require.Equal(t, 200, w.Code)
	data := decode(t, w)["data"].(map[string]any)
	assert.Equal(t, "alice@example.com", data["email"])
	assert.Equal(t, "£", data["currency"])
	assert.NotZero(t, data["user_id"])

	w = env.do(t, "POST", "/api/v1/auth/logout", token, nil)
	require.Equal(t, 200, w.Code)

	// 退出后令牌失效
	w = env.do(t, "GET", "/api/v1/profile", token, nil)
	assert.Equal(t, 401, w.Code)
	assert.Equal(t, "session has been signed out", decode(t, w)["message"])

	w = env.do(t, "GET", "/api/v1/auth/session", token, nil)
	require.Equal(t, 200, w.Code)
	resp := decode(t, w)
	assert.Contains(t, resp, "data")
	assert.Nil(t, resp["data"])
}

func TestAuthHandler_Session_Anonymous(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, "GET", "/api/v1/auth/session", "", nil)
	require.Equal(t, 200, w.Code)
	resp := decode(t, w)
	assert.Contains(t, resp, "data")
	assert.Nil(t, resp["data"])
}

func TestAuthHandler_Register_Duplicate(t *testing.T) {
	env := newTestEnv(t)
	env.login(t, "bob")

	w := env.do(t, "POST", "/api/v1/auth/register", "", map[string]string{
		"username": "bob",
		"password": "another123",
	})
	assert.Equal(t, 409, w.Code)
}

func TestAuthHandler_Register_InvalidRequest(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, "POST", "/api/v1/auth/register", "", map[string]string{
		"username": "carol",
		"password": "123",
	})
	assert.Equal(t, 400, w.Code)
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	env := newTestEnv(t)
	env.login(t, "dave")

	w := env.do(t, "POST", "/api/v1/auth/login", "", map[string]string{
		"username": "dave",
		"password": "wrong-password",
	})
	assert.Equal(t, 401, w.Code)
}

func TestAuthHandler_Login_ByEmail(t *testing.T) {
	env := newTestEnv(t)
	env.login(t, "erin")

	w := env.do(t, "POST", "/api/v1/auth/login", "", map[string]string{
		"username": "erin@example.com",
		"password": "secret123",
	})
	assert.Equal(t, 200, w.Code)
}

func TestAuthHandler_ChangePassword(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "frank")

	w := env.do(t, "PUT", "/api/v1/auth/password", token, map[string]string{
		"old_password":     "secret123",
		"new_password":     "newsecret1",
		"confirm_password": "different1",
	})
	assert.Equal(t, 400, w.Code)

	w = env.do(t, "PUT", "/api/v1/auth/password", token, map[string]string{
		"old_password":     "secret123",
		"new_password":     "newsecret1",
		"confirm_password": "newsecret1",
	})
	require.Equal(t, 200, w.Code, w.Body.String())

	w = env.do(t, "POST", "/api/v1/auth/login", "", map[string]string{
		"username": "frank",
		"password": "newsecret1",
	})
	assert.Equal(t, 200, w.Code)
}

func TestAuthHandler_ProtectedRoute_NoToken(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, "GET", "/api/v1/transactions", "", nil)
	assert.Equal(t, 401, w.Code)
}
