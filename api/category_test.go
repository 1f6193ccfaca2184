package api

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryHandler_List(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "alice")
	env.addTx(t, token, "2024-03-01", "Expense", "Groceries", "12.50")

	w := env.do(t, "GET", "/api/v1/categories?type=source", token, nil)
	require.Equal(t, 200, w.Code)
	list := decode(t, w)["data"].([]any)
	assert.Len(t, list, 8)

	usage := map[string]float64{}
	for _, item := range list {
		c := item.(map[string]any)
		assert.Equal(t, "source", c["type"])
		assert.Equal(t, true, c["system"])
		usage[c["name"].(string)] = c["usage"].(float64)
	}
	assert.Equal(t, float64(1), usage["Groceries"])
	assert.Equal(t, float64(0), usage["Rent"])
}

func TestCategoryHandler_List_InvalidType(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "alice")

	w := env.do(t, "GET", "/api/v1/categories?type=bogus", token, nil)
	assert.Equal(t, 400, w.Code)
}

func TestCategoryHandler_CreateAndDelete(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "alice")

	w := env.do(t, "POST", "/api/v1/categories", token, map[string]string{"name": "Coffee", "type": "source"})
	require.Equal(t, 200, w.Code, w.Body.String())
	resp := decode(t, w)
	assert.Equal(t, "Category added", resp["message"])
	id := uint(resp["data"].(map[string]any)["id"].(float64))

	// 同一用户重复创建
	w = env.do(t, "POST", "/api/v1/categories", token, map[string]string{"name": "coffee", "type": "source"})
	assert.Equal(t, 409, w.Code)

	w = env.do(t, "DELETE", fmt.Sprintf("/api/v1/categories/%d", id), token, nil)
	require.Equal(t, 200, w.Code)
	assert.Equal(t, "Category deleted", decode(t, w)["message"])

	w = env.do(t, "DELETE", fmt.Sprintf("/api/v1/categories/%d", id), token, nil)
	assert.Equal(t, 404, w.Code)
}

func TestCategoryHandler_Create_Invalid(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "alice")

	w := env.do(t, "POST", "/api/v1/categories", token, map[string]string{"name": "  ", "type": "source"})
	assert.Equal(t, 400, w.Code)

	w = env.do(t, "POST", "/api/v1/categories", token, map[string]string{"name": "Gifts", "type": "other"})
	assert.Equal(t, 400, w.Code)
}

func TestCategoryHandler_Delete_System(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "alice")

	w := env.do(t, "DELETE", fmt.Sprintf("/api/v1/categories/%d", env.catID(t, "Rent")), token, nil)
	assert.Equal(t, 403, w.Code)
	assert.Equal(t, "Cannot delete System Categories.", decode(t, w)["message"])
}

func TestCategoryHandler_Delete_InUse(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "alice")

	w := env.do(t, "POST", "/api/v1/categories", token, map[string]string{"name": "Coffee", "type": "source"})
	require.Equal(t, 200, w.Code)
	id := uint(decode(t, w)["data"].(map[string]any)["id"].(float64))

	w = env.do(t, "POST", "/api/v1/transactions", token, map[string]any{
		"date":        "2024-03-01",
		"amount":      "3.20",
		"type_id":     env.catID(t, "Expense"),
		"category_id": id,
	})
	require.Equal(t, 200, w.Code, w.Body.String())

	w = env.do(t, "DELETE", fmt.Sprintf("/api/v1/categories/%d", id), token, nil)
	assert.Equal(t, 409, w.Code)
	assert.Equal(t, "Cannot delete: Used in 1 transactions.", decode(t, w)["message"])
}

func TestCategoryHandler_Delete_OtherUsersCategory(t *testing.T) {
	env := newTestEnv(t)
	alice := env.login(t, "alice")
	bob := env.login(t, "bob")

	w := env.do(t, "POST", "/api/v1/categories", alice, map[string]string{"name": "Coffee", "type": "source"})
	require.Equal(t, 200, w.Code)
	id := uint(decode(t, w)["data"].(map[string]any)["id"].(float64))

	w = env.do(t, "DELETE", fmt.Sprintf("/api/v1/categories/%d", id), bob, nil)
	assert.Equal(t, 404, w.Code)
}

func TestCategoryHandler_Delete_InvalidID(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "alice")

	w := env.do(t, "DELETE", "/api/v1/categories/abc", token, nil)
	assert.Equal(t, 400, w.Code)
}
