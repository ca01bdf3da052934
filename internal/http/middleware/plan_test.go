package middleware_test

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subham-proj/barelytics-server/internal/auth"
	"github.com/subham-proj/barelytics-server/internal/billing"
	"github.com/subham-proj/barelytics-server/internal/http/middleware"
	"github.com/subham-proj/barelytics-server/internal/testsupport"
	"github.com/subham-proj/barelytics-server/internal/users"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func setupGatedApp(t *testing.T, requiredPlan string) (*fiber.App, *auth.Manager, func(plan string) *users.User) {
	t.Helper()

	db := testsupport.SetupTestDB(t)
	manager := auth.NewManager(testSecret, time.Hour)

	app := fiber.New()
	app.Get("/gated",
		middleware.RequireAuth(db, manager, testsupport.GetLogger()),
		middleware.RequirePlan(requiredPlan),
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"ok": true})
		})

	seq := 0
	makeUser := func(plan string) *users.User {
		seq++
		user := testsupport.CreateTestUser(t, db, fmt.Sprintf("%s-user%d@example.com", plan, seq), "password123")
		require.NoError(t, db.Model(user).Update("plan", plan).Error)
		user.Plan = plan
		return user
	}
	return app, manager, makeUser
}

func gatedRequest(t *testing.T, app *fiber.App, manager *auth.Manager, user *users.User) *http.Response {
	t.Helper()

	req := httptest.NewRequest(fiber.MethodGet, "/gated", nil)
	if user != nil {
		token, err := manager.IssueToken(user)
		require.NoError(t, err)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestRequirePlan(t *testing.T) {
	app, manager, makeUser := setupGatedApp(t, billing.PlanPro)

	t.Run("blocks lower plans with the upgrade message", func(t *testing.T) {
		resp := gatedRequest(t, app, manager, makeUser(billing.PlanFree))
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		var body map[string]any
		require.NoError(t, json.Unmarshal(raw, &body))
		assert.Equal(t, "This feature requires the Pro plan.", body["error"])
	})

	t.Run("allows the required plan and above", func(t *testing.T) {
		resp := gatedRequest(t, app, manager, makeUser(billing.PlanPro))
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		resp = gatedRequest(t, app, manager, makeUser(billing.PlanBusiness))
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("rejects missing token", func(t *testing.T) {
		resp := gatedRequest(t, app, manager, nil)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}
