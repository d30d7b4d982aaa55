package middleware

import (
	"encoding/json"
	"net/http"
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"

	"crewbase/internal/models"
	"crewbase/internal/testutil"
)

func setupAuthApp(t *testing.T) (*fiber.App, *models.User, func()) {
	t.Helper()

	database, cleanup := testutil.TestDB(t)

	app := fiber.New()
	sessionMiddleware, _ := session.NewWithStore(session.Config{
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
	})
	app.Use(sessionMiddleware)

	authMiddleware := NewAuthMiddleware(database)

	app.Post("/login/:id", func(c fiber.Ctx) error {
		sess := session.FromContext(c)
		sess.Set(SessionUserKey, c.Params("id"))
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/protected", authMiddleware.RequireAuth, func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"email": CurrentUser(c).Email})
	})
	app.Get("/optional", authMiddleware.OptionalAuth, func(c fiber.Ctx) error {
		if user := CurrentUser(c); user != nil {
			return c.JSON(fiber.Map{"email": user.Email})
		}
		return c.JSON(fiber.Map{"email": nil})
	})

	user := testutil.CreateTestUser(t, database, "Alice", "alice@hedgebox.net", "hunter2hunter2")
	return app, user, cleanup
}

func TestRequireAuth_NoSession(t *testing.T) {
	app, _, cleanup := setupAuthApp(t)
	defer cleanup()

	req, _ := http.NewRequest("GET", "/protected", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}

	var body map[string]any
	json.NewDecoder(resp.Body).Decode(&body)
	if body["code"] != models.CodeNotAuthenticated {
		t.Errorf("code = %v, want not_authenticated", body["code"])
	}
	if body["detail"] != "Authentication credentials were not provided." {
		t.Errorf("detail = %v", body["detail"])
	}
}

func TestRequireAuth_WithSession(t *testing.T) {
	app, user, cleanup := setupAuthApp(t)
	defer cleanup()

	loginReq, _ := http.NewRequest("POST", "/login/"+strconv.FormatInt(user.ID, 10), nil)
	loginResp, err := app.Test(loginReq)
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	loginResp.Body.Close()

	req, _ := http.NewRequest("GET", "/protected", nil)
	for _, c := range loginResp.Cookies() {
		req.AddCookie(c)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body map[string]any
	json.NewDecoder(resp.Body).Decode(&body)
	if body["email"] != user.Email {
		t.Errorf("email = %v, want %q", body["email"], user.Email)
	}
}

func TestRequireAuth_StaleUserID(t *testing.T) {
	app, _, cleanup := setupAuthApp(t)
	defer cleanup()

	// Session points at a user that no longer exists
	loginReq, _ := http.NewRequest("POST", "/login/999999", nil)
	loginResp, err := app.Test(loginReq)
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	loginResp.Body.Close()

	req, _ := http.NewRequest("GET", "/protected", nil)
	for _, c := range loginResp.Cookies() {
		req.AddCookie(c)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 for deleted user", resp.StatusCode)
	}
}

func TestOptionalAuth_NoSession(t *testing.T) {
	app, _, cleanup := setupAuthApp(t)
	defer cleanup()

	req, _ := http.NewRequest("GET", "/optional", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200 without a session", resp.StatusCode)
	}
}
