package signup

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/inkpress/inkpress/internal/config"
	"github.com/inkpress/inkpress/internal/db/controller/user"
	"github.com/inkpress/inkpress/internal/db/models"
	"github.com/inkpress/inkpress/internal/web/session"
)

// noOpViews is a minimal Fiber Views engine used for tests.
// It writes the "error" field from the provided fiber.Map (if any)
// so tests can assert error messages rendered by handlers.
type noOpViews struct{}

func (noOpViews) Load() error { return nil }

func (noOpViews) Render(w io.Writer, name string, data interface{}, _ ...string) error {
	if m, ok := data.(fiber.Map); ok {
		if v, exists := m["error"]; exists && v != nil {
			_, _ = io.WriteString(w, v.(string))
			return nil
		}
	}

	_, _ = io.WriteString(w, name)

	return nil
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open sqlite in-memory db: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("failed to migrate user model: %v", err)
	}

	return db
}

func newService(t *testing.T, db *gorm.DB) *fiber.App {
	t.Helper()

	app := fiber.New(fiber.Config{Views: noOpViews{}})

	cfg := &config.Config{
		Title: "Inkpress",
		Webserver: config.Webserver{
			URL:     "http://localhost",
			Port:    8080,
			Session: config.Session{ExpiryTime: time.Minute},
		},
	}

	var s Service
	if err := s.Init(app, cfg, db); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	return app
}

func performPost(t *testing.T, app *fiber.App, form url.Values) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, Path+"/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}

	return resp
}

func TestPost_Success_SignsInAndRedirects(t *testing.T) {
	db := newTestDB(t)
	app := newService(t, db)

	form := url.Values{
		"email":    {"alice@example.com"},
		"name":     {"Alice"},
		"password": {"longenoughpass"},
	}
	resp := performPost(t, app, form)

	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected 302 Found, got %d", resp.StatusCode)
	}

	if loc := resp.Header.Get("Location"); loc != "/dashboard" {
		t.Errorf("expected redirect to /dashboard, got %s", loc)
	}

	created, err := user.SignIn(db, "alice@example.com", "longenoughpass")
	if err != nil {
		t.Fatalf("created account does not authenticate: %v", err)
	}

	// signing up also signs the user in
	if !strings.Contains(resp.Header.Get("Set-Cookie"), session.CookieName+"="+created.ID) {
		t.Errorf("expected session cookie, got %q", resp.Header.Get("Set-Cookie"))
	}
}

func TestPost_ValidationErrors(t *testing.T) {
	db := newTestDB(t)
	app := newService(t, db)

	tests := []struct {
		name    string
		form    url.Values
		wantMsg string
	}{
		{
			name: "invalid email",
			form: url.Values{
				"email":    {"not-an-email"},
				"name":     {"Alice"},
				"password": {"longenoughpass"},
			},
			wantMsg: "A valid email address is required",
		},
		{
			name: "missing name",
			form: url.Values{
				"email":    {"alice@example.com"},
				"password": {"longenoughpass"},
			},
			wantMsg: "Name is required",
		},
		{
			name: "short password",
			form: url.Values{
				"email":    {"alice@example.com"},
				"name":     {"Alice"},
				"password": {"short"},
			},
			wantMsg: "Password must be at least 8 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := performPost(t, app, tt.form)
			defer func() { _ = resp.Body.Close() }()

			if resp.StatusCode != http.StatusOK {
				t.Fatalf("expected 200 OK on render error page, got %d", resp.StatusCode)
			}

			body, _ := io.ReadAll(resp.Body)
			if !strings.Contains(string(body), tt.wantMsg) {
				t.Fatalf("body = %q, want %q", string(body), tt.wantMsg)
			}
		})
	}

	var count int64
	db.Model(&models.User{}).Count(&count)
	if count != 0 {
		t.Errorf("created %d users on invalid input, want 0", count)
	}
}

func TestPost_DuplicateEmail_RendersError(t *testing.T) {
	db := newTestDB(t)
	app := newService(t, db)

	if _, err := user.SignUp(db, "alice@example.com", "Alice", "longenoughpass"); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	form := url.Values{
		"email":    {"alice@example.com"},
		"name":     {"Other Alice"},
		"password": {"anotherlongpass"},
	}
	resp := performPost(t, app, form)

	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 OK on render error page, got %d", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "User already exists with this email") {
		t.Fatalf("body = %q", string(body))
	}
}
