package http

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/school-kit/helpdesk-service/internal/api/http/handlers"
	"github.com/school-kit/helpdesk-service/internal/domain"
	"github.com/school-kit/helpdesk-service/internal/events"
	"github.com/school-kit/helpdesk-service/internal/export"
	"github.com/school-kit/helpdesk-service/internal/identity"
	"github.com/school-kit/helpdesk-service/internal/observability"
	"github.com/school-kit/helpdesk-service/internal/repository"
	"github.com/school-kit/helpdesk-service/internal/service"
	"github.com/school-kit/helpdesk-service/internal/store"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	records := store.NewMemoryStore()
	if err := records.SetUsers(context.Background(), []domain.User{
		{Username: "jdoe", Password: "password", Name: "Jane Doe", Role: domain.RoleTeacher},
		{Username: "mlee", Password: "password", Name: "Morgan Lee", Role: domain.RoleTeacher},
		{Username: "admin1", Password: "password", Name: "Sam Ortiz", Role: domain.RoleAdmin},
		{Username: "dwhitfield", Password: "password", Name: "Dana Whitfield", Role: domain.RolePrincipal},
	}); err != nil {
		t.Fatal(err)
	}

	ticketRepo := repository.NewTicketRepository(records)
	userRepo := repository.NewUserRepository(records)
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo: ticketRepo,
		UserRepo:   userRepo,
		Dispatcher: events.NewDispatcher(),
	})
	provider := identity.NewProvider(userRepo)

	app := fiber.New()
	metrics := observability.NewMetrics()
	RegisterMiddlewares(app, zap.NewNop(), metrics, 5*time.Second)
	RegisterRoutes(app, RouteConfig{
		Health:   handlers.NewHealthHandler(nil),
		Auth:     handlers.NewAuthHandler(provider),
		Tickets:  handlers.NewTicketsHandler(ticketService),
		Users:    handlers.NewUsersHandler(service.NewUserService(userRepo)),
		Reports:  handlers.NewReportsHandler(ticketService, export.NewExporter(records)),
		Catalog:  handlers.NewCatalogHandler(),
		Metrics:  handlers.NewMetricsHandler(metrics),
		Identity: identity.NewMiddleware(provider),
	})
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, user string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, path, reader)
	if err != nil {
		t.Fatal(err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != "" {
		cred := base64.StdEncoding.EncodeToString([]byte(user + ":password"))
		req.Header.Set("Authorization", "Basic "+cred)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("invalid response body %q: %v", raw, err)
		}
	}
	return resp, decoded
}

func errorCode(t *testing.T, body map[string]any) string {
	t.Helper()
	wrapper, ok := body["error"].(map[string]any)
	if !ok {
		t.Fatalf("no error envelope in %v", body)
	}
	code, _ := wrapper["code"].(string)
	return code
}

func submitBody() map[string]any {
	return map[string]any{
		"category":    "Hardware",
		"subcategory": "Monitor",
		"location":    "Room 101",
		"priority":    "High",
		"description": "Monitor flickers",
	}
}

func submitTicket(t *testing.T, app *fiber.App, user string) string {
	t.Helper()
	resp, body := doJSON(t, app, "POST", "/api/tickets", user, submitBody())
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("submit status %d: %v", resp.StatusCode, body)
	}
	data := body["data"].(map[string]any)
	return data["id"].(string)
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)
	resp, _ := doJSON(t, app, "GET", "/health/live", "", nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	resp, _ = doJSON(t, app, "GET", "/health/ready", "", nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
}

func TestLogin(t *testing.T) {
	app := newTestApp(t)

	resp, body := doJSON(t, app, "POST", "/auth/login", "", map[string]any{
		"username": "jdoe", "password": "password",
	})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status %d: %v", resp.StatusCode, body)
	}
	data := body["data"].(map[string]any)
	if data["username"] != "jdoe" || data["role"] != "teacher" {
		t.Fatalf("data = %v", data)
	}
	if _, leaked := data["password"]; leaked {
		t.Fatal("credential leaked in login response")
	}

	resp, body = doJSON(t, app, "POST", "/auth/login", "", map[string]any{
		"username": "jdoe", "password": "wrong",
	})
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("status %d: %v", resp.StatusCode, body)
	}
}

func TestAuthRequired(t *testing.T) {
	app := newTestApp(t)
	resp, body := doJSON(t, app, "GET", "/api/tickets", "", nil)
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("status %d: %v", resp.StatusCode, body)
	}
	if errorCode(t, body) != "UNAUTHORIZED" {
		t.Fatalf("body = %v", body)
	}
}

func TestTicketWorkflowOverHTTP(t *testing.T) {
	app := newTestApp(t)

	id := submitTicket(t, app, "jdoe")

	// Teachers cannot assign.
	resp, _ := doJSON(t, app, "POST", "/api/tickets/"+id+"/assign", "jdoe", map[string]any{"assignee": "admin1"})
	if resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("teacher assign status %d", resp.StatusCode)
	}

	resp, body := doJSON(t, app, "POST", "/api/tickets/"+id+"/assign", "admin1", map[string]any{"assignee": "admin1"})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("assign status %d: %v", resp.StatusCode, body)
	}

	// Illegal jump surfaces as 422 with the transition code.
	resp, body = doJSON(t, app, "POST", "/api/tickets/"+id+"/status", "admin1", map[string]any{"status": "Closed"})
	if resp.StatusCode != fiber.StatusUnprocessableEntity || errorCode(t, body) != "INVALID_TRANSITION" {
		t.Fatalf("status %d: %v", resp.StatusCode, body)
	}

	for _, next := range []string{"In Progress", "Resolved"} {
		resp, body = doJSON(t, app, "POST", "/api/tickets/"+id+"/status", "admin1", map[string]any{"status": next})
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("to %s status %d: %v", next, resp.StatusCode, body)
		}
	}

	// Only the submitter may close a resolved ticket.
	resp, body = doJSON(t, app, "POST", "/api/tickets/"+id+"/close", "mlee", map[string]any{"note": ""})
	if resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("status %d: %v", resp.StatusCode, body)
	}
	resp, body = doJSON(t, app, "POST", "/api/tickets/"+id+"/close", "jdoe", map[string]any{"note": "works now"})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("close status %d: %v", resp.StatusCode, body)
	}
	data := body["data"].(map[string]any)
	if data["status"] != "Closed" || data["closedAt"] == nil {
		t.Fatalf("data = %v", data)
	}
}

func TestTicketVisibility(t *testing.T) {
	app := newTestApp(t)

	jdoeTicket := submitTicket(t, app, "jdoe")
	mleeTicket := submitTicket(t, app, "mlee")

	t.Run("teacher sees only own tickets", func(t *testing.T) {
		_, body := doJSON(t, app, "GET", "/api/tickets", "jdoe", nil)
		data := body["data"].([]any)
		if len(data) != 1 {
			t.Fatalf("data = %v", data)
		}
		ticket := data[0].(map[string]any)
		if ticket["id"] != jdoeTicket {
			t.Fatalf("ticket = %v", ticket)
		}
	})

	t.Run("admin sees all", func(t *testing.T) {
		_, body := doJSON(t, app, "GET", "/api/tickets", "admin1", nil)
		if data := body["data"].([]any); len(data) != 2 {
			t.Fatalf("data = %v", data)
		}
	})

	t.Run("foreign ticket reads as missing", func(t *testing.T) {
		resp, body := doJSON(t, app, "GET", "/api/tickets/"+mleeTicket, "jdoe", nil)
		if resp.StatusCode != fiber.StatusNotFound || errorCode(t, body) != "NOT_FOUND" {
			t.Fatalf("status %d: %v", resp.StatusCode, body)
		}
	})
}

func TestValidationOverHTTP(t *testing.T) {
	app := newTestApp(t)

	body := submitBody()
	delete(body, "description")
	resp, decoded := doJSON(t, app, "POST", "/api/tickets", "jdoe", body)
	if resp.StatusCode != fiber.StatusBadRequest || errorCode(t, decoded) != "VALIDATION_FAILED" {
		t.Fatalf("status %d: %v", resp.StatusCode, decoded)
	}
}

func TestRoleGuards(t *testing.T) {
	app := newTestApp(t)
	submitTicket(t, app, "jdoe")

	tests := []struct {
		name   string
		method string
		path   string
		user   string
		body   any
		want   int
	}{
		{"teacher cannot list users", "GET", "/api/users", "jdoe", nil, fiber.StatusForbidden},
		{"teacher cannot view reports", "GET", "/api/reports", "jdoe", nil, fiber.StatusForbidden},
		{"principal views reports", "GET", "/api/reports", "dwhitfield", nil, fiber.StatusOK},
		{"principal cannot create users", "POST", "/api/users", "dwhitfield",
			map[string]any{"username": "x", "password": "pw", "name": "X", "role": "teacher"}, fiber.StatusForbidden},
		{"admin exports csv", "GET", "/api/export/csv", "admin1", nil, fiber.StatusOK},
		{"principal cannot export bundle", "GET", "/api/export/bundle", "dwhitfield", nil, fiber.StatusForbidden},
		{"principal lists admins", "GET", "/api/users/admins", "dwhitfield", nil, fiber.StatusOK},
		{"admin reads metrics", "GET", "/api/metrics", "admin1", nil, fiber.StatusOK},
		{"principal cannot read metrics", "GET", "/api/metrics", "dwhitfield", nil, fiber.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, tt.path, nil)
			if err != nil {
				t.Fatal(err)
			}
			if tt.body != nil {
				raw, _ := json.Marshal(tt.body)
				req, _ = http.NewRequest(tt.method, tt.path, bytes.NewReader(raw))
				req.Header.Set("Content-Type", "application/json")
			}
			cred := base64.StdEncoding.EncodeToString([]byte(tt.user + ":password"))
			req.Header.Set("Authorization", "Basic "+cred)

			resp, err := app.Test(req, -1)
			if err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != tt.want {
				t.Fatalf("status %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}

func TestReportOverHTTP(t *testing.T) {
	app := newTestApp(t)
	submitTicket(t, app, "jdoe")

	resp, body := doJSON(t, app, "GET", "/api/reports", "admin1", nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status %d: %v", resp.StatusCode, body)
	}
	data := body["data"].(map[string]any)
	summary := data["summary"].(map[string]any)
	if summary["total"].(float64) != 1 || summary["open"].(float64) != 1 {
		t.Fatalf("summary = %v", summary)
	}
	if _, present := summary["avgResolutionDays"]; present {
		t.Fatal("avgResolutionDays must be omitted with no resolutions")
	}
}
