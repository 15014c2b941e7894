package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"schoolclasses/internal/classes/repository"
	"schoolclasses/internal/classes/service"
	"schoolclasses/internal/classes/validator"
	"schoolclasses/pkg/config"
	apperrors "schoolclasses/pkg/errors"
	"schoolclasses/pkg/logger"
	"schoolclasses/pkg/model"
	"strings"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
)

// Mock service for testing
type mockClassService struct {
	service.ClassService

	getAllFunc func(ctx context.Context, sort model.SortOrder) ([]*model.ClassOffering, error)
	searchFunc func(ctx context.Context, query string, sort model.SortOrder) ([]*model.ClassOffering, error)
	bookFunc   func(ctx context.Context, id string) (int, error)
}

func (m *mockClassService) GetAll(ctx context.Context, sort model.SortOrder) ([]*model.ClassOffering, error) {
	return m.getAllFunc(ctx, sort)
}

func (m *mockClassService) Search(ctx context.Context, query string, sort model.SortOrder) ([]*model.ClassOffering, error) {
	return m.searchFunc(ctx, query, sort)
}

func (m *mockClassService) Book(ctx context.Context, id string) (int, error) {
	return m.bookFunc(ctx, id)
}

// newRouter wires the handler to a real service over the memory store and
// returns the seeded records by name.
func newRouter(t *testing.T, seats map[string]int) (*httprouter.Router, map[string]*model.ClassOffering) {
	t.Helper()

	cfg := &config.Config{Log: logger.Discard(), EventPublishTimeout: time.Second}
	repo := repository.NewMemoryClassRepository()
	svc := service.NewClassService(repo, validator.NewClassValidator(cfg.Log), nil, cfg)

	catalog := []*model.ClassOffering{
		{Name: "Java programming", Price: 15, Description: "Learn how to code with Java", Image: "../Images/Java.jpg", Location: "Online", Seats: 30},
		{Name: "Artificial Intelligence", Price: 25, Description: "Learn more about AI", Image: "../Images/AI.jpg", Location: "London Campus", Seats: 30},
		{Name: "Information in Organisations", Price: 10, Description: "Learn SQL and databases", Image: "../Images/SQL.jpg", Location: "Online", Seats: 30},
	}
	for _, c := range catalog {
		if n, ok := seats[c.Name]; ok {
			c.Seats = n
		}
	}
	if _, err := svc.SeedIfEmpty(context.Background(), catalog); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	byName := make(map[string]*model.ClassOffering, len(catalog))
	for _, c := range catalog {
		byName[c.Name] = c
	}

	router := httprouter.New()
	NewClassHandler(svc, cfg.Log).RegisterRoutes(router)
	return router, byName
}

func do(router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeSeats(t *testing.T, w *httptest.ResponseRecorder) model.SeatResponse {
	t.Helper()
	var resp model.SeatResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode seat response: %v", err)
	}
	return resp
}

func TestGetAll_ReturnsPlainArray(t *testing.T) {
	router, _ := newRouter(t, nil)

	w := do(router, http.MethodGet, "/api/classes", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var classes []model.ClassOffering
	if err := json.NewDecoder(w.Body).Decode(&classes); err != nil {
		t.Fatalf("expected a JSON array: %v", err)
	}
	if len(classes) != 3 {
		t.Fatalf("expected 3 classes, got %d", len(classes))
	}
	if classes[0].ID == "" || classes[0].CreatedAt.IsZero() {
		t.Errorf("expected id and created_at on every record, got %+v", classes[0])
	}
}

func TestGetAll_Sort(t *testing.T) {
	router, _ := newRouter(t, nil)

	tests := []struct {
		query      string
		wantStatus int
		wantFirst  string
	}{
		{"?sort=price_asc", http.StatusOK, "Information in Organisations"},
		{"?sort=price_desc", http.StatusOK, "Artificial Intelligence"},
		{"?sort=name_asc", http.StatusOK, "Artificial Intelligence"},
		{"?sort=NAME_DESC", http.StatusOK, "Java programming"},
		{"?sort=seats", http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := do(router, http.MethodGet, "/api/classes"+tt.query, "")
			if w.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
			if tt.wantFirst == "" {
				var errResp apperrors.ErrorResponse
				_ = json.NewDecoder(w.Body).Decode(&errResp)
				if errResp.Code != apperrors.CodeInvalidInput {
					t.Errorf("expected INVALID_INPUT, got %+v", errResp)
				}
				return
			}
			var classes []model.ClassOffering
			_ = json.NewDecoder(w.Body).Decode(&classes)
			if classes[0].Name != tt.wantFirst {
				t.Errorf("expected %q first, got %q", tt.wantFirst, classes[0].Name)
			}
		})
	}
}

func TestSearch(t *testing.T) {
	router, _ := newRouter(t, nil)

	tests := []struct {
		name      string
		target    string
		wantCount int
	}{
		{"empty query returns all", "/api/classes/search?name=", 3},
		{"missing query returns all", "/api/classes/search", 3},
		{"java returns exactly the java class", "/api/classes/search?name=java", 1},
		{"case insensitive", "/api/classes/search?name=JaVa", 1},
		{"description match", "/api/classes/search?name=sql", 1},
		{"no match is an empty array", "/api/classes/search?name=pottery", 0},
		{"regex is literal", "/api/classes/search?name=.%2A", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(router, http.MethodGet, tt.target, "")
			if w.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", w.Code)
			}
			if tt.wantCount == 0 && strings.TrimSpace(w.Body.String()) != "[]" {
				t.Errorf("expected [], got %s", w.Body.String())
			}
			var classes []model.ClassOffering
			_ = json.NewDecoder(w.Body).Decode(&classes)
			if len(classes) != tt.wantCount {
				t.Errorf("expected %d results, got %d", tt.wantCount, len(classes))
			}
			if tt.wantCount == 1 && strings.Contains(tt.target, "java") && classes[0].Name != "Java programming" {
				t.Errorf("expected Java programming, got %q", classes[0].Name)
			}
		})
	}
}

func TestCreate(t *testing.T) {
	router, _ := newRouter(t, nil)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{
			name:       "valid",
			body:       `{"name":"Cloud Computing","price":22,"description":"Explore cloud tech","location":"London Campus","image":"../Images/cloud.jpg","seats":30}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "zero price and seats are allowed",
			body:       `{"name":"Open Day","price":0,"description":"Free taster","location":"Online","seats":0}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "missing seats",
			body:       `{"name":"Cloud Computing","price":22,"description":"Explore cloud tech","location":"London Campus"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   apperrors.CodeValidation,
		},
		{
			name:       "negative price",
			body:       `{"name":"Cloud Computing","price":-1,"description":"Explore cloud tech","location":"London Campus","seats":3}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   apperrors.CodeValidation,
		},
		{
			name:       "malformed json",
			body:       `{"name":`,
			wantStatus: http.StatusBadRequest,
			wantCode:   apperrors.CodeBadRequest,
		},
		{
			name:       "wrong type",
			body:       `{"name":"Cloud Computing","price":"cheap","description":"x","location":"Online","seats":1}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   apperrors.CodeBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(router, http.MethodPost, "/api/classes", tt.body)
			if w.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
			if tt.wantCode != "" {
				var errResp apperrors.ErrorResponse
				if err := json.NewDecoder(w.Body).Decode(&errResp); err != nil {
					t.Fatalf("decode failed: %v", err)
				}
				if errResp.Code != tt.wantCode {
					t.Errorf("expected code %s, got %+v", tt.wantCode, errResp)
				}
				return
			}
			var created model.ClassOffering
			if err := json.NewDecoder(w.Body).Decode(&created); err != nil {
				t.Fatalf("decode failed: %v", err)
			}
			if created.ID == "" {
				t.Error("created record must carry its id")
			}
		})
	}
}

func TestCreate_EmptyBody(t *testing.T) {
	router, _ := newRouter(t, nil)

	w := do(router, http.MethodPost, "/api/classes", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestGetByID(t *testing.T) {
	router, classes := newRouter(t, nil)
	java := classes["Java programming"]

	tests := []struct {
		name       string
		id         string
		wantStatus int
	}{
		{"found", java.ID, http.StatusOK},
		{"invalid id", "abc", http.StatusBadRequest},
		{"unknown id", "507f1f77bcf86cd799439011", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(router, http.MethodGet, "/api/classes/id/"+tt.id, "")
			if w.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestBookAndUnbook(t *testing.T) {
	router, classes := newRouter(t, map[string]int{"Artificial Intelligence": 1})
	ai := classes["Artificial Intelligence"]

	w := do(router, http.MethodPost, "/api/classes/"+ai.ID+"/book", "")
	resp := decodeSeats(t, w)
	if w.Code != http.StatusOK || !resp.Success || resp.Seats == nil || *resp.Seats != 0 {
		t.Fatalf("expected success with 0 seats, got %d %+v", w.Code, resp)
	}

	w = do(router, http.MethodPost, "/api/classes/"+ai.ID+"/book", "")
	resp = decodeSeats(t, w)
	if w.Code != http.StatusBadRequest || resp.Success || resp.Error != "No seats left" || resp.Seats != nil {
		t.Fatalf("expected 400 No seats left, got %d %+v", w.Code, resp)
	}

	w = do(router, http.MethodPost, "/api/classes/"+ai.ID+"/unbook", "")
	resp = decodeSeats(t, w)
	if w.Code != http.StatusOK || !resp.Success || *resp.Seats != 1 {
		t.Fatalf("expected success with 1 seat, got %d %+v", w.Code, resp)
	}

	w = do(router, http.MethodGet, "/api/classes/id/"+ai.ID, "")
	var found model.ClassOffering
	_ = json.NewDecoder(w.Body).Decode(&found)
	if found.Seats != 1 {
		t.Errorf("expected stored seats 1, got %d", found.Seats)
	}
}

func TestBookAndUnbook_Errors(t *testing.T) {
	router, _ := newRouter(t, nil)

	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantError  string
	}{
		{"book invalid id", "/api/classes/nope/book", http.StatusBadRequest, "Invalid class ID format"},
		{"book unknown id", "/api/classes/507f1f77bcf86cd799439011/book", http.StatusNotFound, "Class not found"},
		{"unbook invalid id", "/api/classes/nope/unbook", http.StatusBadRequest, "Invalid class ID format"},
		{"unbook unknown id", "/api/classes/507f1f77bcf86cd799439011/unbook", http.StatusNotFound, "Class not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(router, http.MethodPost, tt.target, "")
			if w.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, w.Code)
			}
			resp := decodeSeats(t, w)
			if resp.Success || resp.Error != tt.wantError {
				t.Errorf("expected {success:false, error:%q}, got %+v", tt.wantError, resp)
			}
		})
	}
}

func TestBook_UnexpectedErrorIsGeneric(t *testing.T) {
	router := httprouter.New()
	NewClassHandler(&mockClassService{
		bookFunc: func(ctx context.Context, id string) (int, error) {
			return 0, errors.New("mongo: socket closed")
		},
	}, logger.Discard()).RegisterRoutes(router)

	w := do(router, http.MethodPost, "/api/classes/507f1f77bcf86cd799439011/book", "")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "socket") {
		t.Errorf("internal details leaked: %s", w.Body.String())
	}
}

func TestHandler_ServiceErrorsUseErrorBody(t *testing.T) {
	router := httprouter.New()
	NewClassHandler(&mockClassService{
		getAllFunc: func(ctx context.Context, sort model.SortOrder) ([]*model.ClassOffering, error) {
			return nil, apperrors.Internal("Failed to fetch classes", errors.New("timeout"))
		},
		searchFunc: func(ctx context.Context, query string, sort model.SortOrder) ([]*model.ClassOffering, error) {
			return nil, apperrors.Internal("Search failed", errors.New("timeout"))
		},
	}, logger.Discard()).RegisterRoutes(router)

	tests := []struct {
		target  string
		wantMsg string
	}{
		{"/api/classes", "Failed to fetch classes"},
		{"/api/classes/search?name=java", "Search failed"},
	}

	for _, tt := range tests {
		w := do(router, http.MethodGet, tt.target, "")
		if w.Code != http.StatusInternalServerError {
			t.Fatalf("%s: expected 500, got %d", tt.target, w.Code)
		}
		var errResp apperrors.ErrorResponse
		_ = json.NewDecoder(w.Body).Decode(&errResp)
		if errResp.Error != tt.wantMsg {
			t.Errorf("%s: expected %q, got %+v", tt.target, tt.wantMsg, errResp)
		}
	}
}
