package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Romer4ig/image-moderation/internal/domain/grid"
	"github.com/Romer4ig/image-moderation/internal/domain/project"
	"github.com/Romer4ig/image-moderation/internal/interfaces/httpserver/handlers"
)

func setupGridTestRouter(service grid.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := handlers.NewGridHandler(service, zerolog.Nop())
	r := gin.New()
	api := r.Group("/api")
	api.GET("/grid-data", handler.GridData)
	api.GET("/selection-data", handler.SelectionData)
	api.GET("/selection-shell", handler.SelectionShell)
	api.GET("/selection-attempts", handler.SelectionAttempts)
	return r
}

func TestGridHandler_GridDataRejectsInvalidQuery(t *testing.T) {
	tests := []string{
		"/api/grid-data?page=abc",
		"/api/grid-data?per_page=1.5",
		"/api/grid-data?sort=popularity",
		"/api/grid-data?generation_status_filter=all",
	}

	for _, url := range tests {
		t.Run(url, func(t *testing.T) {
			router := setupGridTestRouter(&MockGridService{
				GridFunc: func(ctx context.Context, q grid.Query) (*grid.Page, error) {
					t.Error("Grid should not be called")
					return nil, nil
				},
			})
			req, _ := http.NewRequest(http.MethodGet, url, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("Expected status 400, got %d", w.Code)
			}
		})
	}
}

func TestGridHandler_GridDataPassesQuery(t *testing.T) {
	tests := []struct {
		name           string
		url            string
		expectExplicit bool
		expectIDs      []string
		expectPerPage  int
	}{
		{"absent project list", "/api/grid-data", false, nil, grid.DefaultPerPage},
		{"empty project list", "/api/grid-data?visible_project_ids=", true, []string{}, grid.DefaultPerPage},
		{"project list and clamped page size", "/api/grid-data?visible_project_ids=a,b&per_page=900", true, []string{"a", "b"}, grid.MaxPerPage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got grid.Query
			router := setupGridTestRouter(&MockGridService{
				GridFunc: func(ctx context.Context, q grid.Query) (*grid.Page, error) {
					got = q
					return &grid.Page{Projects: []project.Project{}, Collections: []grid.Row{}}, nil
				},
			})
			req, _ := http.NewRequest(http.MethodGet, tt.url, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("Expected status 200, got %d", w.Code)
			}
			if got.ExplicitProjects != tt.expectExplicit {
				t.Errorf("Expected explicit=%v, got %v", tt.expectExplicit, got.ExplicitProjects)
			}
			if len(got.VisibleProjectIDs) != len(tt.expectIDs) {
				t.Errorf("Expected ids %v, got %v", tt.expectIDs, got.VisibleProjectIDs)
			}
			if got.PerPage != tt.expectPerPage {
				t.Errorf("Expected per_page %d, got %d", tt.expectPerPage, got.PerPage)
			}
		})
	}
}

func TestGridHandler_PickerParams(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected int
	}{
		{"selection data without project", "/api/selection-data?collection_id=1", http.StatusBadRequest},
		{"selection shell without collection", "/api/selection-shell?initial_project_id=p1", http.StatusBadRequest},
		{"attempts with non-integer collection", "/api/selection-attempts?collection_id=x&project_id=p1", http.StatusBadRequest},
		{"attempts", "/api/selection-attempts?collection_id=1&project_id=p1", http.StatusOK},
		{"selection data", "/api/selection-data?collection_id=1&initial_project_id=p1&project_ids=p1,p2", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupGridTestRouter(&MockGridService{})
			req, _ := http.NewRequest(http.MethodGet, tt.url, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.expected {
				t.Errorf("Expected status %d, got %d", tt.expected, w.Code)
			}
		})
	}
}
