package api

import (
	"net/http"
	"strings"

	"github.com/okian/fairdeal/internal/domain/category"
)

// CatalogHandler serves the category registry and position profiles.
type CatalogHandler struct {
	deps Dependencies
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(deps Dependencies) *CatalogHandler {
	return &CatalogHandler{deps: deps}
}

// CategoriesResponse is the result of GET /categories.
type CategoriesResponse struct {
	Categories []category.Category `json:"categories"`
}

// HandleGetCategories handles GET /categories.
func (h *CatalogHandler) HandleGetCategories(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, "api.get_categories", http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, CategoriesResponse{Categories: h.deps.Categories()})
}

// HandleGetProfile handles GET /profiles/{position}. Unknown positions
// return the default profile with fallback set.
func (h *CatalogHandler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, "api.get_profile", http.MethodGet) {
		return
	}
	position := strings.TrimPrefix(r.URL.Path, "/profiles/")
	if position == "" || strings.Contains(position, "/") {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Profile(position))
}
