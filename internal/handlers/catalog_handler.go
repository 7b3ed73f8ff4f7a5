package handlers

import (
	"net/http"

	"mockinterview/api/internal/models"
	"mockinterview/api/internal/prompts"
	"mockinterview/api/internal/utils"
)

// Catalog lists the selectable interview options.
type Catalog interface {
	Topics() []prompts.Entry
	Companies() []prompts.Entry
	Difficulties() []prompts.Entry
}

type CatalogHandler struct {
	catalog Catalog
}

func NewCatalogHandler(catalog Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

func (h *CatalogHandler) TopicsHandler(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, map[string][]models.CatalogOption{"topics": toOptions(h.catalog.Topics(), false)})
}

func (h *CatalogHandler) CompaniesHandler(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, map[string][]models.CatalogOption{"companies": toOptions(h.catalog.Companies(), false)})
}

func (h *CatalogHandler) DifficultiesHandler(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, map[string][]models.CatalogOption{"difficulties": toOptions(h.catalog.Difficulties(), true)})
}

func toOptions(entries []prompts.Entry, withDescription bool) []models.CatalogOption {
	out := make([]models.CatalogOption, len(entries))
	for i, e := range entries {
		out[i] = models.CatalogOption{ID: e.ID, Name: e.Name}
		if withDescription {
			out[i].Description = e.Description
		}
	}
	return out
}
