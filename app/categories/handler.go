package categories

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/storekit/inventory-api/app/respond"
	"github.com/storekit/inventory-api/models"
)

type CategoryResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type CategoryProvider interface {
	GetAllCategories() ([]models.Category, error)
	CreateCategory(category *models.Category) error
}

type CategoryHandler struct {
	repo CategoryProvider
	log  *zap.Logger
}

func NewCategoryHandler(r CategoryProvider, log *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		repo: r,
		log:  log,
	}
}

func (h *CategoryHandler) HandleGetAll(w http.ResponseWriter, r *http.Request) {
	categories, err := h.repo.GetAllCategories()
	if err != nil {
		h.log.Error("failed to fetch categories", zap.Error(err))
		respond.Message(w, http.StatusInternalServerError, "Failed to fetch categories")
		return
	}

	response := make([]CategoryResponse, len(categories))
	for i, c := range categories {
		response[i] = CategoryResponse{
			ID:   c.ID,
			Name: c.Name,
		}
	}
	respond.JSON(w, http.StatusOK, response)
}

func (h *CategoryHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Name == "" {
		respond.Message(w, http.StatusBadRequest, `Required field: "name"`)
		return
	}

	category := &models.Category{Name: input.Name}
	if err := h.repo.CreateCategory(category); err != nil {
		h.log.Error("failed to create category", zap.Error(err))
		respond.Message(w, http.StatusInternalServerError, "Failed to create category")
		return
	}

	respond.JSON(w, http.StatusCreated, struct {
		Message  string           `json:"message"`
		Category CategoryResponse `json:"category"`
	}{
		Message:  "Category created successfully",
		Category: CategoryResponse{ID: category.ID, Name: category.Name},
	})
}
