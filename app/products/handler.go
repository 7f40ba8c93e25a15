package products

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/storekit/inventory-api/app/respond"
	"github.com/storekit/inventory-api/models"
)

// ProductResponse is the wire shape of a product. The field set is a client
// contract; do not add, drop, or rename fields.
type ProductResponse struct {
	ID         uint    `json:"id"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	CategoryID uint    `json:"category_id"`
	Discount   float64 `json:"discount"`
	Reserved   bool    `json:"reserved"`
	Sold       bool    `json:"sold"`
	Amount     int     `json:"amount"`
}

// MessageResponse carries a confirmation together with the updated entity.
type MessageResponse struct {
	Message string          `json:"message"`
	Product ProductResponse `json:"product"`
}

type ProductProvider interface {
	Create(product *models.Product) error
	GetAvailable() ([]models.Product, error)
	GetAvailableByCategory(categoryID uint) ([]models.Product, error)
	GetSold(categoryID uint) ([]models.Product, error)
	UpdatePrice(id uint, price decimal.Decimal) error
	SetDiscount(id uint, discount decimal.Decimal) (*models.Product, error)
	Reserve(id uint) (*models.Product, error)
	Unreserve(id uint) (*models.Product, error)
	Sell(id uint) (*models.Product, error)
	Delete(id uint) error
}

type ProductsHandler struct {
	repo ProductProvider
	log  *zap.Logger
}

func NewProductsHandler(r ProductProvider, log *zap.Logger) *ProductsHandler {
	return &ProductsHandler{
		repo: r,
		log:  log,
	}
}

func toResponse(p *models.Product) ProductResponse {
	return ProductResponse{
		ID:         p.ID,
		Name:       p.Name,
		Price:      p.Price.InexactFloat64(),
		CategoryID: p.CategoryID,
		Discount:   p.Discount.InexactFloat64(),
		Reserved:   p.Reserved,
		Sold:       p.Sold,
		Amount:     p.Amount,
	}
}

func toResponseList(list []models.Product) []ProductResponse {
	out := make([]ProductResponse, len(list))
	for i := range list {
		out[i] = toResponse(&list[i])
	}
	return out
}

func (h *ProductsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name       *string  `json:"name"`
		Price      *float64 `json:"price"`
		CategoryID *uint    `json:"category_id"`
		Amount     *int     `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil ||
		input.Name == nil || input.Price == nil || input.CategoryID == nil {
		respond.Message(w, http.StatusBadRequest, `Required fields: "name", "price", "category_id"`)
		return
	}

	amount := 1
	if input.Amount != nil {
		if *input.Amount < 0 {
			respond.Message(w, http.StatusBadRequest, "Amount must not be negative")
			return
		}
		amount = *input.Amount
	}

	product := &models.Product{
		Name:       *input.Name,
		Price:      decimal.NewFromFloat(*input.Price),
		CategoryID: *input.CategoryID,
		Amount:     amount,
	}

	if err := h.repo.Create(product); err != nil {
		if errors.Is(err, models.ErrCategoryNotFound) {
			respond.Message(w, http.StatusBadRequest, "Category does not exist")
			return
		}
		h.log.Error("failed to create product", zap.Error(err))
		respond.Message(w, http.StatusInternalServerError, "Failed to create product")
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(product))
}

// HandleGetAll lists products with stock remaining.
func (h *ProductsHandler) HandleGetAll(w http.ResponseWriter, r *http.Request) {
	list, err := h.repo.GetAvailable()
	if err != nil {
		h.log.Error("failed to list products", zap.Error(err))
		respond.Message(w, http.StatusInternalServerError, "Failed to retrieve products")
		return
	}
	respond.JSON(w, http.StatusOK, toResponseList(list))
}

// HandleFilter lists in-stock products of one category. Without a usable
// category_id the response is a sentinel message, not a list; that shape
// difference is part of the contract.
func (h *ProductsHandler) HandleFilter(w http.ResponseWriter, r *http.Request) {
	categoryID := queryCategoryID(r)
	if categoryID == 0 {
		respond.Message(w, http.StatusOK, "Category is not provided")
		return
	}

	list, err := h.repo.GetAvailableByCategory(categoryID)
	if err != nil {
		h.log.Error("failed to filter products", zap.Error(err))
		respond.Message(w, http.StatusInternalServerError, "Failed to retrieve products")
		return
	}
	respond.JSON(w, http.StatusOK, toResponseList(list))
}

func (h *ProductsHandler) HandleUpdatePrice(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var input struct {
		Price *float64 `json:"price"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Price == nil {
		respond.Message(w, http.StatusBadRequest, `Required field: "price"`)
		return
	}

	if err := h.repo.UpdatePrice(id, decimal.NewFromFloat(*input.Price)); err != nil {
		h.respondError(w, err, "failed to update price")
		return
	}
	respond.Message(w, http.StatusOK, "Price was changed successfully")
}

func (h *ProductsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.repo.Delete(id); err != nil {
		h.respondError(w, err, "failed to delete product")
		return
	}
	respond.Message(w, http.StatusOK, "Product was deleted successfully")
}

func (h *ProductsHandler) HandleSetDiscount(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var input struct {
		Discount *float64 `json:"discount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Discount == nil {
		respond.Message(w, http.StatusBadRequest, `Required field: "discount"`)
		return
	}

	// Exclusive bounds: exactly 0 and exactly 100 are invalid.
	if *input.Discount <= 0 || *input.Discount >= 100 {
		respond.Message(w, http.StatusBadRequest, "Discount must be between 0 and 100")
		return
	}

	product, err := h.repo.SetDiscount(id, decimal.NewFromFloat(*input.Discount))
	if err != nil {
		h.respondError(w, err, "failed to set discount")
		return
	}

	respond.JSON(w, http.StatusOK, MessageResponse{
		Message: fmt.Sprintf("discount=%v%% was set", *input.Discount),
		Product: toResponse(product),
	})
}

func (h *ProductsHandler) HandleReserve(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.repo.Reserve, "Product reserved successfully")
}

func (h *ProductsHandler) HandleUnreserve(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.repo.Unreserve, "Product unreserved successfully")
}

func (h *ProductsHandler) HandleSell(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.repo.Sell, "Product sold successfully")
}

// HandleSoldReport lists sold products, optionally narrowed to a category.
// No stock filter applies here.
func (h *ProductsHandler) HandleSoldReport(w http.ResponseWriter, r *http.Request) {
	list, err := h.repo.GetSold(queryCategoryID(r))
	if err != nil {
		h.log.Error("failed to build sold report", zap.Error(err))
		respond.Message(w, http.StatusInternalServerError, "Failed to retrieve products")
		return
	}
	respond.JSON(w, http.StatusOK, toResponseList(list))
}

func (h *ProductsHandler) transition(w http.ResponseWriter, r *http.Request, op func(uint) (*models.Product, error), message string) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	product, err := op(id)
	if err != nil {
		h.respondError(w, err, "failed state transition")
		return
	}

	respond.JSON(w, http.StatusOK, MessageResponse{
		Message: message,
		Product: toResponse(product),
	})
}

// respondError maps repository errors onto the status table: unknown id is
// 404, a state-machine violation is 400, anything else is a 500 without
// internal detail.
func (h *ProductsHandler) respondError(w http.ResponseWriter, err error, logMsg string) {
	switch {
	case errors.Is(err, models.ErrProductNotFound):
		respond.Message(w, http.StatusNotFound, "Product not found")
	case errors.Is(err, models.ErrProductAlreadyReserved):
		respond.Message(w, http.StatusBadRequest, "Product is already reserved")
	case errors.Is(err, models.ErrProductNotReserved):
		respond.Message(w, http.StatusBadRequest, "Product is not reserved")
	case errors.Is(err, models.ErrProductAlreadySold):
		respond.Message(w, http.StatusBadRequest, "Product has already been sold")
	case errors.Is(err, models.ErrProductOutOfStock):
		respond.Message(w, http.StatusBadRequest, "Product is out of stock")
	default:
		h.log.Error(logMsg, zap.Error(err))
		respond.Message(w, http.StatusInternalServerError, "Internal server error")
	}
}

// pathID parses the {id} path segment. A non-numeric or zero id behaves like
// an unknown product.
func pathID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil || id == 0 {
		respond.Message(w, http.StatusNotFound, "Product not found")
		return 0, false
	}
	return uint(id), true
}

// queryCategoryID reads the optional category_id query parameter. Absent,
// unparseable, and zero values all mean "no category", matching the
// original caller contract.
func queryCategoryID(r *http.Request) uint {
	v, err := strconv.ParseUint(r.URL.Query().Get("category_id"), 10, 32)
	if err != nil {
		return 0
	}
	return uint(v)
}
