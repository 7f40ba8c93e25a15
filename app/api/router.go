package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/storekit/inventory-api/app/auth"
	"github.com/storekit/inventory-api/app/categories"
	"github.com/storekit/inventory-api/app/products"
)

type Handlers struct {
	Auth       *auth.AuthHandler
	Products   *products.ProductsHandler
	Categories *categories.CategoryHandler
}

type route struct {
	method    string
	pattern   string
	handler   http.HandlerFunc
	protected bool
}

// NewRouter builds the mux from a single route table. The protected flag is
// the entire authorization matrix: reserve, unreserve, sell, and the read
// listings are deliberately open, while every other mutation and the sold
// report require a valid bearer token.
func NewRouter(h Handlers, verifier auth.TokenVerifier, log *zap.Logger) http.Handler {
	routes := []route{
		{http.MethodPost, "/auth/login", h.Auth.HandleLogin, false},

		{http.MethodPost, "/products/create", h.Products.HandleCreate, true},
		{http.MethodGet, "/products/all", h.Products.HandleGetAll, false},
		{http.MethodGet, "/products/filter", h.Products.HandleFilter, false},
		{http.MethodPatch, "/products/update/{id}", h.Products.HandleUpdatePrice, true},
		{http.MethodDelete, "/products/{id}", h.Products.HandleDelete, true},
		{http.MethodPatch, "/products/{id}/set_discount", h.Products.HandleSetDiscount, true},
		{http.MethodPatch, "/products/{id}/reserve", h.Products.HandleReserve, false},
		{http.MethodPatch, "/products/{id}/unreserve", h.Products.HandleUnreserve, false},
		{http.MethodPatch, "/products/{id}/sell", h.Products.HandleSell, false},
		{http.MethodGet, "/products/report", h.Products.HandleSoldReport, true},

		{http.MethodGet, "/categories", h.Categories.HandleGetAll, false},
		{http.MethodPost, "/categories", h.Categories.HandleCreate, true},
	}

	// chi rather than ServeMux: /products/update/{id} and
	// /products/{id}/reserve overlap, which ServeMux treats as a
	// registration conflict.
	mux := chi.NewRouter()
	for _, rt := range routes {
		handler := rt.handler
		if rt.protected {
			handler = auth.RequireToken(verifier, log, handler)
		}
		mux.Method(rt.method, rt.pattern, handler)
	}

	return withLogging(log, mux)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func withLogging(log *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
