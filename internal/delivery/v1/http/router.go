package http

import (
	"net/http"

	"github.com/DRSN-tech/petshop-backend/internal/usecase"
	"github.com/DRSN-tech/petshop-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

func (r *Router) Init(ledgerUC usecase.LedgerUC, stockUC usecase.StockUC, statsUC usecase.StatisticsUC) {
	r.router.Use(middleware.RequestID)
	r.router.Use(RequestLogger(r.logger))
	r.router.Use(middleware.Recoverer)

	r.router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		WriteMessage(w, http.StatusOK, "ok")
	})

	r.router.Route("/api/v1", func(v1 chi.Router) {
		registerLedgerRoutes(v1, NewLedgerHandler(ledgerUC, r.logger))
		registerStockRoutes(v1, NewStockHandler(stockUC, r.logger))
		registerStatisticsRoutes(v1, NewStatisticsHandler(statsUC, r.logger))
	})
}

func registerLedgerRoutes(router chi.Router, h *LedgerHandler) {
	router.Route("/product-consumptions", func(pc chi.Router) {
		pc.Post("/", h.createProductConsumption)
		pc.Get("/{id}", h.getProductConsumption)
		pc.Patch("/{id}", h.updateProductConsumption)
		pc.Delete("/{id}", h.deleteProductConsumption)
	})

	router.Route("/service-consumptions", func(sc chi.Router) {
		sc.Post("/", h.createServiceConsumption)
		sc.Get("/{id}", h.getServiceConsumption)
		sc.Patch("/{id}", h.updateServiceConsumption)
		sc.Delete("/{id}", h.deleteServiceConsumption)
	})

	router.Route("/clients/{id}", func(cl chi.Router) {
		cl.Get("/product-consumptions", h.listProductConsumptionsByClient)
		cl.Get("/service-consumptions", h.listServiceConsumptionsByClient)
	})
}

func registerStockRoutes(router chi.Router, h *StockHandler) {
	router.Post("/products/{id}/stock", h.adjustStock)
}

func registerStatisticsRoutes(router chi.Router, h *StatisticsHandler) {
	router.Route("/statistics", func(st chi.Router) {
		st.Get("/top-clients/quantity", h.topClientsByQuantity)
		st.Get("/most-consumed-items", h.mostConsumedItems)
		st.Get("/pet-segments", h.consumptionByPetTypeAndBreed)
		st.Get("/top-clients/value", h.topClientsByValue)
		st.Get("/snapshot", h.snapshot)
	})
}
