package http

import (
	"net/http"

	"github.com/DRSN-tech/petshop-backend/internal/usecase"
	"github.com/DRSN-tech/petshop-backend/pkg/e"
	"github.com/DRSN-tech/petshop-backend/pkg/logger"
)

type StockHandler struct {
	stockUsecase usecase.StockUC
	logger       logger.Logger
}

func NewStockHandler(stockUsecase usecase.StockUC, logger logger.Logger) *StockHandler {
	return &StockHandler{stockUsecase: stockUsecase, logger: logger}
}

// adjustStock применяет знаковую дельту: отрицательная - продажа, положительная - поступление.
func (h *StockHandler) adjustStock(w http.ResponseWriter, r *http.Request) {
	const op = "http.adjustStock"

	id, err := parseID(r, "id")
	if err != nil {
		fail(h.logger, w, op, err)
		return
	}

	var body adjustStockBody
	if err := decodeBody(w, r, &body); err != nil {
		fail(h.logger, w, op, err)
		return
	}
	if body.Delta == nil {
		fail(h.logger, w, op, e.Wrap("delta is required", e.ErrInvalidBody))
		return
	}

	product, err := h.stockUsecase.AdjustStock(r.Context(), &usecase.AdjustStockReq{
		ProductID: id,
		Delta:     *body.Delta,
	})
	if err != nil {
		fail(h.logger, w, op, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductResponse(product))
}
