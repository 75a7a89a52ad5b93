package http

import (
	"context"
	"net/http"

	"github.com/DRSN-tech/petshop-backend/internal/usecase"
	"github.com/DRSN-tech/petshop-backend/pkg/logger"
)

// StatisticsHandler отдаёт отчёты только на чтение.
type StatisticsHandler struct {
	statisticsUsecase usecase.StatisticsUC
	logger            logger.Logger
}

func NewStatisticsHandler(statisticsUsecase usecase.StatisticsUC, logger logger.Logger) *StatisticsHandler {
	return &StatisticsHandler{statisticsUsecase: statisticsUsecase, logger: logger}
}

func (h *StatisticsHandler) topClientsByQuantity(w http.ResponseWriter, r *http.Request) {
	serveView(h, w, r, "http.topClientsByQuantity", h.statisticsUsecase.TopClientsByQuantity)
}

func (h *StatisticsHandler) mostConsumedItems(w http.ResponseWriter, r *http.Request) {
	serveView(h, w, r, "http.mostConsumedItems", h.statisticsUsecase.MostConsumedItems)
}

func (h *StatisticsHandler) consumptionByPetTypeAndBreed(w http.ResponseWriter, r *http.Request) {
	serveView(h, w, r, "http.consumptionByPetTypeAndBreed", h.statisticsUsecase.ConsumptionByPetTypeAndBreed)
}

func (h *StatisticsHandler) topClientsByValue(w http.ResponseWriter, r *http.Request) {
	serveView(h, w, r, "http.topClientsByValue", h.statisticsUsecase.TopClientsByValue)
}

func (h *StatisticsHandler) snapshot(w http.ResponseWriter, r *http.Request) {
	serveView(h, w, r, "http.statisticsSnapshot", h.statisticsUsecase.Snapshot)
}

func serveView[T any](h *StatisticsHandler, w http.ResponseWriter, r *http.Request, op string, view func(context.Context) (T, error)) {
	res, err := view(r.Context())
	if err != nil {
		fail(h.logger, w, op, err)
		return
	}

	WriteSuccess(w, http.StatusOK, res)
}
