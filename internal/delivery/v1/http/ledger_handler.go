package http

import (
	"net/http"

	"github.com/DRSN-tech/petshop-backend/internal/usecase"
	"github.com/DRSN-tech/petshop-backend/pkg/logger"
)

// LedgerHandler обслуживает журнал продаж товаров и услуг.
type LedgerHandler struct {
	ledgerUsecase usecase.LedgerUC
	logger        logger.Logger
}

func NewLedgerHandler(ledgerUsecase usecase.LedgerUC, logger logger.Logger) *LedgerHandler {
	return &LedgerHandler{ledgerUsecase: ledgerUsecase, logger: logger}
}

func (h *LedgerHandler) createProductConsumption(w http.ResponseWriter, r *http.Request) {
	const op = "http.createProductConsumption"

	var body createProductConsumptionBody
	if err := decodeBody(w, r, &body); err != nil {
		fail(h.logger, w, op, err)
		return
	}

	req, err := body.toReq()
	if err != nil {
		fail(h.logger, w, op, err)
		return
	}

	pc, err := h.ledgerUsecase.CreateProductConsumption(r.Context(), req)
	if err != nil {
		fail(h.logger, w, op, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, toProductConsumptionResponse(pc))
}

func (h *LedgerHandler) getProductConsumption(w http.ResponseWriter, r *http.Request) {
	const op = "http.getProductConsumption"

	id, err := parseID(r, "id")
	if err != nil {
		fail(h.logger, w, op, err)
		return
	}

	pc, err := h.ledgerUsecase.GetProductConsumption(r.Context(), id)
	if err != nil {
		fail(h.logger, w, op, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductConsumptionResponse(pc))
}

func (h *LedgerHandler) updateProductConsumption(w http.ResponseWriter, r *http.Request) {
	const op = "http.updateProductConsumption"

	id, err := parseID(r, "id")
	if err != nil {
		fail(h.logger, w, op, err)
		return
	}

	var body updateProductConsumptionBody
	if err := decodeBody(w, r, &body); err != nil {
		fail(h.logger, w, op, err)
		return
	}

	pc, err := h.ledgerUsecase.UpdateProductConsumption(r.Context(), &usecase.UpdateProductConsumptionReq{
		ID:    id,
		Patch: body.toPatch(),
	})
	if err != nil {
		fail(h.logger, w, op, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductConsumptionResponse(pc))
}

func (h *LedgerHandler) deleteProductConsumption(w http.ResponseWriter, r *http.Request) {
	const op = "http.deleteProductConsumption"

	id, err := parseID(r, "id")
	if err != nil {
		fail(h.logger, w, op, err)
		return
	}

	if err := h.ledgerUsecase.DeleteProductConsumption(r.Context(), id); err != nil {
		fail(h.logger, w, op, err)
		return
	}

	WriteMessage(w, http.StatusOK, "product consumption deleted")
}

func (h *LedgerHandler) listProductConsumptionsByClient(w http.ResponseWriter, r *http.Request) {
	const op = "http.listProductConsumptionsByClient"

	clientID, err := parseID(r, "id")
	if err != nil {
		fail(h.logger, w, op, err)
		return
	}

	pcs, err := h.ledgerUsecase.ListProductConsumptionsByClient(r.Context(), clientID)
	if err != nil {
		fail(h.logger, w, op, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toArrProductConsumptionResponse(pcs))
}

func (h *LedgerHandler) createServiceConsumption(w http.ResponseWriter, r *http.Request) {
	const op = "http.createServiceConsumption"

	var body createServiceConsumptionBody
	if err := decodeBody(w, r, &body); err != nil {
		fail(h.logger, w, op, err)
		return
	}

	req, err := body.toReq()
	if err != nil {
		fail(h.logger, w, op, err)
		return
	}

	sc, err := h.ledgerUsecase.CreateServiceConsumption(r.Context(), req)
	if err != nil {
		fail(h.logger, w, op, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, toServiceConsumptionResponse(sc))
}

func (h *LedgerHandler) getServiceConsumption(w http.ResponseWriter, r *http.Request) {
	const op = "http.getServiceConsumption"

	id, err := parseID(r, "id")
	if err != nil {
		fail(h.logger, w, op, err)
		return
	}

	sc, err := h.ledgerUsecase.GetServiceConsumption(r.Context(), id)
	if err != nil {
		fail(h.logger, w, op, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toServiceConsumptionResponse(sc))
}

func (h *LedgerHandler) updateServiceConsumption(w http.ResponseWriter, r *http.Request) {
	const op = "http.updateServiceConsumption"

	id, err := parseID(r, "id")
	if err != nil {
		fail(h.logger, w, op, err)
		return
	}

	var body updateServiceConsumptionBody
	if err := decodeBody(w, r, &body); err != nil {
		fail(h.logger, w, op, err)
		return
	}

	sc, err := h.ledgerUsecase.UpdateServiceConsumption(r.Context(), &usecase.UpdateServiceConsumptionReq{
		ID:    id,
		Patch: body.toPatch(),
	})
	if err != nil {
		fail(h.logger, w, op, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toServiceConsumptionResponse(sc))
}

func (h *LedgerHandler) deleteServiceConsumption(w http.ResponseWriter, r *http.Request) {
	const op = "http.deleteServiceConsumption"

	id, err := parseID(r, "id")
	if err != nil {
		fail(h.logger, w, op, err)
		return
	}

	if err := h.ledgerUsecase.DeleteServiceConsumption(r.Context(), id); err != nil {
		fail(h.logger, w, op, err)
		return
	}

	WriteMessage(w, http.StatusOK, "service consumption deleted")
}

func (h *LedgerHandler) listServiceConsumptionsByClient(w http.ResponseWriter, r *http.Request) {
	const op = "http.listServiceConsumptionsByClient"

	clientID, err := parseID(r, "id")
	if err != nil {
		fail(h.logger, w, op, err)
		return
	}

	scs, err := h.ledgerUsecase.ListServiceConsumptionsByClient(r.Context(), clientID)
	if err != nil {
		fail(h.logger, w, op, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toArrServiceConsumptionResponse(scs))
}
