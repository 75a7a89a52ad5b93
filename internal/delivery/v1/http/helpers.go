package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/DRSN-tech/petshop-backend/pkg/e"
	"github.com/DRSN-tech/petshop-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
)

const maxBodySize = 1 << 20

// Response - единый конверт всех ответов API.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// publicErrors - ошибки, текст которых можно отдавать клиенту.
// Более конкретные идут раньше своих классов.
var publicErrors = []error{
	e.ErrClientNotFound,
	e.ErrProductNotFound,
	e.ErrServiceNotFound,
	e.ErrConsumptionNotFound,
	e.ErrEmptyUpdate,
	e.ErrInvalidID,
	e.ErrInvalidQuantity,
	e.ErrInvalidBody,
	e.ErrInvalidMoney,
	e.ErrOutOfRange,
	e.ErrNotFound,
	e.ErrInvalidRequest,
	e.ErrInsufficientStock,
}

func ToHTTPResponse(err error) (int, string) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, e.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, e.ErrInvalidRequest):
		code = http.StatusBadRequest
	case errors.Is(err, e.ErrInsufficientStock):
		code = http.StatusConflict
	default:
		return code, e.ErrInternalServerError.Error()
	}

	for _, pub := range publicErrors {
		if errors.Is(err, pub) {
			return code, pub.Error()
		}
	}
	return code, e.ErrInternalServerError.Error()
}

func WriteError(w http.ResponseWriter, err error) {
	code, msg := ToHTTPResponse(err)
	writeJSON(w, code, &Response{Success: false, Error: msg})
}

func WriteSuccess(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, &Response{Success: true, Data: data})
}

func WriteMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, &Response{Success: true, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, body *Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// parseID читает положительный идентификатор из параметра пути.
func parseID(r *http.Request, param string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil || id <= 0 {
		return 0, e.Wrap(whereami.WhereAmI(), e.ErrInvalidID)
	}
	return id, nil
}

// decodeBody разбирает JSON-тело запроса; неизвестные поля считаются ошибкой.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return e.Wrap(err.Error(), e.ErrInvalidBody)
	}
	return nil
}

// fail пишет ошибку в ответ; причина 5xx попадает только в лог.
func fail(log logger.Logger, w http.ResponseWriter, op string, err error) {
	code, _ := ToHTTPResponse(err)
	if code >= http.StatusInternalServerError {
		log.Errorf(err, "%s", op)
	} else {
		log.Warnf("%s: %d %s", op, code, err.Error())
	}
	WriteError(w, err)
}
