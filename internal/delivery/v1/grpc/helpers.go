package grpc

import (
	"encoding/json"
	"errors"

	"github.com/DRSN-tech/petshop-backend/pkg/e"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

func GRPCErrorResponse(err error) error {
	switch {
	case errors.Is(err, e.ErrNotFound):
		return status.Error(codes.NotFound, e.ErrNotFound.Error())
	case errors.Is(err, e.ErrInvalidRequest):
		return status.Error(codes.InvalidArgument, e.ErrInvalidRequest.Error())
	case errors.Is(err, e.ErrInsufficientStock):
		return status.Error(codes.FailedPrecondition, e.ErrInsufficientStock.Error())
	default:
		return status.Error(codes.Internal, e.ErrInternalServerError.Error())
	}
}

// toListValue кодирует строки отчёта в ListValue через их JSON-представление,
// поэтому поля совпадают с HTTP-ответом, а деньги остаются строками.
func toListValue(rows any) (*structpb.ListValue, error) {
	raw, err := json.Marshal(rows)
	if err != nil {
		return nil, err
	}

	var values []any
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, err
	}

	return structpb.NewList(values)
}
