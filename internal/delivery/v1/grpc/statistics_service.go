package grpc

import (
	"context"

	"github.com/DRSN-tech/petshop-backend/internal/usecase"
	"github.com/DRSN-tech/petshop-backend/pkg/e"
	"github.com/DRSN-tech/petshop-backend/pkg/logger"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const StatisticsServiceName = "petshop.v1.Statistics"

// StatisticsServer - контракт сервиса petshop.v1.Statistics.
// Сообщения - well-known типы, поэтому сгенерированный код не нужен.
type StatisticsServer interface {
	TopClientsByQuantity(ctx context.Context, req *emptypb.Empty) (*structpb.ListValue, error)
	MostConsumedItems(ctx context.Context, req *emptypb.Empty) (*structpb.ListValue, error)
	ConsumptionByPetTypeAndBreed(ctx context.Context, req *emptypb.Empty) (*structpb.ListValue, error)
	TopClientsByValue(ctx context.Context, req *emptypb.Empty) (*structpb.ListValue, error)
}

type viewCall func(srv StatisticsServer, ctx context.Context, req *emptypb.Empty) (*structpb.ListValue, error)

func unaryHandler(method string, call viewCall) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(emptypb.Empty)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(StatisticsServer), ctx, in)
			}

			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: "/" + StatisticsServiceName + "/" + method,
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(StatisticsServer), ctx, req.(*emptypb.Empty))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var StatisticsServiceDesc = grpc.ServiceDesc{
	ServiceName: StatisticsServiceName,
	HandlerType: (*StatisticsServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryHandler("TopClientsByQuantity", StatisticsServer.TopClientsByQuantity),
		unaryHandler("MostConsumedItems", StatisticsServer.MostConsumedItems),
		unaryHandler("ConsumptionByPetTypeAndBreed", StatisticsServer.ConsumptionByPetTypeAndBreed),
		unaryHandler("TopClientsByValue", StatisticsServer.TopClientsByValue),
	},
	Streams: []grpc.StreamDesc{},
}

type StatisticsService struct {
	statsUC usecase.StatisticsUC
	logger  logger.Logger
}

func NewStatisticsService(statsUC usecase.StatisticsUC, logger logger.Logger) *StatisticsService {
	return &StatisticsService{statsUC: statsUC, logger: logger}
}

func (g *StatisticsService) TopClientsByQuantity(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	const op = "grpc.TopClientsByQuantity"

	res, err := g.statsUC.TopClientsByQuantity(ctx)
	return g.respond(op, res, err)
}

func (g *StatisticsService) MostConsumedItems(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	const op = "grpc.MostConsumedItems"

	res, err := g.statsUC.MostConsumedItems(ctx)
	return g.respond(op, res, err)
}

func (g *StatisticsService) ConsumptionByPetTypeAndBreed(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	const op = "grpc.ConsumptionByPetTypeAndBreed"

	res, err := g.statsUC.ConsumptionByPetTypeAndBreed(ctx)
	return g.respond(op, res, err)
}

func (g *StatisticsService) TopClientsByValue(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	const op = "grpc.TopClientsByValue"

	res, err := g.statsUC.TopClientsByValue(ctx)
	return g.respond(op, res, err)
}

func (g *StatisticsService) respond(op string, rows any, err error) (*structpb.ListValue, error) {
	if err != nil {
		g.logger.Errorf(e.Wrap(op, err), "%s", op)
		return nil, GRPCErrorResponse(e.Wrap(op, err))
	}

	list, err := toListValue(rows)
	if err != nil {
		g.logger.Errorf(e.Wrap(op, err), "%s: encode response", op)
		return nil, GRPCErrorResponse(e.Wrap(op, err))
	}

	return list, nil
}

// StatisticsClient - клиент petshop.v1.Statistics для других сервисов.
type StatisticsClient struct {
	cc grpc.ClientConnInterface
}

func NewStatisticsClient(cc grpc.ClientConnInterface) *StatisticsClient {
	return &StatisticsClient{cc: cc}
}

func (c *StatisticsClient) call(ctx context.Context, method string, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, "/"+StatisticsServiceName+"/"+method, &emptypb.Empty{}, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *StatisticsClient) TopClientsByQuantity(ctx context.Context, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	return c.call(ctx, "TopClientsByQuantity", opts...)
}

func (c *StatisticsClient) MostConsumedItems(ctx context.Context, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	return c.call(ctx, "MostConsumedItems", opts...)
}

func (c *StatisticsClient) ConsumptionByPetTypeAndBreed(ctx context.Context, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	return c.call(ctx, "ConsumptionByPetTypeAndBreed", opts...)
}

func (c *StatisticsClient) TopClientsByValue(ctx context.Context, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	return c.call(ctx, "TopClientsByValue", opts...)
}
