package grpc

import (
	"github.com/DRSN-tech/shop-admin/pkg/e"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// GRPCErrorResponse переводит ошибку приложения в статус gRPC.
// Ошибки, уже несущие статус, возвращаются без изменений.
func GRPCErrorResponse(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	switch e.Kind(err) {
	case e.ErrValidation:
		return status.Error(codes.InvalidArgument, e.Message(err))
	case e.ErrConflict:
		return status.Error(codes.AlreadyExists, e.Message(err))
	case e.ErrNotFound:
		return status.Error(codes.NotFound, e.Message(err))
	case e.ErrInUse:
		return status.Error(codes.FailedPrecondition, e.Message(err))
	case e.ErrUnauthorized:
		return status.Error(codes.Unauthenticated, e.Message(err))
	case e.ErrForbidden:
		return status.Error(codes.PermissionDenied, e.Message(err))
	default:
		return status.Error(codes.Internal, e.ErrInternalServerError.Error())
	}
}
