package rpc

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/danielpatrickdp/wordle-solver/internal/catalog"
	"github.com/danielpatrickdp/wordle-solver/internal/feedback"
	"github.com/danielpatrickdp/wordle-solver/internal/filter"
	"github.com/danielpatrickdp/wordle-solver/internal/solver"
	"github.com/danielpatrickdp/wordle-solver/internal/validate"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "wordle.v1.Solver"

const (
	bestGuessMethod     = "/" + ServiceName + "/BestGuess"
	possibleWordsMethod = "/" + ServiceName + "/PossibleWords"
)

// #region types
// Backend is the part of the solver the service exposes.
type Backend interface {
	BestGuess(ctx context.Context, language string, steps []feedback.Step) (solver.Suggestion, error)
	BestGuessWeighted(ctx context.Context, language string, steps []feedback.Step, weight float64) (solver.Suggestion, error)
	FilterWordsAccumulative(ctx context.Context, language string, steps []feedback.Step) ([]catalog.Word, error)
}

// SolverServer is the handler interface registered under ServiceName.
type SolverServer interface {
	BestGuess(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	PossibleWords(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// Server implements SolverServer over a Backend.
type Server struct {
	backend Backend
	logger  *log.Logger
}
// #endregion types

// NewServer wraps backend. A nil logger is silent.
func NewServer(backend Backend, logger *log.Logger) *Server {
	return &Server{backend: backend, logger: logger}
}

// Register adds srv to g under ServiceName.
func Register(g *grpc.Server, srv SolverServer) {
	g.RegisterService(&ServiceDesc, srv)
}

// #region handlers
// BestGuess answers {response: "<word>"}.
func (s *Server) BestGuess(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := DecodeRequest(in)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	var sug solver.Suggestion
	if req.Weight != nil {
		sug, err = s.backend.BestGuessWeighted(ctx, req.Language, req.Steps, *req.Weight)
	} else {
		sug, err = s.backend.BestGuess(ctx, req.Language, req.Steps)
	}
	if err != nil {
		return nil, s.toStatus("best guess", err)
	}
	return wordResponse(sug.Word)
}

// PossibleWords answers {response: [{word, probability}, ...]} in catalog order.
func (s *Server) PossibleWords(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := DecodeRequest(in)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	words, err := s.backend.FilterWordsAccumulative(ctx, req.Language, req.Steps)
	if err != nil {
		return nil, s.toStatus("possible words", err)
	}
	return candidatesResponse(words)
}

func (s *Server) toStatus(op string, err error) error {
	code := codes.Internal
	switch {
	case validate.IsValidation(err):
		code = codes.InvalidArgument
	case errors.Is(err, filter.ErrNoCandidates):
		code = codes.FailedPrecondition
	case errors.Is(err, os.ErrNotExist):
		code = codes.NotFound
	case errors.Is(err, context.Canceled):
		code = codes.Canceled
	case errors.Is(err, context.DeadlineExceeded):
		code = codes.DeadlineExceeded
	}
	if code == codes.Internal && s.logger != nil {
		s.logger.Printf("[rpc] %s: %v", op, err)
	}
	return status.Error(code, err.Error())
}
// #endregion handlers

// #region interceptor
// UnaryInterceptor logs and counts every call by method and status code.
func UnaryInterceptor(logger *log.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		code := status.Code(err)
		requests.WithLabelValues(info.FullMethod, code.String()).Inc()
		requestSeconds.WithLabelValues(info.FullMethod).Observe(time.Since(start).Seconds())
		if logger != nil {
			logger.Printf("[rpc] %s %s in %s", info.FullMethod, code, time.Since(start).Round(time.Millisecond))
		}
		return resp, err
	}
}
// #endregion interceptor

// #region service-desc
func bestGuessHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SolverServer).BestGuess(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: bestGuessMethod}
	return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
		return srv.(SolverServer).BestGuess(ctx, req.(*structpb.Struct))
	})
}

func possibleWordsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SolverServer).PossibleWords(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: possibleWordsMethod}
	return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
		return srv.(SolverServer).PossibleWords(ctx, req.(*structpb.Struct))
	})
}

// ServiceDesc describes wordle.v1.Solver. Messages are google.protobuf.Struct
// so no generated code is needed on either side.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SolverServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "BestGuess", Handler: bestGuessHandler},
		{MethodName: "PossibleWords", Handler: possibleWordsHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "wordle/v1/solver.proto",
}
// #endregion service-desc
