// Package rpc exposes simulator sessions over gRPC. Messages are
// structpb.Struct payloads so the service needs no generated stubs.
package rpc

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/danielpatrickdp/sovereign-debt/go-sim/internal/engine"
	"github.com/danielpatrickdp/sovereign-debt/go-sim/internal/session"
)

// #region service-desc
const ServiceName = "sovereign.v1.Simulator"

// SimulatorServer is the server API for the Simulator service.
type SimulatorServer interface {
	NewGame(context.Context, *structpb.Struct) (*structpb.Struct, error)
	PlayTurn(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetState(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Reset(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryMethod func(SimulatorServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func handler(name string, call unaryMethod) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(SimulatorServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/" + name}
			h := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(SimulatorServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, h)
		},
	}
}

// SimulatorServiceDesc describes the Simulator service for grpc.Server.RegisterService.
var SimulatorServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SimulatorServer)(nil),
	Methods: []grpc.MethodDesc{
		handler("NewGame", SimulatorServer.NewGame),
		handler("PlayTurn", SimulatorServer.PlayTurn),
		handler("GetState", SimulatorServer.GetState),
		handler("Reset", SimulatorServer.Reset),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "sovereign/v1/simulator.proto",
}

// #endregion service-desc

// #region server
// DefaultFinishedRetention is how many finished games stay readable before
// the oldest are evicted.
const DefaultFinishedRetention = 128

// Server holds live sessions keyed by game ID. In-progress games are kept
// until they finish or are reset; finished games are kept for GetState up to
// the retention limit.
type Server struct {
	mu       sync.Mutex
	sessions map[string]*session.Session
	finished []string // game IDs in the order they finished

	retention   int
	defaultSeed int64
	recorder    session.Recorder
	logger      *log.Logger
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithFinishedRetention caps the number of finished games kept in memory.
func WithFinishedRetention(n int) ServerOption {
	return func(s *Server) { s.retention = n }
}

// WithDefaultSeed sets the seed used when NewGame carries none. Zero keeps
// drawing a random seed per game.
func WithDefaultSeed(seed int64) ServerOption {
	return func(s *Server) { s.defaultSeed = seed }
}

// NewServer returns a Server. recorder and logger may be nil.
func NewServer(recorder session.Recorder, logger *log.Logger, opts ...ServerOption) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Server{
		sessions:  make(map[string]*session.Session),
		retention: DefaultFinishedRetention,
		recorder:  recorder,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register installs the simulator and health services on g.
func (s *Server) Register(g *grpc.Server) {
	g.RegisterService(&SimulatorServiceDesc, s)

	hs := health.NewServer()
	healthpb.RegisterHealthServer(g, hs)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
}

// NewGRPCServer builds a grpc.Server with request logging and s registered.
func (s *Server) NewGRPCServer(opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts, grpc.ChainUnaryInterceptor(s.logRequests))
	g := grpc.NewServer(opts...)
	s.Register(g)
	return g
}

func (s *Server) logRequests(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (interface{}, error) {
	resp, err := next(ctx, req)
	if err != nil {
		s.logger.Warn("rpc failed", "method", info.FullMethod, "code", status.Code(err), "err", err)
	} else {
		s.logger.Debug("rpc ok", "method", info.FullMethod)
	}
	return resp, err
}

// #endregion server

// #region handlers
// NewGame starts a session. An absent or zero seed falls back to the server
// default, and draws a random one when that is zero too.
func (s *Server) NewGame(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req newGameRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	seed := req.Seed
	if seed == 0 {
		seed = s.defaultSeed
	}
	if seed == 0 {
		var err error
		if seed, err = engine.NewSeed(); err != nil {
			return nil, status.Error(codes.Internal, err.Error())
		}
	}

	opts := []session.Option{session.WithLogger(s.logger)}
	if s.recorder != nil {
		opts = append(opts, session.WithRecorder(s.recorder))
	}
	sess := session.New(engine.NewRandSource(seed), opts...)

	s.mu.Lock()
	s.sessions[sess.ID()] = sess
	s.mu.Unlock()

	return s.view(sess, nil)
}

// PlayTurn plays one turn with the requested policy.
func (s *Server) PlayTurn(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req playRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	sess, err := s.lookup(req.GameID)
	if err != nil {
		return nil, err
	}
	policy, err := engine.ParsePolicy(req.Policy)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	result, err := sess.Play(policy)
	if err != nil {
		return nil, toStatus(err)
	}
	out, err := s.view(sess, &result)
	if result.Status.Terminal() {
		s.retire(req.GameID)
	}
	return out, err
}

// GetState returns the current snapshot of a game.
func (s *Server) GetState(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req gameRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	sess, err := s.lookup(req.GameID)
	if err != nil {
		return nil, err
	}
	return s.view(sess, nil)
}

// Reset replaces a game with a fresh one. The response carries the new game ID;
// the old ID is no longer served.
func (s *Server) Reset(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req gameRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	s.mu.Lock()
	sess, ok := s.sessions[req.GameID]
	if ok {
		sess.Reset()
		delete(s.sessions, req.GameID)
		s.dropFinished(req.GameID)
		s.sessions[sess.ID()] = sess
	}
	s.mu.Unlock()
	if !ok {
		return nil, status.Errorf(codes.NotFound, "game %q not found", req.GameID)
	}
	return s.view(sess, nil)
}

// #endregion handlers

// #region helpers
// retire marks a game finished and evicts the oldest finished games beyond
// the retention limit.
func (s *Server) retire(gameID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[gameID]; !ok {
		return
	}
	s.finished = append(s.finished, gameID)
	for len(s.finished) > s.retention {
		oldest := s.finished[0]
		s.finished = s.finished[1:]
		delete(s.sessions, oldest)
		s.logger.Debug("evicted finished game", "game", oldest)
	}
}

// dropFinished forgets gameID from the finished list. Caller holds mu.
func (s *Server) dropFinished(gameID string) {
	for i, id := range s.finished {
		if id == gameID {
			s.finished = append(s.finished[:i], s.finished[i+1:]...)
			return
		}
	}
}

func (s *Server) lookup(gameID string) (*session.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[gameID]
	if !ok {
		return nil, status.Errorf(codes.NotFound, "game %q not found", gameID)
	}
	return sess, nil
}

func (s *Server) view(sess *session.Session, result *engine.TurnResult) (*structpb.Struct, error) {
	v := GameView{
		GameID: sess.ID(),
		Status: sess.Status(),
		State:  sess.State(),
	}
	if result != nil {
		v.Status = result.Status
		v.State = result.NewState
		v.Shock = result.ShockApplied
		v.DebtService = result.DebtService
	}
	out, err := toStruct(v)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, engine.ErrInvalidTransition):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, engine.ErrUnknownPolicy), errors.Is(err, engine.ErrInvalidShock):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

// #endregion helpers
