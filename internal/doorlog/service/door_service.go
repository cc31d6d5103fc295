package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/BrandonDHaskell/doorlog/internal/doorlog/store"
	"github.com/BrandonDHaskell/doorlog/internal/doorlog/types"
	"github.com/BrandonDHaskell/doorlog/internal/logger"
	"github.com/BrandonDHaskell/doorlog/internal/metrics"
)

const (
	msgDoorOpened = "door opened"
	msgDoorClosed = "door closed"
)

// DoorService drives the two-state door lock.  Open and Close are
// unconditional and idempotent; neither writes to the access log.
type DoorService struct {
	store   store.DoorStateStore
	metrics *metrics.Metrics
}

func NewDoorService(st store.DoorStateStore, m *metrics.Metrics) *DoorService {
	return &DoorService{store: st, metrics: m}
}

func (s *DoorService) State(ctx context.Context) (types.DoorStatus, error) {
	st, err := s.store.State(ctx)
	if err != nil {
		return types.DoorStatus{}, err
	}
	return types.DoorStatus{State: st}, nil
}

func (s *DoorService) Open(ctx context.Context) (types.DoorCommandResult, error) {
	return s.transition(ctx, "open", types.DoorUnlocked, msgDoorOpened)
}

func (s *DoorService) Close(ctx context.Context) (types.DoorCommandResult, error) {
	return s.transition(ctx, "close", types.DoorLocked, msgDoorClosed)
}

func (s *DoorService) transition(ctx context.Context, command string, to types.DoorState, msg string) (types.DoorCommandResult, error) {
	if err := s.store.SetState(ctx, to); err != nil {
		return types.DoorCommandResult{}, err
	}
	s.metrics.DoorTransition(command, to)

	logger.From(ctx).Info("door command applied",
		zap.String("command", command),
		zap.String("state", string(to)),
	)
	return types.DoorCommandResult{Message: msg, State: to}, nil
}
