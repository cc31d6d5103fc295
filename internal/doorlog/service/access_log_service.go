package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/BrandonDHaskell/doorlog/internal/doorlog/store"
	"github.com/BrandonDHaskell/doorlog/internal/doorlog/types"
	"github.com/BrandonDHaskell/doorlog/internal/logger"
	"github.com/BrandonDHaskell/doorlog/internal/metrics"
)

const batchMessage = "access events added"

type AccessLogService struct {
	store   store.AccessLogStore
	metrics *metrics.Metrics
}

// NewAccessLogService wires the service to its store.  m may be nil.
func NewAccessLogService(st store.AccessLogStore, m *metrics.Metrics) *AccessLogService {
	return &AccessLogService{store: st, metrics: m}
}

func (s *AccessLogService) List(ctx context.Context) ([]types.AccessEvent, error) {
	return s.store.List(ctx)
}

// Append validates one event and appends it.  A *ValidationError leaves the
// log untouched.
func (s *AccessLogService) Append(ctx context.Context, in types.AccessEventInput) (types.AccessEvent, error) {
	if missing := missingFields(in); len(missing) > 0 {
		s.metrics.EventsRejected()
		return types.AccessEvent{}, &ValidationError{Index: -1, Fields: missing}
	}

	ev, err := s.store.Append(ctx, in)
	if err != nil {
		return types.AccessEvent{}, err
	}
	s.metrics.EventsAppended(1)

	if ce := logger.From(ctx).Check(zap.DebugLevel, "access event appended"); ce != nil {
		ce.Write(
			zap.Int64("id", ev.ID),
			zap.String("access_type", ev.AccessType),
			s.totalField(ctx),
		)
	}
	return ev, nil
}

// AppendBatch validates every element before touching the store.  The first
// invalid element rejects the whole batch; otherwise all events are appended
// with consecutive ids.  An empty batch appends nothing and succeeds.
func (s *AccessLogService) AppendBatch(ctx context.Context, ins []types.AccessEventInput) (types.BatchResult, error) {
	for i, in := range ins {
		if missing := missingFields(in); len(missing) > 0 {
			s.metrics.EventsRejected()
			return types.BatchResult{}, &ValidationError{Index: i, Fields: missing}
		}
	}

	evs, err := s.store.AppendBatch(ctx, ins)
	if err != nil {
		return types.BatchResult{}, err
	}
	s.metrics.EventsAppended(len(evs))

	if len(evs) > 0 {
		if ce := logger.From(ctx).Check(zap.DebugLevel, "access event batch appended"); ce != nil {
			ce.Write(
				zap.Int("count", len(evs)),
				zap.Int64("first_id", evs[0].ID),
				zap.Int64("last_id", evs[len(evs)-1].ID),
				s.totalField(ctx),
			)
		}
	}
	return types.BatchResult{Message: batchMessage, Events: evs}, nil
}

// totalField reports the log size after an append.  Only called when the
// debug line is actually written.
func (s *AccessLogService) totalField(ctx context.Context) zap.Field {
	n, err := s.store.Len(ctx)
	if err != nil {
		return zap.NamedError("total_error", err)
	}
	return zap.Int("total", n)
}

// missingFields lists the json names of absent fields.  Whitespace-only
// counts as absent.
func missingFields(in types.AccessEventInput) []string {
	var missing []string
	if strings.TrimSpace(in.Date) == "" {
		missing = append(missing, "date")
	}
	if strings.TrimSpace(in.Time) == "" {
		missing = append(missing, "time")
	}
	if strings.TrimSpace(in.AccessType) == "" {
		missing = append(missing, "accessType")
	}
	return missing
}
