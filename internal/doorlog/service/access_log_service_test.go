package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/BrandonDHaskell/doorlog/internal/doorlog/service"
	"github.com/BrandonDHaskell/doorlog/internal/doorlog/store/memory"
	"github.com/BrandonDHaskell/doorlog/internal/doorlog/types"
	"github.com/BrandonDHaskell/doorlog/internal/logger"
	"github.com/BrandonDHaskell/doorlog/internal/metrics"
)

// newTestAccessLogService builds an AccessLogService backed by an in-memory
// store, returning the store too so tests can inspect it.
func newTestAccessLogService() (*service.AccessLogService, *memory.AccessLogStore) {
	st := memory.NewAccessLogStore()
	return service.NewAccessLogService(st, metrics.New()), st
}

func validInput(tm string) types.AccessEventInput {
	return types.AccessEventInput{Date: "2024-01-01", Time: tm, AccessType: "Entrada"}
}

func storeLen(t *testing.T, st *memory.AccessLogStore) int {
	t.Helper()
	n, err := st.Len(context.Background())
	require.NoError(t, err)
	return n
}

// ── Append ───────────────────────────────────────────────────────────────────

func TestAppend_NValidCalls_IDsOneToN(t *testing.T) {
	svc, _ := newTestAccessLogService()
	ctx := context.Background()

	times := []string{"08:00", "08:05", "09:10", "12:00", "17:45"}
	for _, tm := range times {
		_, err := svc.Append(ctx, validInput(tm))
		require.NoError(t, err)
	}

	events, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, events, len(times))
	for i, ev := range events {
		assert.Equal(t, int64(i+1), ev.ID)
		assert.Equal(t, times[i], ev.Time, "events must keep call order")
	}
}

func TestAppend_ReturnsCreatedEvent(t *testing.T) {
	svc, _ := newTestAccessLogService()

	ev, err := svc.Append(context.Background(), validInput("08:00"))
	require.NoError(t, err)
	assert.Equal(t, types.AccessEvent{ID: 1, Date: "2024-01-01", Time: "08:00", AccessType: "Entrada"}, ev)
}

func TestAppend_MissingFields_ValidationErrorAndNoChange(t *testing.T) {
	cases := []struct {
		name    string
		in      types.AccessEventInput
		missing []string
	}{
		{"no date", types.AccessEventInput{Time: "08:00", AccessType: "Entrada"}, []string{"date"}},
		{"no time", types.AccessEventInput{Date: "2024-01-01", AccessType: "Entrada"}, []string{"time"}},
		{"no type", types.AccessEventInput{Date: "2024-01-01", Time: "08:00"}, []string{"accessType"}},
		{"only date", types.AccessEventInput{Date: "2024-01-01"}, []string{"time", "accessType"}},
		{"blank", types.AccessEventInput{Date: "  ", Time: "\t", AccessType: ""}, []string{"date", "time", "accessType"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, st := newTestAccessLogService()

			_, err := svc.Append(context.Background(), tc.in)
			require.Error(t, err)
			assert.ErrorIs(t, err, service.ErrValidation)

			var verr *service.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, -1, verr.Index)
			assert.False(t, verr.InBatch())
			assert.Equal(t, tc.missing, verr.Fields)

			assert.Zero(t, storeLen(t, st))
		})
	}
}

func TestAppend_FailureDoesNotConsumeID(t *testing.T) {
	svc, _ := newTestAccessLogService()
	ctx := context.Background()

	_, err := svc.Append(ctx, types.AccessEventInput{})
	require.Error(t, err)

	ev, err := svc.Append(ctx, validInput("08:00"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), ev.ID)
}

// ── AppendBatch ──────────────────────────────────────────────────────────────

func TestAppendBatch_ContinuesFromCurrentLength(t *testing.T) {
	svc, _ := newTestAccessLogService()
	ctx := context.Background()

	_, err := svc.Append(ctx, validInput("07:00"))
	require.NoError(t, err)

	res, err := svc.AppendBatch(ctx, []types.AccessEventInput{validInput("08:00"), validInput("09:00")})
	require.NoError(t, err)

	assert.NotEmpty(t, res.Message)
	require.Len(t, res.Events, 2)
	assert.Equal(t, int64(2), res.Events[0].ID)
	assert.Equal(t, int64(3), res.Events[1].ID)
}

func TestAppendBatch_InvalidElement_RejectsWholeBatch(t *testing.T) {
	svc, st := newTestAccessLogService()
	ctx := context.Background()

	_, err := svc.AppendBatch(ctx, []types.AccessEventInput{
		validInput("08:00"),
		{Date: "2024-01-01", AccessType: "Salida"},
		validInput("09:00"),
	})
	require.Error(t, err)

	var verr *service.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, 1, verr.Index)
	assert.True(t, verr.InBatch())
	assert.Equal(t, []string{"time"}, verr.Fields)
	assert.Contains(t, err.Error(), "index 1")

	assert.Zero(t, storeLen(t, st), "strict policy appends nothing")

	// Ids are not burned by the rejected batch.
	ev, err := svc.Append(ctx, validInput("10:00"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), ev.ID)
}

func TestAppendBatch_FirstInvalidIndexReported(t *testing.T) {
	svc, _ := newTestAccessLogService()

	_, err := svc.AppendBatch(context.Background(), []types.AccessEventInput{
		validInput("08:00"),
		validInput("08:30"),
		{},
		{Date: "x"},
	})

	var verr *service.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, 2, verr.Index)
}

func TestAppendBatch_Empty_Succeeds(t *testing.T) {
	svc, st := newTestAccessLogService()

	res, err := svc.AppendBatch(context.Background(), []types.AccessEventInput{})
	require.NoError(t, err)
	assert.NotNil(t, res.Events)
	assert.Empty(t, res.Events)
	assert.Zero(t, storeLen(t, st))
}

func TestAppendBatch_DebugLogCarriesLogSize(t *testing.T) {
	svc, _ := newTestAccessLogService()
	core, logs := observer.New(zapcore.DebugLevel)
	ctx := logger.ToContext(context.Background(), zap.New(core))

	_, err := svc.Append(ctx, validInput("07:00"))
	require.NoError(t, err)
	_, err = svc.AppendBatch(ctx, []types.AccessEventInput{validInput("08:00"), validInput("09:00")})
	require.NoError(t, err)

	entries := logs.FilterMessage("access event batch appended").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, int64(3), fields["total"])
	assert.Equal(t, int64(2), fields["count"])
}
