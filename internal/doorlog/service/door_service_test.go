package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BrandonDHaskell/doorlog/internal/doorlog/service"
	"github.com/BrandonDHaskell/doorlog/internal/doorlog/store/memory"
	"github.com/BrandonDHaskell/doorlog/internal/doorlog/types"
)

func newTestDoorService() *service.DoorService {
	return service.NewDoorService(memory.NewDoorStateStore(), nil)
}

func TestDoor_InitiallyLocked(t *testing.T) {
	svc := newTestDoorService()

	st, err := svc.State(context.Background())
	require.NoError(t, err)
	assert.Equal(t, types.DoorLocked, st.State)
}

func TestDoor_OpenThenState_Unlocked(t *testing.T) {
	svc := newTestDoorService()
	ctx := context.Background()

	res, err := svc.Open(ctx)
	require.NoError(t, err)
	assert.Equal(t, types.DoorUnlocked, res.State)
	assert.NotEmpty(t, res.Message)

	st, err := svc.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, types.DoorUnlocked, st.State)
}

func TestDoor_CloseThenState_Locked(t *testing.T) {
	svc := newTestDoorService()
	ctx := context.Background()

	_, err := svc.Open(ctx)
	require.NoError(t, err)

	res, err := svc.Close(ctx)
	require.NoError(t, err)
	assert.Equal(t, types.DoorLocked, res.State)

	st, _ := svc.State(ctx)
	assert.Equal(t, types.DoorLocked, st.State)
}

func TestDoor_CloseTwice_Idempotent(t *testing.T) {
	svc := newTestDoorService()
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		res, err := svc.Close(ctx)
		require.NoError(t, err, "close #%d", i+1)
		assert.Equal(t, types.DoorLocked, res.State)
	}

	st, _ := svc.State(ctx)
	assert.Equal(t, types.DoorLocked, st.State)
}
