package httpapi_test

import (
	"bytes"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

func doProto(t *testing.T, method, url string, body *structpb.Value) (*http.Response, *structpb.Value) {
	t.Helper()

	var rd io.Reader
	if body != nil {
		b, err := proto.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, url, rd)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/x-protobuf")
	}
	req.Header.Set("Accept", "application/x-protobuf")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, "application/x-protobuf", resp.Header.Get("Content-Type"))
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out structpb.Value
	require.NoError(t, proto.Unmarshal(raw, &out))
	return resp, &out
}

func mustValue(t *testing.T, v any) *structpb.Value {
	t.Helper()
	pv, err := structpb.NewValue(v)
	require.NoError(t, err)
	return pv
}

func TestProto_PostSingleEvent(t *testing.T) {
	ts := newTestServer(t)

	resp, out := doProto(t, http.MethodPost, ts.URL+"/accesos", mustValue(t, map[string]any{
		"date": "2024-01-01", "time": "08:00", "accessType": "Entrada",
	}))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	fields := out.GetStructValue().GetFields()
	assert.Equal(t, float64(1), fields["id"].GetNumberValue())
	assert.Equal(t, "Entrada", fields["accessType"].GetStringValue())
}

func TestProto_PostBatch_ThenListAsJSON(t *testing.T) {
	ts := newTestServer(t)

	resp, out := doProto(t, http.MethodPost, ts.URL+"/accesos", mustValue(t, []any{
		map[string]any{"date": "2024-01-01", "time": "08:00", "accessType": "Entrada"},
		map[string]any{"date": "2024-01-01", "time": "17:00", "accessType": "Salida"},
	}))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	events := out.GetStructValue().GetFields()["events"].GetListValue().GetValues()
	require.Len(t, events, 2)
	assert.Equal(t, float64(2), events[1].GetStructValue().GetFields()["id"].GetNumberValue())

	// Same store is visible over JSON.
	listed := decode[[]map[string]any](t, get(t, ts.URL+"/accesos"))
	assert.Len(t, listed, 2)
}

func TestProto_ValidationErrorEncoded(t *testing.T) {
	ts := newTestServer(t)

	resp, out := doProto(t, http.MethodPost, ts.URL+"/accesos", mustValue(t, map[string]any{
		"date": "2024-01-01",
	}))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "missing fields", out.GetStructValue().GetFields()["error"].GetStringValue())
}

func TestProto_DoorStateRoundTrip(t *testing.T) {
	ts := newTestServer(t)

	_, out := doProto(t, http.MethodGet, ts.URL+"/estado", nil)
	assert.Equal(t, "LOCKED", out.GetStructValue().GetFields()["state"].GetStringValue())

	_, out = doProto(t, http.MethodPost, ts.URL+"/abrir", nil)
	assert.Equal(t, "UNLOCKED", out.GetStructValue().GetFields()["state"].GetStringValue())
}

func TestProto_GarbageBody_400(t *testing.T) {
	ts := newTestServer(t)

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/accesos", bytes.NewReader([]byte{0xff, 0xff, 0xff}))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-protobuf")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestProto_ErrorRoutesEncoded(t *testing.T) {
	ts := newTestServer(t)

	resp, out := doProto(t, http.MethodGet, ts.URL+"/productos", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "not_found", out.GetStructValue().GetFields()["code"].GetStringValue())

	resp, out = doProto(t, http.MethodDelete, ts.URL+"/accesos", nil)
	require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.Equal(t, "method_not_allowed", out.GetStructValue().GetFields()["code"].GetStringValue())
}
