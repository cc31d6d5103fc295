package httpapi

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strings"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// maxRequestBody caps request bodies for both encodings.  A batch of a few
// thousand events fits comfortably.
const maxRequestBody = 1 << 20

const contentTypeProtobuf = "application/x-protobuf"

// Door bridges may speak protobuf instead of JSON.  The payload is always a
// google.protobuf.Value whose shape mirrors the JSON body, so both encodings
// share one decoding path: protobuf is transcoded to JSON on the way in and
// back on the way out.

func isProtobuf(r *http.Request) bool {
	return isProtobufType(r.Header.Get("Content-Type"))
}

func wantsProtobuf(r *http.Request) bool {
	for _, part := range strings.Split(r.Header.Get("Accept"), ",") {
		if isProtobufType(part) {
			return true
		}
	}
	return false
}

func isProtobufType(v string) bool {
	mt, _, err := mime.ParseMediaType(strings.TrimSpace(v))
	if err != nil {
		return false
	}
	return mt == contentTypeProtobuf || mt == "application/protobuf"
}

// readBody returns the request body as JSON bytes, transcoding protobuf
// payloads.  A body over maxRequestBody fails with *http.MaxBytesError.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err != nil {
		return nil, err
	}
	if !isProtobuf(r) {
		return body, nil
	}

	var v structpb.Value
	if err := proto.Unmarshal(body, &v); err != nil {
		return nil, err
	}
	return protojson.Marshal(&v)
}

// respond writes v as JSON, or as a protobuf Value when the client asked
// for one.
func respond(w http.ResponseWriter, r *http.Request, status int, v any) {
	if !wantsProtobuf(r) {
		writeJSON(w, status, v)
		return
	}

	msg, err := toProtoValue(v)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "proto encode error")
		return
	}
	writeProto(w, status, msg)
}

func toProtoValue(v any) (*structpb.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out structpb.Value
	if err := protojson.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// writeProto marshals msg and writes it with the given HTTP status.
func writeProto(w http.ResponseWriter, status int, msg proto.Message) {
	data, err := proto.Marshal(msg)
	if err != nil {
		http.Error(w, "proto marshal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentTypeProtobuf)
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
