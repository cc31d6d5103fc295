package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/BrandonDHaskell/doorlog/internal/doorlog/service"
	"github.com/BrandonDHaskell/doorlog/internal/doorlog/types"
	"github.com/BrandonDHaskell/doorlog/internal/logger"
)

var errBadBody = errors.New("body must be an access event object or an array of them")

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := s.accessLogService.List(r.Context())
	if err != nil {
		s.internalError(w, r, "list events", err)
		return
	}
	respond(w, r, http.StatusOK, events)
}

// handleAppendEvents accepts a single event object or an array of them.
func (s *Server) handleAppendEvents(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond(w, r, http.StatusRequestEntityTooLarge, errorResponse{Error: "request body too large", Code: "body_too_large"})
			return
		}
		respond(w, r, http.StatusBadRequest, errorResponse{Error: "invalid request body", Code: "bad_request"})
		return
	}

	single, batch, err := decodeEvents(body)
	if err != nil {
		respond(w, r, http.StatusBadRequest, errorResponse{Error: "invalid JSON body", Code: "bad_json"})
		return
	}

	if batch != nil {
		res, err := s.accessLogService.AppendBatch(r.Context(), batch)
		if err != nil {
			s.appendError(w, r, err)
			return
		}
		respond(w, r, http.StatusCreated, res)
		return
	}

	ev, err := s.accessLogService.Append(r.Context(), *single)
	if err != nil {
		s.appendError(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, ev)
}

// decodeEvents returns exactly one of single or batch.  An empty array
// yields a non-nil, empty batch.
func decodeEvents(body []byte) (*types.AccessEventInput, []types.AccessEventInput, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, nil, errBadBody
	}

	switch trimmed[0] {
	case '[':
		batch := make([]types.AccessEventInput, 0)
		if err := json.Unmarshal(trimmed, &batch); err != nil {
			return nil, nil, err
		}
		return nil, batch, nil
	case '{':
		var in types.AccessEventInput
		if err := json.Unmarshal(trimmed, &in); err != nil {
			return nil, nil, err
		}
		return &in, nil, nil
	default:
		return nil, nil, errBadBody
	}
}

func (s *Server) appendError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *service.ValidationError
	if !errors.As(err, &verr) {
		s.internalError(w, r, "append events", err)
		return
	}

	resp := errorResponse{Error: "missing fields", Code: "validation_error", Fields: verr.Fields}
	if verr.InBatch() {
		idx := verr.Index
		resp.Error = fmt.Sprintf("event at index %d is incomplete", idx)
		resp.Index = &idx
	}
	respond(w, r, http.StatusBadRequest, resp)
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, op string, err error) {
	logger.From(r.Context()).Error(op, zap.Error(err))
	respond(w, r, http.StatusInternalServerError, errorResponse{Error: "unexpected server error", Code: "internal_error"})
}
