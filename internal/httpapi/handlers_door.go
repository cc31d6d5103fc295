package httpapi

import (
	"context"
	"net/http"

	"github.com/BrandonDHaskell/doorlog/internal/doorlog/types"
)

func (s *Server) handleDoorState(w http.ResponseWriter, r *http.Request) {
	st, err := s.doorService.State(r.Context())
	if err != nil {
		s.internalError(w, r, "door state", err)
		return
	}
	respond(w, r, http.StatusOK, st)
}

func (s *Server) handleDoorOpen(w http.ResponseWriter, r *http.Request) {
	s.doorCommand(w, r, "door open", s.doorService.Open)
}

func (s *Server) handleDoorClose(w http.ResponseWriter, r *http.Request) {
	s.doorCommand(w, r, "door close", s.doorService.Close)
}

func (s *Server) doorCommand(
	w http.ResponseWriter,
	r *http.Request,
	op string,
	cmd func(context.Context) (types.DoorCommandResult, error),
) {
	res, err := cmd(r.Context())
	if err != nil {
		s.internalError(w, r, op, err)
		return
	}
	respond(w, r, http.StatusOK, res)
}
