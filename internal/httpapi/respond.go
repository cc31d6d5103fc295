package httpapi

import (
	"encoding/json"
	"net/http"
)

type errorResponse struct {
	Error  string   `json:"error"`
	Code   string   `json:"code"`
	Index  *int     `json:"index,omitempty"`
	Fields []string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorResponse{Error: msg, Code: code})
}
