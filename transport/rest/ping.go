package rest

import (
	"encoding/json"
	"net/http"

	"github.com/rocketscienceinc/tictactoe-arcade/internal/entity"
)

type modeResponse struct {
	Name  string `json:"name"`
	Title string `json:"title"`
}

func pingHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

func modesHandler(w http.ResponseWriter, _ *http.Request) {
	modes := make([]modeResponse, 0, len(entity.Modes))
	for _, mode := range entity.Modes {
		modes = append(modes, modeResponse{Name: mode.String(), Title: mode.Title()})
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(modes); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}
