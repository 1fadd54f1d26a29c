package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/quizbattle-lab/backend/internal/model"
	"github.com/quizbattle-lab/backend/pkg/errorx"
)

func (s *srv) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"name":   "QuizBattle",
		"status": "ok",
	})
}

func (s *srv) handleGetRooms(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	resp, err := s.lobbyDomain.GetRooms(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *srv) handleGetCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	resp, err := s.lobbyDomain.GetCategories(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *srv) handleGetGameTypes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	resp, err := s.lobbyDomain.GetGameTypes(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *srv) handleCreatePlayer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req model.CreatePlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errorx.New(errorx.BadRequest, "invalid request body"))
		return
	}

	resp, err := s.playerDomain.Create(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *srv) handleGetPlayer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/players/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}

	resp, err := s.playerDomain.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	var domainErr errorx.Error
	if !errors.As(err, &domainErr) {
		domainErr = errorx.Unknown
	}

	writeJSON(w, httpStatusOf(domainErr.Code), map[string]any{
		"code":    domainErr.Code,
		"message": domainErr.Message,
	})
}

func httpStatusOf(code errorx.Code) int {
	switch code {
	case errorx.BadRequest, errorx.InvalidGameType:
		return http.StatusBadRequest
	case errorx.NotFound, errorx.RoomNotFound, errorx.PlayerNotFound:
		return http.StatusNotFound
	case errorx.RoomFull, errorx.AlreadyInRoom, errorx.NotYourRoom, errorx.WrongRoomPhase:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
