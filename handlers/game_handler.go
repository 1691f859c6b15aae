package handlers

import (
	"errors"
	"net/http"

	"github.com/rachao-basket/scoreboard/models"
	"github.com/rachao-basket/scoreboard/scoreboard"
	"github.com/rachao-basket/scoreboard/services"
)

// GameHandler exposes the scoreboard controller intents over HTTP. Every
// endpoint submits a command to the game loop and reports the resulting
// state, so the caller always sees the board as it is after the intent.
type GameHandler struct {
	controller        *scoreboard.Controller
	tournamentService services.TournamentService
}

func NewGameHandler(c *scoreboard.Controller, ts services.TournamentService) *GameHandler {
	return &GameHandler{
		controller:        c,
		tournamentService: ts,
	}
}

func (h *GameHandler) writeState(w http.ResponseWriter, r *http.Request) {
	state, err := h.controller.State()
	if err != nil {
		h.mapControllerError(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"game": state}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *GameHandler) mapControllerError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, scoreboard.ErrControllerStopped) {
		errorResponse(w, r, http.StatusServiceUnavailable, "the scoreboard is not running")
		return
	}
	serverErrorResponse(w, r, err)
}

func (h *GameHandler) State(w http.ResponseWriter, r *http.Request) {
	h.writeState(w, r)
}

func (h *GameHandler) StartQuick(w http.ResponseWriter, r *http.Request) {
	if err := h.controller.StartQuick(); err != nil {
		h.mapControllerError(w, r, err)
		return
	}
	h.writeState(w, r)
}

func (h *GameHandler) StartTournament(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.tournamentService.GetMatch(r.Context(), matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := h.controller.StartTournament(match); err != nil {
		h.mapControllerError(w, r, err)
		return
	}
	h.writeState(w, r)
}

func (h *GameHandler) Play(w http.ResponseWriter, r *http.Request) {
	if err := h.controller.Play(); err != nil {
		h.mapControllerError(w, r, err)
		return
	}
	h.writeState(w, r)
}

func (h *GameHandler) Pause(w http.ResponseWriter, r *http.Request) {
	if err := h.controller.Pause(); err != nil {
		h.mapControllerError(w, r, err)
		return
	}
	h.writeState(w, r)
}

func (h *GameHandler) AddPoint(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Side  models.TeamSide `json:"side"`
		Delta int             `json:"delta"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.Side != models.SideA && input.Side != models.SideB {
		badRequestResponse(w, r, errors.New("side must be A or B"))
		return
	}
	if input.Delta != 1 && input.Delta != 2 && input.Delta != 3 && input.Delta != -1 {
		badRequestResponse(w, r, errors.New("delta must be 1, 2, 3 or -1"))
		return
	}

	if err := h.controller.AddPoint(input.Side, input.Delta); err != nil {
		h.mapControllerError(w, r, err)
		return
	}
	h.writeState(w, r)
}

func (h *GameHandler) ResetTimer(w http.ResponseWriter, r *http.Request) {
	if err := h.controller.ResetTimer(); err != nil {
		h.mapControllerError(w, r, err)
		return
	}
	h.writeState(w, r)
}

func (h *GameHandler) Finish(w http.ResponseWriter, r *http.Request) {
	if err := h.controller.Finish(); err != nil {
		h.mapControllerError(w, r, err)
		return
	}
	h.writeState(w, r)
}

func (h *GameHandler) ResolvePrompt(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Accept bool `json:"accept"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.controller.ResolvePrompt(input.Accept); err != nil {
		h.mapControllerError(w, r, err)
		return
	}
	h.writeState(w, r)
}

func (h *GameHandler) SetTeamNames(w http.ResponseWriter, r *http.Request) {
	var input struct {
		TeamA string `json:"team_a"`
		TeamB string `json:"team_b"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.controller.SetTeamNames(input.TeamA, input.TeamB); err != nil {
		h.mapControllerError(w, r, err)
		return
	}
	h.writeState(w, r)
}

func (h *GameHandler) ClearAlert(w http.ResponseWriter, r *http.Request) {
	if err := h.controller.ClearAlert(); err != nil {
		h.mapControllerError(w, r, err)
		return
	}
	h.writeState(w, r)
}
