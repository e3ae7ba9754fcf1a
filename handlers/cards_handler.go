package handlers

import (
	"net/http"
	"strings"

	"github.com/fredericocrmartins-gif/Padel-Pro-Manager-World/models"
	"github.com/fredericocrmartins-gif/Padel-Pro-Manager-World/services"
)

type CardsHandler struct {
	cardsService services.CardsService
}

func NewCardsHandler(cs services.CardsService) *CardsHandler {
	return &CardsHandler{cardsService: cs}
}

// CreateHandler обрабатывает POST /api/cards/tournaments
func (h *CardsHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var input services.CreateCardsTournamentInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	view, err := h.cardsService.CreateTournament(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	headers := make(http.Header)
	headers.Set("Location", "/api/cards/tournaments/"+view.Tournament.ID)
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"cards_tournament": view}, headers); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListHandler обрабатывает GET /api/cards/tournaments?status=round1_active,round2_active
func (h *CardsHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	var statuses []models.CardsStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				statuses = append(statuses, models.CardsStatus(part))
			}
		}
	}

	tournaments, err := h.cardsService.ListTournaments(r.Context(), statuses)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"cards_tournaments": tournaments}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetHandler обрабатывает GET /api/cards/tournaments/{tournamentID}
func (h *CardsHandler) GetHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getStringParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	view, err := h.cardsService.GetTournament(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"cards_tournament": view}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *CardsHandler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getStringParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.cardsService.DeleteTournament(r.Context(), tournamentID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CardsHandler) StandingsHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getStringParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	standings, err := h.cardsService.GetStandings(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": standings}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *CardsHandler) FinalStandingsHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getStringParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	standings, err := h.cardsService.GetFinalStandings(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"final_standings": standings}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RoundMatchesHandler обрабатывает GET /api/cards/tournaments/{tournamentID}/rounds/{round}/matches
func (h *CardsHandler) RoundMatchesHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getStringParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	round, err := getIntParam(r, "round")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	matches, err := h.cardsService.ListRoundMatches(r.Context(), tournamentID, round)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"round": round, "matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RecordResultHandler обрабатывает POST /api/cards/tournaments/{tournamentID}/matches/{matchID}/result
func (h *CardsHandler) RecordResultHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getStringParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	matchID, err := getStringParam(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.RecordResultInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	out, err := h.cardsService.RecordResult(r.Context(), tournamentID, matchID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"result": out}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func HealthHandler(w http.ResponseWriter, r *http.Request) {
	if err := writeJSON(w, http.StatusOK, jsonResponse{"status": "ok"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
