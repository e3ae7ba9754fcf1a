package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/fredericocrmartins-gif/Padel-Pro-Manager-World/brackets"
	"github.com/fredericocrmartins-gif/Padel-Pro-Manager-World/services"
)

type WebSocketHandler struct {
	hub          *brackets.Hub
	cardsService services.CardsService
	upgrader     websocket.Upgrader
	logger       *slog.Logger
}

// NewWebSocketHandler builds the spectator endpoint. allowedOrigins containing "*" accepts
// any origin.
func NewWebSocketHandler(hub *brackets.Hub, cs services.CardsService, allowedOrigins []string, logger *slog.Logger) *WebSocketHandler {
	if logger == nil {
		logger = slog.Default()
	}
	allowAll := false
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		if o == "*" {
			allowAll = true
		}
		allowed[o] = true
	}
	return &WebSocketHandler{
		hub:          hub,
		cardsService: cs,
		logger:       logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return allowAll || origin == "" || allowed[origin]
			},
		},
	}
}

// ServeWs обрабатывает WebSocket запросы для конкретного турнира.
// Клиент подключается к /ws/cards/{tournamentID}
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
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

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		h.logger.Warn("websocket upgrade failed", slog.String("tournament_id", tournamentID), slog.Any("error", err))
		return
	}

	roomID := brackets.RoomID(tournamentID)
	client := brackets.NewClient(h.hub, conn, roomID)

	// Новый зритель сразу получает текущее состояние турнира.
	initial, err := json.Marshal(brackets.WebSocketMessage{
		Type:    brackets.EventStandingsUpdated,
		Payload: view.Standings,
		RoomID:  roomID,
	})
	if err == nil {
		client.Send <- initial
	}
	if !h.hub.Join(client) {
		h.logger.Info("websocket hub stopped, closing connection", slog.String("tournament_id", tournamentID))
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}
