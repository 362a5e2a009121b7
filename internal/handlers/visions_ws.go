package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/delphi-works/oracle/internal/models"
)

const visionsWSReadLimit = 16 << 10

var visionsWSUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// visionsWSInMessage is the JSON shape sent from the client.
type visionsWSInMessage struct {
	Type  string `json:"type"`
	Query string `json:"query"`
}

// visionsWSOutMessage is the JSON shape sent to the client. Stage events go
// out while the pipeline runs; the final message carries the response.
type visionsWSOutMessage struct {
	Type     string                 `json:"type"` // stage, result
	Stage    string                 `json:"stage,omitempty"`
	Response *models.OracleResponse `json:"response,omitempty"`
	Error    string                 `json:"error,omitempty"`
}

// VisionsWS handles GET /v1/visions/ws, a WebSocket endpoint for long-running
// vision requests with per-stage progress.
func (h *Handler) VisionsWS(w http.ResponseWriter, r *http.Request) {
	conn, err := visionsWSUpgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("visions ws upgrade failed")
		return
	}
	defer conn.Close()

	conn.SetReadLimit(visionsWSReadLimit)
	conn.SetReadDeadline(time.Now().Add(10 * time.Minute))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(10 * time.Minute))
		return nil
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return
			}
			log.Debug().Err(err).Msg("visions ws read")
			return
		}
		conn.SetReadDeadline(time.Now().Add(10 * time.Minute))

		var in visionsWSInMessage
		if err := json.Unmarshal(raw, &in); err != nil {
			_ = writeWSJSON(conn, visionsWSOutMessage{Type: "result", Error: "invalid JSON: " + err.Error()})
			continue
		}
		if in.Type != "ask" {
			_ = writeWSJSON(conn, visionsWSOutMessage{Type: "result", Error: "expected type: ask"})
			continue
		}

		progress := func(stage string) {
			_ = writeWSJSON(conn, visionsWSOutMessage{Type: "stage", Stage: stage})
		}

		resp, _, callErr := h.visionService.CreateVision(r.Context(), &models.CreateVisionRequest{Query: in.Query}, progress)
		out := visionsWSOutMessage{Type: "result", Response: resp}
		if callErr != nil {
			out.Error = callErr.Error()
		}
		if err := writeWSJSON(conn, out); err != nil {
			log.Debug().Err(err).Msg("visions ws write")
			return
		}
	}
}

func writeWSJSON(conn *websocket.Conn, v interface{}) error {
	conn.SetWriteDeadline(time.Now().Add(30 * time.Second))
	return conn.WriteJSON(v)
}
