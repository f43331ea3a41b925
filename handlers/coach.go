// handlers/coach.go - AI tutor chat over WebSocket
package handlers

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/websocket/v2"

	"carabin/middleware"
	"carabin/services"
)

const (
	coachReplyTimeout = 60 * time.Second
	coachHistoryMax   = 20 // lines of transcript kept as context
)

type CoachMessage struct {
	Message string `json:"message"`
}

type CoachReply struct {
	Type  string `json:"type"`
	Reply string `json:"reply,omitempty"`
	Error string `json:"error,omitempty"`
}

// CoachSocket runs one tutoring conversation. The client authenticates with
// ?token= on the upgrade request and sends {"message": ...} frames; each
// gets one generated reply. Coach chat does not consume quota.
func CoachSocket(conn *websocket.Conn) {
	defer conn.Close()

	claims, err := middleware.ParseToken(conn.Query("token"))
	if err != nil {
		_ = conn.WriteJSON(CoachReply{Type: "error", Error: "Unauthorized"})
		return
	}
	username, _ := claims["username"].(string)
	log.Printf("🎓 Coach session opened: %s", username)

	var history []string
	for {
		var in CoachMessage
		if err := conn.ReadJSON(&in); err != nil {
			log.Printf("🎓 Coach session closed: %s", username)
			return
		}
		if in.Message == "" {
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), coachReplyTimeout)
		reply, err := generator.Generate(ctx, services.BuildCoachPrompt(history, in.Message))
		cancel()
		if err != nil {
			log.Printf("Coach generation failed for %s: %v", username, err)
			_ = conn.WriteJSON(CoachReply{Type: "error", Error: "Generation service unavailable"})
			continue
		}

		history = append(history, "Étudiant: "+in.Message, "Tuteur: "+reply)
		if len(history) > coachHistoryMax {
			history = history[len(history)-coachHistoryMax:]
		}

		if err := conn.WriteJSON(CoachReply{Type: "reply", Reply: reply}); err != nil {
			return
		}
	}
}
