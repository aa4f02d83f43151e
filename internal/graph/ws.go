package graph

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/delibee-app/server/internal/events"
	"github.com/delibee-app/server/internal/middleware"
	"github.com/delibee-app/server/internal/models"
	"github.com/delibee-app/server/internal/notify"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// subscribeRequest is the first client frame on the socket: the JWT plus the
// events the client wants and their variables.
type subscribeRequest struct {
	Token  string `json:"token"`
	Events []struct {
		Name   string `json:"name"`
		UserID string `json:"userId,omitempty"`
	} `json:"events"`
}

// frame is one pushed event.
type frame struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

// Subscriptions upgrades the connection and streams matching bus events.
// Each event name has its own delivery predicate so clients only see their
// own conversations, notifications and presence updates.
func Subscriptions(bus *events.Bus, jwtSecret string) echo.HandlerFunc {
	return func(c echo.Context) error {
		conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			return err
		}
		defer conn.Close()

		var req subscribeRequest
		if err := conn.ReadJSON(&req); err != nil {
			return nil
		}
		authID, err := middleware.ParseToken(req.Token, jwtSecret)
		if err != nil {
			conn.WriteJSON(frame{Event: "error", Payload: "unauthorized"})
			return nil
		}

		wanted := make(map[string]primitive.ObjectID, len(req.Events))
		for _, ev := range req.Events {
			otherID, _ := primitive.ObjectIDFromHex(ev.UserID)
			wanted[ev.Name] = otherID
		}

		sub := bus.Subscribe(16, func(ev events.Event) bool {
			otherID, ok := wanted[ev.Name]
			if !ok {
				return false
			}
			return matches(ev, authID, otherID)
		})
		defer sub.Close()

		// Drain client frames so pings are answered and closure is noticed.
		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case ev, ok := <-sub.C:
				if !ok {
					return nil
				}
				if err := conn.WriteJSON(frame{Event: ev.Name, Payload: ev.Payload}); err != nil {
					return nil
				}
			case <-done:
				return nil
			}
		}
	}
}

// matches applies the per-event delivery predicate.
func matches(ev events.Event, authID, otherID primitive.ObjectID) bool {
	switch ev.Name {
	case events.MessageCreated:
		// Both the subscriber and the conversation partner must be a party
		// to the message.
		m, ok := ev.Payload.(*models.Message)
		if !ok {
			return false
		}
		authParty := m.SenderID == authID || m.ReceiverID == authID
		otherParty := m.SenderID == otherID || m.ReceiverID == otherID
		return authParty && otherParty
	case events.NewConversation:
		nc, ok := ev.Payload.(NewConversationEvent)
		return ok && nc.ReceiverID == authID
	case events.NotificationChanged:
		change, ok := ev.Payload.(notify.NotificationChange)
		return ok && change.Notification != nil && change.Notification.Key == authID
	case events.UserOnline:
		presence, ok := ev.Payload.(UserPresence)
		return ok && presence.UserID == otherID
	}
	return false
}
