package dashboard

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/jaakkos/backoffice/internal/collection"
	"github.com/jaakkos/backoffice/internal/domain"
)

const writeWait = 10 * time.Second

// KindReady is the first event on every stream, sent once the client is subscribed.
const KindReady collection.ChangeKind = "ready"

// Event is one message on the /api/events stream.
type Event struct {
	Entity string                `json:"entity"` // product, user or catalog
	Kind   collection.ChangeKind `json:"kind"`
	ID     string                `json:"id,omitempty"`
	Field  domain.Flag           `json:"field,omitempty"`
	Record any                   `json:"record,omitempty"`
}

func eventFrom[T any](entity string, c collection.Change[T]) Event {
	ev := Event{Entity: entity, Kind: c.Kind, ID: c.ID, Field: c.Field}
	if c.Kind != collection.Reset {
		ev.Record = c.Record
	}
	return ev
}

// handleEvents upgrades to a websocket and streams every collection change
// until the client disconnects.
func (h *Handler) handleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("event stream upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	products, stopProducts := h.svc.Products().Store().Subscribe()
	defer stopProducts()
	users, stopUsers := h.svc.Users().Store().Subscribe()
	defer stopUsers()

	id := uuid.NewString()
	h.clients.Add(id, r.RemoteAddr)
	defer h.clients.Remove(id)
	log := h.logger.With(zap.String("client", id))
	log.Info("event stream client connected", zap.String("remote", r.RemoteAddr))
	defer log.Info("event stream client disconnected")

	// The read loop only notices closes and answers control frames.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	send := func(ev Event) bool {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(ev); err != nil {
			log.Debug("event write failed", zap.Error(err))
			return false
		}
		h.clients.Touch(id)
		return true
	}

	if !send(Event{Entity: "catalog", Kind: KindReady, Record: h.svc.Stats()}) {
		return
	}

	ping := time.NewTicker(h.pingInterval)
	defer ping.Stop()
	for {
		var ok bool
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case c := <-products:
			ok = send(eventFrom("product", c))
		case c := <-users:
			ok = send(eventFrom("user", c))
		case <-ping.C:
			ok = conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)) == nil
		}
		if !ok {
			return
		}
	}
}
