package app

import (
	"sort"
	"sync"
	"time"
)

// ClientInfo describes a connected change-stream client.
type ClientInfo struct {
	ID           string    `json:"id"`
	RemoteAddr   string    `json:"remoteAddr"`
	ConnectedAt  time.Time `json:"connectedAt"`
	LastActivity time.Time `json:"lastActivity"`
	Sent         int       `json:"sent"`
}

// ClientRegistry tracks clients subscribed to the dashboard event stream.
type ClientRegistry struct {
	mu      sync.RWMutex
	clients map[string]*ClientInfo
}

// NewClientRegistry creates an empty registry.
func NewClientRegistry() *ClientRegistry {
	return &ClientRegistry{clients: make(map[string]*ClientInfo)}
}

// Add registers a client. Re-adding an id replaces the old entry.
func (r *ClientRegistry) Add(id, remoteAddr string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	r.clients[id] = &ClientInfo{ID: id, RemoteAddr: remoteAddr, ConnectedAt: now, LastActivity: now}
}

// Touch records that an event was delivered to the client.
func (r *ClientRegistry) Touch(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.clients[id]; ok {
		c.LastActivity = time.Now()
		c.Sent++
	}
}

// Remove unregisters a client (e.g. on disconnect).
func (r *ClientRegistry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.clients, id)
}

// Count returns the number of connected clients.
func (r *ClientRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}

// Clients returns a copy of every entry, oldest connection first.
func (r *ClientRegistry) Clients() []ClientInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ClientInfo, 0, len(r.clients))
	for _, c := range r.clients {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ConnectedAt.Equal(out[j].ConnectedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].ConnectedAt.Before(out[j].ConnectedAt)
	})
	return out
}
