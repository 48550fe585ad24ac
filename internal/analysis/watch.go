package analysis

import (
	"sync"
	"time"

	"github.com/leafsense/plant-backend/internal/dto"
	"github.com/leafsense/plant-backend/internal/locale"
)

const eventBuffer = 16

// Hub fans phase transitions out to watchers of a session. Slow
// watchers miss events rather than block the flow.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[chan dto.PhaseEvent]struct{}
}

func NewHub() *Hub {
	return &Hub{
		subs: make(map[string]map[chan dto.PhaseEvent]struct{}),
	}
}

// Subscribe registers a watcher for one session. The returned cancel
// func must be called when the watcher goes away.
func (h *Hub) Subscribe(sessionID string) (<-chan dto.PhaseEvent, func()) {
	ch := make(chan dto.PhaseEvent, eventBuffer)

	h.mu.Lock()
	if h.subs[sessionID] == nil {
		h.subs[sessionID] = make(map[chan dto.PhaseEvent]struct{})
	}
	h.subs[sessionID][ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if set, ok := h.subs[sessionID]; ok {
			delete(set, ch)
			if len(set) == 0 {
				delete(h.subs, sessionID)
			}
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// Broadcast publishes one transition to every watcher of the session.
func (h *Hub) Broadcast(sess *Session) {
	notice := sess.Notice
	if sess.Phase == PhaseResult {
		notice = locale.ResultReadyNotice(sess.Language)
	}

	event := dto.PhaseEvent{
		SessionID: sess.ID,
		Phase:     string(sess.Phase),
		Notice:    notice,
		At:        time.Now().UnixMilli(),
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs[sess.ID] {
		select {
		case ch <- event:
		default:
		}
	}
}

// WatcherCount reports how many watchers a session currently has.
func (h *Hub) WatcherCount(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[sessionID])
}
