package hub

import "github.com/OhASys/sstracker-backend/domain"

// Relay fans one logical event out to every member of a user's room,
// optionally skipping the originating connection. Delivery is
// fire-and-forget: no acknowledgment, no retry, no buffering for rooms
// that are currently empty.
type Relay struct {
	registry *Registry
}

func NewRelay(registry *Registry) *Relay {
	return &Relay{registry: registry}
}

func (r *Relay) Broadcast(userID, event string, payload any, excludeConnID string) {
	for _, c := range r.registry.Members(userID) {
		if c.ID() == excludeConnID {
			continue
		}
		c.Send(domain.ServerEvent{Event: event, Data: payload})
	}
}
