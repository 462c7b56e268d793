package hub

import "github.com/OhASys/sstracker-backend/domain"

// Conn is one live device connection as the hub sees it. Send is
// fire-and-forget: slow consumers are the transport's problem.
type Conn interface {
	ID() string
	// AuthUserID returns the authenticated principal for the connection,
	// or "" when the transport performs no authentication.
	AuthUserID() string
	Send(ev domain.ServerEvent)
}

// Registry tracks which live connections belong to which user room. It is
// not safe for concurrent use on its own: the Hub's dispatch lock guards it.
type Registry struct {
	rooms map[string]map[string]Conn
	users map[string]string
}

func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[string]map[string]Conn),
		users: make(map[string]string),
	}
}

// Join places conn into userID's room. Joining twice with the same pair is a
// no-op; joining while in another room moves the connection, since one
// connection belongs to at most one room.
func (r *Registry) Join(conn Conn, userID string) {
	if prev, ok := r.users[conn.ID()]; ok {
		if prev == userID {
			r.rooms[userID][conn.ID()] = conn
			return
		}
		r.Leave(conn.ID())
	}
	room := r.rooms[userID]
	if room == nil {
		room = make(map[string]Conn)
		r.rooms[userID] = room
	}
	room[conn.ID()] = conn
	r.users[conn.ID()] = userID
}

// Leave removes connID from whichever room it belongs to, pruning the room
// entry when it empties. Unknown IDs are a no-op.
func (r *Registry) Leave(connID string) {
	userID, ok := r.users[connID]
	if !ok {
		return
	}
	delete(r.users, connID)
	room := r.rooms[userID]
	delete(room, connID)
	if len(room) == 0 {
		delete(r.rooms, userID)
	}
}

// Members returns the current connections in userID's room.
func (r *Registry) Members(userID string) []Conn {
	room := r.rooms[userID]
	members := make([]Conn, 0, len(room))
	for _, c := range room {
		members = append(members, c)
	}
	return members
}

// Room reports which user room connID belongs to, if any.
func (r *Registry) Room(connID string) (string, bool) {
	userID, ok := r.users[connID]
	return userID, ok
}
