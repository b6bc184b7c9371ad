package room

import (
	"log/slog"
	"sync"
)

// Member is one connected participant as the registry sees it. The registry
// never touches the transport directly; the session layer hands it values
// that know how to deliver an event frame.
type Member interface {
	ID() string
	Send(event string, payload any) error
}

// Registry tracks which connections belong to which rooms and fans events
// out to room members. Rooms are created on first join and deleted as soon
// as the last member leaves, so the map never accumulates empty entries.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]map[string]Member
	// joined is the reverse index: connection id -> rooms it belongs to.
	joined map[string]map[string]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		rooms:  make(map[string]map[string]Member),
		joined: make(map[string]map[string]struct{}),
	}
}

// Join adds m to roomID. Joining a room the member is already in is a no-op.
func (r *Registry) Join(roomID string, m Member) {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.rooms[roomID]
	if !ok {
		members = make(map[string]Member)
		r.rooms[roomID] = members
	}
	members[m.ID()] = m

	rooms, ok := r.joined[m.ID()]
	if !ok {
		rooms = make(map[string]struct{})
		r.joined[m.ID()] = rooms
	}
	rooms[roomID] = struct{}{}
}

// Leave removes the connection from roomID. Absent members are a no-op.
func (r *Registry) Leave(roomID, connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.leaveLocked(roomID, connID)
}

func (r *Registry) leaveLocked(roomID, connID string) {
	if members, ok := r.rooms[roomID]; ok {
		delete(members, connID)
		if len(members) == 0 {
			delete(r.rooms, roomID)
		}
	}
	if rooms, ok := r.joined[connID]; ok {
		delete(rooms, roomID)
		if len(rooms) == 0 {
			delete(r.joined, connID)
		}
	}
}

// RemoveConnection drops the connection from every room it belongs to.
// Safe to call for connections that never joined anything.
func (r *Registry) RemoveConnection(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for roomID := range r.joined[connID] {
		r.leaveLocked(roomID, connID)
	}
}

// Members returns the current size of a room. Mostly useful for tests and
// introspection; zero means the room does not exist.
func (r *Registry) Members(roomID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms[roomID])
}

// Broadcast delivers an event to every member of roomID except excludeID
// (pass "" to deliver to everyone). A room with no members is a silent no-op.
// The member set is snapshotted under the read lock and writes happen outside
// it, so one slow receiver never blocks registry mutations.
func (r *Registry) Broadcast(roomID, excludeID, event string, payload any) {
	r.mu.RLock()
	targets := make([]Member, 0, len(r.rooms[roomID]))
	for id, m := range r.rooms[roomID] {
		if id == excludeID {
			continue
		}
		targets = append(targets, m)
	}
	r.mu.RUnlock()

	for _, m := range targets {
		if err := m.Send(event, payload); err != nil {
			slog.Warn("broadcast delivery failed", "room", roomID, "conn", m.ID(), "event", event, "error", err)
		}
	}
}
