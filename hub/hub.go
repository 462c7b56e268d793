package hub

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	log "github.com/sirupsen/logrus"

	"github.com/OhASys/sstracker-backend/domain"
)

const loadTimeout = 5 * time.Second

// Store loads and saves per-user board snapshots. Load reports ok=false
// when nothing is persisted for the user.
type Store interface {
	Load(ctx context.Context, userID string) (domain.UserState, bool, error)
	Save(ctx context.Context, userID string, st domain.UserState) error
}

// Hub owns all room state: it applies inbound events to the state store and
// relays them to the rest of the sender's room. Dispatch runs under a single
// lock, so arrival order (lock-acquisition order) is the serialization
// order, which is what makes last-write-wins well-defined.
type Hub struct {
	mu       sync.Mutex
	registry *Registry
	state    *State
	relay    *Relay
	store    Store
	saver    *Saver
	log      *log.Logger
}

// New creates a Hub. store and saver may be nil, which disables persistence.
func New(store Store, saver *Saver, logger *log.Logger) *Hub {
	if logger == nil {
		panic("hub.New: logger is nil")
	}
	registry := NewRegistry()
	return &Hub{
		registry: registry,
		state:    NewState(),
		relay:    NewRelay(registry),
		store:    store,
		saver:    saver,
		log:      logger,
	}
}

// Dispatch handles one inbound event to completion: payload decode, state
// mutation, fan-out. A returned error means the event was rejected and
// nothing happened; it never carries a partial mutation.
func (h *Hub) Dispatch(conn Conn, ev domain.ClientEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if ev.Event == domain.JoinUser {
		return h.join(conn, ev.Data)
	}

	userID, joined := h.registry.Room(conn.ID())
	if !joined {
		return fmt.Errorf("%w: %s before join_user", ErrInvalidState, ev.Event)
	}

	switch ev.Event {
	case domain.SwitchTab:
		var p domain.SwitchTabData
		if err := sonic.Unmarshal(ev.Data, &p); err != nil || p.TabID == "" {
			return fmt.Errorf("%w: switch_tab needs tabId", ErrMalformedPayload)
		}
		h.state.SwitchTab(userID, p.TabID)
		h.relay.Broadcast(userID, domain.TabChanged, domain.TabChangedBroadcast{TabID: p.TabID}, conn.ID())

	case domain.TaskAdded:
		var p domain.TaskAddedData
		if err := sonic.Unmarshal(ev.Data, &p); err != nil || p.TabID == "" || p.Task.ID == "" {
			return fmt.Errorf("%w: task_added needs tabId and task.id", ErrMalformedPayload)
		}
		h.state.AddTask(userID, p.TabID, p.Task)
		h.relay.Broadcast(userID, domain.TaskAdded, domain.TaskAddedBroadcast{TabID: p.TabID, Task: p.Task}, conn.ID())

	case domain.TaskDeleted:
		var p domain.TaskDeletedData
		if err := sonic.Unmarshal(ev.Data, &p); err != nil || p.TabID == "" || p.TaskID == "" {
			return fmt.Errorf("%w: task_deleted needs tabId and taskId", ErrMalformedPayload)
		}
		h.state.DeleteTask(userID, p.TabID, p.TaskID)
		h.relay.Broadcast(userID, domain.TaskDeleted, domain.TaskDeletedBroadcast{TabID: p.TabID, TaskID: p.TaskID}, conn.ID())

	case domain.TaskToggled:
		var p domain.TaskToggledData
		if err := sonic.Unmarshal(ev.Data, &p); err != nil || p.TabID == "" || p.TaskID == "" {
			return fmt.Errorf("%w: task_toggled needs tabId and taskId", ErrMalformedPayload)
		}
		// An unknown taskId is a no-op mutation but still broadcasts:
		// other devices may know the task already.
		h.state.ToggleTask(userID, p.TabID, p.TaskID, p.IsDone)
		h.relay.Broadcast(userID, domain.TaskToggled, domain.TaskToggledBroadcast{TabID: p.TabID, TaskID: p.TaskID, IsDone: p.IsDone}, conn.ID())

	case domain.TasksReordered:
		var p domain.TasksReorderedData
		if err := sonic.Unmarshal(ev.Data, &p); err != nil || p.TabID == "" || p.OrderedTaskIDs == nil {
			return fmt.Errorf("%w: tasks_reordered needs tabId and orderedTaskIds", ErrMalformedPayload)
		}
		h.state.ReorderTasks(userID, p.TabID, p.OrderedTaskIDs)
		h.relay.Broadcast(userID, domain.TasksReordered, domain.TasksReorderedBroadcast{TabID: p.TabID, OrderedTaskIDs: p.OrderedTaskIDs}, conn.ID())

	case domain.TabAdded:
		var p domain.TabAddedData
		if err := sonic.Unmarshal(ev.Data, &p); err != nil || p.Tab.ID == "" {
			return fmt.Errorf("%w: tab_added needs tab.id", ErrMalformedPayload)
		}
		h.state.AddTab(userID, p.Tab)
		h.relay.Broadcast(userID, domain.TabAdded, domain.TabAddedBroadcast{Tab: p.Tab}, conn.ID())

	case domain.TabDeleted:
		var p domain.TabDeletedData
		if err := sonic.Unmarshal(ev.Data, &p); err != nil || p.TabID == "" {
			return fmt.Errorf("%w: tab_deleted needs tabId", ErrMalformedPayload)
		}
		h.state.DeleteTab(userID, p.TabID)
		h.relay.Broadcast(userID, domain.TabDeleted, domain.TabDeletedBroadcast{TabID: p.TabID}, conn.ID())

	default:
		return fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Event)
	}

	h.scheduleSave(userID)
	return nil
}

// join registers the connection in its user room, hydrates the board from
// the persistence hook on the user's first appearance, and answers the
// sender (and only the sender) with the current snapshot.
func (h *Hub) join(conn Conn, data []byte) error {
	var p domain.JoinUserData
	if len(data) > 0 {
		if err := sonic.Unmarshal(data, &p); err != nil {
			return fmt.Errorf("%w: join_user: %v", ErrMalformedPayload, err)
		}
	}
	userID := p.UserID
	if auth := conn.AuthUserID(); auth != "" {
		if userID == "" {
			userID = auth
		} else if userID != auth {
			return fmt.Errorf("%w: join_user for foreign userId", ErrMalformedPayload)
		}
	}
	if userID == "" {
		return fmt.Errorf("%w: join_user needs userId", ErrMalformedPayload)
	}

	h.registry.Join(conn, userID)

	// The load runs inside the dispatch critical section on purpose: an
	// event for this user arriving concurrently must observe either the
	// restored board or the empty one, never a half-seeded mix.
	if h.store != nil && !h.state.Known(userID) {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		st, ok, err := h.store.Load(ctx, userID)
		cancel()
		if err != nil {
			h.log.Errorf("snapshot load failed, err: %v, user: %s", err, userID)
		} else if ok {
			h.state.Restore(userID, st)
		}
	}

	conn.Send(domain.ServerEvent{Event: domain.InitData, Data: h.state.Hydrate(userID)})
	return nil
}

// Disconnect removes the connection from its room. Board state is
// untouched: state outlives presence.
func (h *Hub) Disconnect(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.registry.Leave(connID)
}

func (h *Hub) scheduleSave(userID string) {
	if h.saver == nil {
		return
	}
	if !h.saver.Enqueue(userID, h.state.Export(userID)) {
		h.log.Warnf("save buffer saturated, dropping snapshot, user: %s", userID)
	}
}
