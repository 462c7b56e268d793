package hub

import "github.com/OhASys/sstracker-backend/domain"

// userState mirrors one user's board: the active tab, the tab collection
// and the ordered task sequence per tab.
type userState struct {
	currentTabID string
	tabs         map[string]domain.Tab
	tasks        map[string][]domain.Task
}

func newUserState() *userState {
	return &userState{
		tabs:  make(map[string]domain.Tab),
		tasks: make(map[string][]domain.Task),
	}
}

// State is the authoritative in-memory mirror of every user's board. All
// mutations are total: unknown tab or task references degrade to no-ops or
// best-effort filtering, never an error. The Hub owns the only reference
// and serializes access; State itself carries no lock.
type State struct {
	users map[string]*userState
}

func NewState() *State {
	return &State{users: make(map[string]*userState)}
}

// user returns the entry for id, creating it lazily.
func (s *State) user(id string) *userState {
	u, ok := s.users[id]
	if !ok {
		u = newUserState()
		s.users[id] = u
	}
	return u
}

// Known reports whether any state has been recorded for userID. Presence in
// the registry is irrelevant here: board state outlives connections.
func (s *State) Known(userID string) bool {
	_, ok := s.users[userID]
	return ok
}

// Hydrate returns a deep copy of the snapshot a joining device needs to
// render. Unknown users get an empty snapshot; creation is implicit.
func (s *State) Hydrate(userID string) domain.Snapshot {
	u := s.user(userID)
	return domain.Snapshot{
		CurrentTabID: u.currentTabID,
		Tasks:        copyTasks(u.tasks),
	}
}

// SwitchTab sets the active tab. The target is not checked against the tab
// collection: a dangling currentTabID is accepted behavior.
func (s *State) SwitchTab(userID, tabID string) {
	s.user(userID).currentTabID = tabID
}

// AddTask appends task to the tab's sequence, creating the sequence if
// absent. Duplicate task IDs are not deduplicated.
func (s *State) AddTask(userID, tabID string, task domain.Task) {
	u := s.user(userID)
	u.tasks[tabID] = append(u.tasks[tabID], task)
}

// DeleteTask removes the first entry with the matching ID; no-op if absent.
func (s *State) DeleteTask(userID, tabID, taskID string) {
	u := s.user(userID)
	seq := u.tasks[tabID]
	for i, t := range seq {
		if t.ID == taskID {
			u.tasks[tabID] = append(seq[:i:i], seq[i+1:]...)
			return
		}
	}
}

// ToggleTask sets isDone on the matching task; no-op if absent.
func (s *State) ToggleTask(userID, tabID, taskID string, isDone bool) {
	seq := s.user(userID).tasks[tabID]
	for i := range seq {
		if seq[i].ID == taskID {
			seq[i].IsDone = isDone
			return
		}
	}
}

// ReorderTasks replaces the tab's sequence with exactly the given ID order.
// Tasks omitted from ids are dropped entirely, and IDs that match no
// existing task are ignored. The asymmetry is deliberate: a reorder is a
// full statement of what the tab should contain.
func (s *State) ReorderTasks(userID, tabID string, ids []string) {
	u := s.user(userID)
	old := u.tasks[tabID]
	next := make([]domain.Task, 0, len(ids))
	for _, id := range ids {
		for _, t := range old {
			if t.ID == id {
				next = append(next, t)
				break
			}
		}
	}
	u.tasks[tabID] = next
}

// AddTab records the tab; an existing tab with the same ID is overwritten.
func (s *State) AddTab(userID string, tab domain.Tab) {
	s.user(userID).tabs[tab.ID] = tab
}

// DeleteTab removes the tab and its task sequence. currentTabID is left
// untouched even when it referenced the deleted tab.
func (s *State) DeleteTab(userID, tabID string) {
	u := s.user(userID)
	delete(u.tabs, tabID)
	delete(u.tasks, tabID)
}

// Export returns a deep copy of the user's full board, safe to hand to the
// asynchronous saver while dispatch keeps mutating the original.
func (s *State) Export(userID string) domain.UserState {
	u := s.user(userID)
	tabs := make([]domain.Tab, 0, len(u.tabs))
	for _, t := range u.tabs {
		tabs = append(tabs, t)
	}
	return domain.UserState{
		CurrentTabID: u.currentTabID,
		Tabs:         tabs,
		Tasks:        copyTasks(u.tasks),
	}
}

// Restore seeds a user's board from a persisted snapshot. Existing in-memory
// state wins: restoring a known user is a no-op.
func (s *State) Restore(userID string, st domain.UserState) {
	if s.Known(userID) {
		return
	}
	u := newUserState()
	u.currentTabID = st.CurrentTabID
	for _, t := range st.Tabs {
		u.tabs[t.ID] = t
	}
	for tabID, seq := range st.Tasks {
		u.tasks[tabID] = append([]domain.Task(nil), seq...)
	}
	s.users[userID] = u
}

func copyTasks(tasks map[string][]domain.Task) map[string][]domain.Task {
	out := make(map[string][]domain.Task, len(tasks))
	for tabID, seq := range tasks {
		out[tabID] = append([]domain.Task(nil), seq...)
	}
	return out
}
