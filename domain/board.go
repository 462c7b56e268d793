package domain

// Task is a single list item within a tab. Field values travel verbatim
// between devices, so nothing here is omitempty.
type Task struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	IsDone    bool   `json:"isDone"`
	SortOrder int    `json:"sortOrder"`
}

// Tab groups an ordered sequence of tasks.
type Tab struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Snapshot is what a freshly joined device receives so it can render
// without waiting for further events.
type Snapshot struct {
	CurrentTabID string            `json:"currentTabId"`
	Tasks        map[string][]Task `json:"tasks"`
}

// UserState is the full persisted board for one user, including the tab
// collection that the hydrate snapshot does not carry.
type UserState struct {
	CurrentTabID string            `json:"currentTabId"`
	Tabs         []Tab             `json:"tabs"`
	Tasks        map[string][]Task `json:"tasks"`
}
