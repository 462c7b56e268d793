package domain

import "github.com/bytedance/sonic"

// Event names shared with the web and mobile clients. Inbound and outbound
// names match except for join_user, which is answered with init_data, and
// switch_tab, which is rebroadcast as tab_changed.
const (
	JoinUser       = "join_user"
	SwitchTab      = "switch_tab"
	TaskAdded      = "task_added"
	TaskDeleted    = "task_deleted"
	TaskToggled    = "task_toggled"
	TasksReordered = "tasks_reordered"
	TabAdded       = "tab_added"
	TabDeleted     = "tab_deleted"

	InitData   = "init_data"
	TabChanged = "tab_changed"
)

// ClientEvent is the envelope every device message arrives in.
type ClientEvent struct {
	Event string                 `json:"event"`
	Data  sonic.NoCopyRawMessage `json:"data,omitempty"`
}

// ServerEvent is the envelope for everything the hub sends back out.
type ServerEvent struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

type JoinUserData struct {
	UserID string `json:"userId"`
}

type SwitchTabData struct {
	UserID string `json:"userId"`
	TabID  string `json:"tabId"`
}

type TaskAddedData struct {
	UserID string `json:"userId"`
	TabID  string `json:"tabId"`
	Task   Task   `json:"task"`
}

type TaskDeletedData struct {
	UserID string `json:"userId"`
	TabID  string `json:"tabId"`
	TaskID string `json:"taskId"`
}

type TaskToggledData struct {
	UserID string `json:"userId"`
	TabID  string `json:"tabId"`
	TaskID string `json:"taskId"`
	IsDone bool   `json:"isDone"`
}

type TasksReorderedData struct {
	UserID         string   `json:"userId"`
	TabID          string   `json:"tabId"`
	OrderedTaskIDs []string `json:"orderedTaskIds"`
}

type TabAddedData struct {
	UserID string `json:"userId"`
	Tab    Tab    `json:"tab"`
}

type TabDeletedData struct {
	UserID string `json:"userId"`
	TabID  string `json:"tabId"`
}

// Broadcast payloads carry no userId: fan-out already targets one room.

type TabChangedBroadcast struct {
	TabID string `json:"tabId"`
}

type TaskAddedBroadcast struct {
	TabID string `json:"tabId"`
	Task  Task   `json:"task"`
}

type TaskDeletedBroadcast struct {
	TabID  string `json:"tabId"`
	TaskID string `json:"taskId"`
}

type TaskToggledBroadcast struct {
	TabID  string `json:"tabId"`
	TaskID string `json:"taskId"`
	IsDone bool   `json:"isDone"`
}

type TasksReorderedBroadcast struct {
	TabID          string   `json:"tabId"`
	OrderedTaskIDs []string `json:"orderedTaskIds"`
}

type TabAddedBroadcast struct {
	Tab Tab `json:"tab"`
}

type TabDeletedBroadcast struct {
	TabID string `json:"tabId"`
}
