package model

// ActionType is the closed set of side effects the assistant can perform.
type ActionType string

const (
	ActionCreateNote      ActionType = "create_note"
	ActionCreateTask      ActionType = "create_task"
	ActionCreateEvent     ActionType = "create_event"
	ActionCreateExpense   ActionType = "create_expense"
	ActionCreateReminder  ActionType = "create_reminder"
	ActionUpdateEvent     ActionType = "update_event"
	ActionDeleteEvent     ActionType = "delete_event"
	ActionUpdateTask      ActionType = "update_task"
	ActionDeleteNote      ActionType = "delete_note"
	ActionDeleteTask      ActionType = "delete_task"
	ActionCheckSchedule   ActionType = "check_schedule"
	ActionList            ActionType = "list"
	ActionSearch          ActionType = "search"
	ActionCheckWeather    ActionType = "check_weather"
	ActionConvertCurrency ActionType = "convert_currency"
)

// ActionTypes lists every known action in a stable order.
var ActionTypes = []ActionType{
	ActionCreateNote, ActionCreateTask, ActionCreateEvent, ActionCreateExpense,
	ActionCreateReminder, ActionUpdateEvent, ActionDeleteEvent, ActionUpdateTask,
	ActionDeleteNote, ActionDeleteTask, ActionCheckSchedule, ActionList,
	ActionSearch, ActionCheckWeather, ActionConvertCurrency,
}

// Action is a single instruction extracted from a user message.
type Action struct {
	Type ActionType     `json:"type"`
	Data map[string]any `json:"data"`
}

// ActionStatus is the outcome of executing one action.
type ActionStatus string

const (
	ActionStatusOK      ActionStatus = "ok"
	ActionStatusSkipped ActionStatus = "skipped"
	ActionStatusFailed  ActionStatus = "failed"
	ActionStatusIgnored ActionStatus = "ignored"
)

// ActionResult records what the dispatcher did with an Action. It is
// persisted as the assistant turn's tool_calls.
type ActionResult struct {
	Type   ActionType     `json:"type"`
	Status ActionStatus   `json:"status"`
	Data   map[string]any `json:"data,omitempty"`
	Error  string         `json:"error,omitempty"`
}
