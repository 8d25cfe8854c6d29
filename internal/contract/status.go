package contract

import "github.com/nodusapp/nodus/internal/domain"

// TaskProgress reports how far a task is towards its goal.
type TaskProgress struct {
	TaskID     int64                 `json:"task_id"`
	Title      string                `json:"title"`
	Mode       domain.CompletionMode `json:"completion_mode"`
	Progress   int                   `json:"progress"`
	Goal       int                   `json:"goal"`
	IsComplete bool                  `json:"is_complete"`
	Percent    float64               `json:"percent"`
	// ActiveExecutionID is set while a session is running on the task.
	ActiveExecutionID *int64 `json:"active_execution_id,omitempty"`
}
