package model

// TaskStatus represents the status of a compression task
type TaskStatus string

const (
	// TaskStatusPending means the task is created but not started
	TaskStatusPending TaskStatus = "Pending"

	// TaskStatusStarting means the task is probing its input
	TaskStatusStarting TaskStatus = "Starting"

	// TaskStatusRunning means the encoder is running
	TaskStatusRunning TaskStatus = "Running"

	// TaskStatusStopping means a stop was requested and is being processed
	TaskStatusStopping TaskStatus = "Stopping"

	// TaskStatusStopped means the task was stopped by user
	TaskStatusStopped TaskStatus = "Stopped"

	// TaskStatusCompleted means the task finished successfully
	TaskStatusCompleted TaskStatus = "Completed"

	// TaskStatusError means the task failed with an error
	TaskStatusError TaskStatus = "Error"
)

// String returns the string representation of TaskStatus
func (ts TaskStatus) String() string {
	return string(ts)
}

// IsActive returns true if the task is in an active state
func (ts TaskStatus) IsActive() bool {
	return ts == TaskStatusStarting || ts == TaskStatusRunning || ts == TaskStatusStopping
}

// IsFinished returns true if the task is in a finished state (completed, stopped, or error)
func (ts TaskStatus) IsFinished() bool {
	return ts == TaskStatusCompleted || ts == TaskStatusStopped || ts == TaskStatusError
}

// OperationStatus is the lifecycle of a single downloader operation:
// idle -> fetching-info -> downloading -> finished | failed.
type OperationStatus string

const (
	OperationIdle         OperationStatus = "idle"
	OperationFetchingInfo OperationStatus = "fetching-info"
	OperationDownloading  OperationStatus = "downloading"
	OperationFinished     OperationStatus = "finished"
	OperationFailed       OperationStatus = "failed"
)

// String returns the string representation of OperationStatus
func (s OperationStatus) String() string {
	return string(s)
}

// IsActive returns true while info is being fetched or a transfer runs
func (s OperationStatus) IsActive() bool {
	return s == OperationFetchingInfo || s == OperationDownloading
}

// IsTerminal returns true once the operation finished or failed
func (s OperationStatus) IsTerminal() bool {
	return s == OperationFinished || s == OperationFailed
}
