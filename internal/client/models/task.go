package models

// TaskState is the lifecycle state of one upload attempt. Cancellation of the
// picker returns the task to TaskIdle; TaskSuccess is terminal; TaskFailed
// keeps the picked file so the attempt can be retried as-is.
type TaskState string

const (
	TaskIdle       TaskState = "idle"
	TaskPicking    TaskState = "picking"
	TaskValidating TaskState = "validating"
	TaskUploading  TaskState = "uploading"
	TaskSuccess    TaskState = "success"
	TaskFailed     TaskState = "failed"
)

// UploadTask ties a picked file to a slot and a state. Each slot owns at most
// one task; tasks for different slots are fully independent.
type UploadTask struct {
	Slot       Slot
	File       *PickedFile
	Commentary string
	State      TaskState
	Message    string
	LastError  string
}

// Terminal reports whether the task reached a state from which only an
// explicit reset or retry moves it.
func (t UploadTask) Terminal() bool {
	return t.State == TaskSuccess || t.State == TaskFailed
}
