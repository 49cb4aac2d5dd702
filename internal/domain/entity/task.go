package entity

import "encoding/json"

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusSuccess    TaskStatus = "success"
	TaskStatusFailure    TaskStatus = "failure"
)

func (s TaskStatus) Terminal() bool {
	return s == TaskStatusSuccess || s == TaskStatusFailure
}

// TaskState is one of Pending, Processing, Succeeded or Failed.
type TaskState interface {
	Status() TaskStatus
	Message() string
	taskState()
}

type Pending struct{ Msg string }

type Processing struct{ Msg string }

// Succeeded carries the resolved items in entry order.
type Succeeded struct {
	Msg  string
	Data []string
}

type Failed struct{ Msg string }

func (Pending) Status() TaskStatus    { return TaskStatusPending }
func (Processing) Status() TaskStatus { return TaskStatusProcessing }
func (Succeeded) Status() TaskStatus  { return TaskStatusSuccess }
func (Failed) Status() TaskStatus     { return TaskStatusFailure }

func (s Pending) Message() string    { return s.Msg }
func (s Processing) Message() string { return s.Msg }
func (s Succeeded) Message() string  { return s.Msg }
func (s Failed) Message() string     { return s.Msg }

func (Pending) taskState()    {}
func (Processing) taskState() {}
func (Succeeded) taskState()  {}
func (Failed) taskState()     {}

// NewSucceeded copies data so the stored state never aliases the caller's slice.
func NewSucceeded(msg string, data []string) Succeeded {
	out := make([]string, len(data))
	copy(out, data)
	return Succeeded{Msg: msg, Data: out}
}

type Task struct {
	ID    string
	State TaskState
}

func (t Task) Status() TaskStatus {
	if t.State == nil {
		return TaskStatusPending
	}
	return t.State.Status()
}

func (t Task) Message() string {
	if t.State == nil {
		return ""
	}
	return t.State.Message()
}

// Data returns the result items, or nil unless the task succeeded.
func (t Task) Data() []string {
	s, ok := t.State.(Succeeded)
	if !ok {
		return nil
	}
	out := make([]string, len(s.Data))
	copy(out, s.Data)
	return out
}

type taskSnapshot struct {
	Status  TaskStatus `json:"status"`
	Message string     `json:"message"`
	Data    *[]string  `json:"data,omitempty"`
}

func (t Task) MarshalJSON() ([]byte, error) {
	snap := taskSnapshot{
		Status:  t.Status(),
		Message: t.Message(),
	}
	if s, ok := t.State.(Succeeded); ok {
		data := s.Data
		if data == nil {
			data = []string{}
		}
		snap.Data = &data
	}
	return json.Marshal(snap)
}
