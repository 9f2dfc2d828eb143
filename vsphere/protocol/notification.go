package protocol

import "time"

type NotificationKind string

const (
	NotificationCommand NotificationKind = "command"
	NotificationInfo    NotificationKind = "info"
)

type Notification struct {
	Title   string           `json:"title"`
	Message string           `json:"message"`
	Kind    NotificationKind `json:"kind"`
	Command string           `json:"command,omitempty"`
	Outcome Outcome          `json:"outcome,omitempty"`
	Time    time.Time        `json:"time"`
}
