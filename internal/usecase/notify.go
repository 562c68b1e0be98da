package usecase

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Notifier receives user-facing events. Implementations must not block.
type Notifier interface {
	OnExportStart()
	OnExportSuccess(filename string)
	OnExportFailure(message string)
	OnImageUploadSuccess()
	OnImageUploadFailure(reason string)
	OnImageRemoved()
}

type EventKind string

const (
	EventExportStart        EventKind = "export_start"
	EventExportSuccess      EventKind = "export_success"
	EventExportFailure      EventKind = "export_failure"
	EventImageUploadSuccess EventKind = "image_upload_success"
	EventImageUploadFailure EventKind = "image_upload_failure"
	EventImageRemoved       EventKind = "image_removed"
)

type Event struct {
	Seq     uint64    `json:"seq"`
	Kind    EventKind `json:"kind"`
	Message string    `json:"message,omitempty"`
	At      time.Time `json:"at"`
}

// EventLog keeps the most recent events so a UI can poll for toasts.
type EventLog struct {
	mu     sync.Mutex
	events []Event
	next   uint64
	size   int
	now    func() time.Time
}

func NewEventLog(size int) *EventLog {
	if size <= 0 {
		size = 50
	}
	return &EventLog{size: size, now: time.Now}
}

func (l *EventLog) add(kind EventKind, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.next++
	l.events = append(l.events, Event{Seq: l.next, Kind: kind, Message: msg, At: l.now()})
	if len(l.events) > l.size {
		l.events = append([]Event(nil), l.events[len(l.events)-l.size:]...)
	}
}

// Since returns retained events with a sequence number above seq.
func (l *EventLog) Since(seq uint64) []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := []Event{}
	for _, e := range l.events {
		if e.Seq > seq {
			out = append(out, e)
		}
	}
	return out
}

func (l *EventLog) OnExportStart()                  { l.add(EventExportStart, "") }
func (l *EventLog) OnExportSuccess(filename string) { l.add(EventExportSuccess, filename) }
func (l *EventLog) OnExportFailure(message string)  { l.add(EventExportFailure, message) }
func (l *EventLog) OnImageUploadSuccess()           { l.add(EventImageUploadSuccess, "") }
func (l *EventLog) OnImageUploadFailure(reason string) {
	l.add(EventImageUploadFailure, reason)
}
func (l *EventLog) OnImageRemoved() { l.add(EventImageRemoved, "") }

// LogNotifier writes events to a zap logger.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) OnExportStart() { n.logger.Info("export started") }
func (n *LogNotifier) OnExportSuccess(filename string) {
	n.logger.Info("export finished", zap.String("filename", filename))
}
func (n *LogNotifier) OnExportFailure(message string) {
	n.logger.Warn("export failed", zap.String("message", message))
}
func (n *LogNotifier) OnImageUploadSuccess() { n.logger.Info("profile image uploaded") }
func (n *LogNotifier) OnImageUploadFailure(reason string) {
	n.logger.Warn("profile image rejected", zap.String("reason", reason))
}
func (n *LogNotifier) OnImageRemoved() { n.logger.Info("profile image removed") }

// MultiNotifier fans each event out to several notifiers.
type MultiNotifier []Notifier

func (m MultiNotifier) OnExportStart() {
	for _, n := range m {
		n.OnExportStart()
	}
}

func (m MultiNotifier) OnExportSuccess(filename string) {
	for _, n := range m {
		n.OnExportSuccess(filename)
	}
}

func (m MultiNotifier) OnExportFailure(message string) {
	for _, n := range m {
		n.OnExportFailure(message)
	}
}

func (m MultiNotifier) OnImageUploadSuccess() {
	for _, n := range m {
		n.OnImageUploadSuccess()
	}
}

func (m MultiNotifier) OnImageUploadFailure(reason string) {
	for _, n := range m {
		n.OnImageUploadFailure(reason)
	}
}

func (m MultiNotifier) OnImageRemoved() {
	for _, n := range m {
		n.OnImageRemoved()
	}
}

type nopNotifier struct{}

func (nopNotifier) OnExportStart()              {}
func (nopNotifier) OnExportSuccess(string)      {}
func (nopNotifier) OnExportFailure(string)      {}
func (nopNotifier) OnImageUploadSuccess()       {}
func (nopNotifier) OnImageUploadFailure(string) {}
func (nopNotifier) OnImageRemoved()             {}
