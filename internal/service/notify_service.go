package service

import (
	"fmt"
	"sync"
	"time"

	"packtrack/internal/model"
	ws "packtrack/internal/websocket"
)

// Transient message queue names. Each queue is fully independent: its own
// id counter, its own defaults, its own timers.
const (
	QueueToast        = "toast"
	QueueBanner       = "banner"
	QueueNotification = "notification"
)

// NotifyService manages the three append-only queues of ephemeral UI
// messages. Shown messages auto-dismiss on their own timers unless sticky;
// every change is pushed to connected dashboard clients.
type NotifyService interface {
	Show(queue, severity, text string, opts *model.MessageOptions) string

	// Toast shorthands matching the common call sites.
	Success(text string) string
	Error(text string) string
	Warning(text string) string
	Info(text string) string

	// Notify appends to the notification queue with a title.
	Notify(severity, title, text string) string

	Messages(queue string) []model.Message
	Dismiss(queue, id string) bool
	DismissAll(queue string)

	// Close cancels every pending timer, the teardown analog of the owning
	// component being destroyed.
	Close()
}

type messageQueue struct {
	name         string
	defaultDelay time.Duration
	defaultOpen  bool // auto-close by default

	mu      sync.Mutex
	counter int
	items   []model.Message
	timers  map[string]*time.Timer
}

type notifyService struct {
	toasts        *messageQueue
	banners       *messageQueue
	notifications *messageQueue
	hub           *ws.Hub
}

// NewNotifyService builds the three queues. hub may be nil (no push).
func NewNotifyService(hub *ws.Hub) NotifyService {
	return &notifyService{
		toasts:        &messageQueue{name: QueueToast, defaultDelay: 3 * time.Second, defaultOpen: true, timers: map[string]*time.Timer{}},
		banners:       &messageQueue{name: QueueBanner, defaultDelay: 5 * time.Second, defaultOpen: false, timers: map[string]*time.Timer{}},
		notifications: &messageQueue{name: QueueNotification, defaultDelay: 5 * time.Second, defaultOpen: true, timers: map[string]*time.Timer{}},
		hub:           hub,
	}
}

func (s *notifyService) queue(name string) *messageQueue {
	switch name {
	case QueueBanner:
		return s.banners
	case QueueNotification:
		return s.notifications
	default:
		return s.toasts
	}
}

func (s *notifyService) Show(queue, severity, text string, opts *model.MessageOptions) string {
	q := s.queue(queue)

	msg := model.Message{
		Severity:       severity,
		Text:           text,
		Variant:        model.VariantSolid,
		AutoClose:      q.defaultOpen,
		AutoCloseDelay: q.defaultDelay,
		CreatedAt:      time.Now(),
	}
	if opts != nil {
		if opts.Variant != "" {
			msg.Variant = opts.Variant
		}
		msg.Title = opts.Title
		msg.ActionLabel = opts.ActionLabel
		msg.ActionURL = opts.ActionURL
		if opts.AutoClose != nil {
			msg.AutoClose = *opts.AutoClose
		}
		if opts.AutoCloseDelay > 0 {
			msg.AutoCloseDelay = opts.AutoCloseDelay
		}
	}

	q.mu.Lock()
	q.counter++
	msg.ID = fmt.Sprintf("%s-%d", q.name, q.counter)
	q.items = append(q.items, msg)
	if msg.AutoClose {
		id := msg.ID
		q.timers[id] = time.AfterFunc(msg.AutoCloseDelay, func() {
			s.Dismiss(q.name, id)
		})
	}
	q.mu.Unlock()

	s.hub.BroadcastEvent(ws.EventMessageShown, map[string]interface{}{"queue": q.name, "message": msg})
	return msg.ID
}

// Success shows an auto-closing success toast.
func (s *notifyService) Success(text string) string {
	return s.Show(QueueToast, model.SeveritySuccess, text, nil)
}

// Error shows a sticky error toast; errors stay until dismissed.
func (s *notifyService) Error(text string) string {
	sticky := false
	return s.Show(QueueToast, model.SeverityError, text, &model.MessageOptions{AutoClose: &sticky})
}

func (s *notifyService) Warning(text string) string {
	return s.Show(QueueToast, model.SeverityWarning, text, nil)
}

func (s *notifyService) Info(text string) string {
	return s.Show(QueueToast, model.SeverityInfo, text, nil)
}

func (s *notifyService) Notify(severity, title, text string) string {
	return s.Show(QueueNotification, severity, text, &model.MessageOptions{Title: title})
}

// Messages returns the queue contents in insertion order.
func (s *notifyService) Messages(queue string) []model.Message {
	q := s.queue(queue)
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]model.Message, len(q.items))
	copy(out, q.items)
	return out
}

// Dismiss removes one message by identity and cancels its timer. It
// reports whether the message was still present.
func (s *notifyService) Dismiss(queue, id string) bool {
	q := s.queue(queue)
	q.mu.Lock()
	found := false
	for i := range q.items {
		if q.items[i].ID == id {
			q.items = append(q.items[:i], q.items[i+1:]...)
			found = true
			break
		}
	}
	if t, ok := q.timers[id]; ok {
		t.Stop()
		delete(q.timers, id)
	}
	q.mu.Unlock()

	if found {
		s.hub.BroadcastEvent(ws.EventMessageDismissed, map[string]string{"queue": q.name, "id": id})
	}
	return found
}

// DismissAll empties the queue regardless of individual timers.
func (s *notifyService) DismissAll(queue string) {
	q := s.queue(queue)
	q.mu.Lock()
	q.items = nil
	for id, t := range q.timers {
		t.Stop()
		delete(q.timers, id)
	}
	q.mu.Unlock()

	s.hub.BroadcastEvent(ws.EventMessageDismissed, map[string]string{"queue": q.name, "id": "*"})
}

func (s *notifyService) Close() {
	for _, q := range []*messageQueue{s.toasts, s.banners, s.notifications} {
		q.mu.Lock()
		for id, t := range q.timers {
			t.Stop()
			delete(q.timers, id)
		}
		q.mu.Unlock()
	}
}
