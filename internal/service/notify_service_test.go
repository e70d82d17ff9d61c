package service

import (
	"testing"
	"time"

	"packtrack/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNotifyService(t *testing.T) NotifyService {
	t.Helper()
	svc := NewNotifyService(nil)
	t.Cleanup(svc.Close)
	return svc
}

func TestShowAssignsSequentialIDs(t *testing.T) {
	svc := newTestNotifyService(t)

	first := svc.Info("one")
	second := svc.Info("two")
	assert.Equal(t, "toast-1", first)
	assert.Equal(t, "toast-2", second)

	messages := svc.Messages(QueueToast)
	require.Len(t, messages, 2)
	assert.Equal(t, "one", messages[0].Text)
	assert.Equal(t, "two", messages[1].Text, "insertion order is preserved")
}

func TestQueueCountersAreIndependent(t *testing.T) {
	svc := newTestNotifyService(t)

	svc.Info("toast")
	id := svc.Notify(model.SeverityInfo, "Title", "notification")
	assert.Equal(t, "notification-1", id)

	assert.Len(t, svc.Messages(QueueToast), 1)
	assert.Len(t, svc.Messages(QueueNotification), 1)
	assert.Empty(t, svc.Messages(QueueBanner))
}

func TestAutoDismiss(t *testing.T) {
	svc := newTestNotifyService(t)

	delay := 30 * time.Millisecond
	svc.Show(QueueToast, model.SeveritySuccess, "gone soon", &model.MessageOptions{AutoCloseDelay: delay})
	require.Len(t, svc.Messages(QueueToast), 1)

	assert.Eventually(t, func() bool {
		return len(svc.Messages(QueueToast)) == 0
	}, time.Second, 10*time.Millisecond)
}

func TestErrorToastIsSticky(t *testing.T) {
	svc := newTestNotifyService(t)

	id := svc.Error("it broke")
	messages := svc.Messages(QueueToast)
	require.Len(t, messages, 1)
	assert.False(t, messages[0].AutoClose)
	assert.Equal(t, model.SeverityError, messages[0].Severity)

	assert.True(t, svc.Dismiss(QueueToast, id))
	assert.Empty(t, svc.Messages(QueueToast))
}

func TestDismissUnknownID(t *testing.T) {
	svc := newTestNotifyService(t)
	assert.False(t, svc.Dismiss(QueueToast, "toast-99"))
}

func TestDismissAll(t *testing.T) {
	svc := newTestNotifyService(t)

	svc.Info("a")
	svc.Warning("b")
	svc.Success("c")
	require.Len(t, svc.Messages(QueueToast), 3)

	svc.DismissAll(QueueToast)
	assert.Empty(t, svc.Messages(QueueToast))
}

func TestShowOptionOverrides(t *testing.T) {
	svc := newTestNotifyService(t)

	svc.Show(QueueBanner, model.SeverityWarning, "maintenance window", &model.MessageOptions{
		Variant:     model.VariantOutline,
		Title:       "Heads up",
		ActionLabel: "Details",
		ActionURL:   "/maintenance",
	})

	messages := svc.Messages(QueueBanner)
	require.Len(t, messages, 1)
	msg := messages[0]
	assert.Equal(t, model.VariantOutline, msg.Variant)
	assert.Equal(t, "Heads up", msg.Title)
	assert.Equal(t, "Details", msg.ActionLabel)
	assert.Equal(t, "/maintenance", msg.ActionURL)
	assert.False(t, msg.AutoClose, "banners are sticky by default")
}
