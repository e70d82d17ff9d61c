package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidStatus(t *testing.T) {
	for _, status := range PackageStatuses {
		assert.True(t, IsValidStatus(status))
	}
	assert.False(t, IsValidStatus("shipped"))
	assert.False(t, IsValidStatus(""))
}

func TestIsFinalStatus(t *testing.T) {
	assert.True(t, IsFinalStatus(StatusDelivered))
	assert.True(t, IsFinalStatus(StatusCollected))
	assert.False(t, IsFinalStatus(StatusPending))
	assert.False(t, IsFinalStatus(StatusReadyForCollection))
}

func TestNextActionLabel(t *testing.T) {
	tests := []struct {
		status string
		want   string
	}{
		{StatusPending, "Mark as Notified"},
		{StatusNotified, "Start Transit"},
		{StatusInTransit, "Mark Ready"},
		{StatusReadyForCollection, "Mark Collected"},
		{StatusDelivered, "Update Status"},
		{StatusCollected, "Update Status"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NextActionLabel(tt.status))
	}
}
