package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithdrawalRequest_StateMachine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		from    WithdrawalStatus
		to      WithdrawalStatus
		allowed bool
	}{
		{"requested to approved", WithdrawalStatusRequested, WithdrawalStatusApproved, true},
		{"requested to rejected", WithdrawalStatusRequested, WithdrawalStatusRejected, true},
		{"approved to processing", WithdrawalStatusApproved, WithdrawalStatusProcessing, true},
		{"processing to completed", WithdrawalStatusProcessing, WithdrawalStatusCompleted, true},
		{"requested straight to completed", WithdrawalStatusRequested, WithdrawalStatusCompleted, false},
		{"approved to rejected after debit", WithdrawalStatusApproved, WithdrawalStatusRejected, false},
		{"processing to rejected", WithdrawalStatusProcessing, WithdrawalStatusRejected, false},
		{"completed is terminal", WithdrawalStatusCompleted, WithdrawalStatusProcessing, false},
		{"rejected is terminal", WithdrawalStatusRejected, WithdrawalStatusApproved, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &WithdrawalRequest{Status: tt.from}
			err := w.TransitionTo(tt.to, time.Now().UTC())
			if tt.allowed {
				assert.NoError(t, err)
				assert.Equal(t, tt.to, w.Status)
			} else {
				assert.ErrorIs(t, err, ErrInvalidStateTransition)
			}
		})
	}
}

func TestWithdrawalRequest_ProcessedAt(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()

	completed := &WithdrawalRequest{Status: WithdrawalStatusProcessing}
	require.NoError(t, completed.TransitionTo(WithdrawalStatusCompleted, now))
	require.NotNil(t, completed.ProcessedAt)
	assert.Equal(t, now, *completed.ProcessedAt)

	rejected := &WithdrawalRequest{Status: WithdrawalStatusRequested}
	require.NoError(t, rejected.TransitionTo(WithdrawalStatusRejected, now))
	require.NotNil(t, rejected.ProcessedAt)

	approved := &WithdrawalRequest{Status: WithdrawalStatusRequested}
	require.NoError(t, approved.TransitionTo(WithdrawalStatusApproved, now))
	assert.Nil(t, approved.ProcessedAt)
}

func TestWithdrawalStatus_CountsTowardLimit(t *testing.T) {
	t.Parallel()

	assert.True(t, WithdrawalStatusApproved.CountsTowardLimit())
	assert.True(t, WithdrawalStatusProcessing.CountsTowardLimit())
	assert.True(t, WithdrawalStatusCompleted.CountsTowardLimit())
	assert.False(t, WithdrawalStatusRequested.CountsTowardLimit())
	assert.False(t, WithdrawalStatusRejected.CountsTowardLimit())
}
