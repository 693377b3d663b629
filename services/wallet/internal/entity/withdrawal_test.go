package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithdrawalStatus_CanMoveTo(t *testing.T) {
	tests := []struct {
		from, to WithdrawalStatus
		allowed  bool
	}{
		{WithdrawalStatusPending, WithdrawalStatusApproved, true},
		{WithdrawalStatusPending, WithdrawalStatusDeclined, true},
		{WithdrawalStatusPending, WithdrawalStatusProcessed, true},
		{WithdrawalStatusApproved, WithdrawalStatusProcessed, true},
		{WithdrawalStatusApproved, WithdrawalStatusDeclined, false},
		{WithdrawalStatusApproved, WithdrawalStatusApproved, false},
		{WithdrawalStatusDeclined, WithdrawalStatusProcessed, false},
		{WithdrawalStatusProcessed, WithdrawalStatusDeclined, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanMoveTo(tt.to))
		})
	}
}
