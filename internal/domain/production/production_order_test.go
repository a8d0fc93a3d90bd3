package production

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderState_IsValid(t *testing.T) {
	tests := []struct {
		state   OrderState
		isValid bool
	}{
		{OrderStateActive, true},
		{OrderStateCancelled, true},
		{OrderStateDelivered, true},
		{OrderState("ativo"), false},
		{OrderState(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			assert.Equal(t, tt.isValid, tt.state.IsValid())
		})
	}
}

func TestProductionOrder_IsActive(t *testing.T) {
	assert.True(t, (&ProductionOrder{State: OrderStateActive}).IsActive())
	assert.False(t, (&ProductionOrder{State: OrderStateDelivered}).IsActive())
	assert.False(t, (&ProductionOrder{State: OrderStateCancelled}).IsActive())
}
