package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from VehicleState
		to   VehicleState
		want bool
	}{
		{"available to rented", VehicleStateAvailable, VehicleStateRented, true},
		{"rented to available", VehicleStateRented, VehicleStateAvailable, true},
		{"rented to maintenance", VehicleStateRented, VehicleStateMaintenance, true},
		{"maintenance to available", VehicleStateMaintenance, VehicleStateAvailable, true},
		{"available to maintenance", VehicleStateAvailable, VehicleStateMaintenance, false},
		{"available to available", VehicleStateAvailable, VehicleStateAvailable, false},
		{"maintenance to rented", VehicleStateMaintenance, VehicleStateRented, false},
		{"rented to rented", VehicleStateRented, VehicleStateRented, false},
		{"unknown state", VehicleState("scrapped"), VehicleStateAvailable, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestValidChannel(t *testing.T) {
	assert.True(t, ValidChannel(ChannelCash))
	assert.True(t, ValidChannel(ChannelCard))
	assert.True(t, ValidChannel(ChannelTransfer))
	assert.True(t, ValidChannel(ChannelPreAuth))
	assert.False(t, ValidChannel(PaymentChannel("bitcoin")))
	assert.False(t, ValidChannel(PaymentChannel("")))
}
