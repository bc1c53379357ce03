package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusValid(t *testing.T) {
	for _, s := range OrderStatuses {
		assert.True(t, s.Valid(), s)
	}
	for _, s := range []OrderStatus{"", "new", "Delivered", "Cancelled "} {
		assert.False(t, s.Valid(), s)
	}
}
