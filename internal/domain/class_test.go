package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func mustTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestClass_IsFull(t *testing.T) {
	assert.True(t, (&Class{TotalSlots: 10, AvailableSlots: 0}).IsFull())
	assert.False(t, (&Class{TotalSlots: 10, AvailableSlots: 1}).IsFull())
}
