package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(offset time.Duration) *time.Time {
	t := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).Add(offset)
	return &t
}

func TestSameMessageByID(t *testing.T) {
	a := Message{ID: 42, SenderID: 1, Body: "x"}
	b := Message{ID: 42, SenderID: 2, Body: "y"}
	assert.True(t, SameMessage(a, b))
}

func TestSameMessageByClientToken(t *testing.T) {
	a := Message{ID: 1700000000000, ClientToken: "tok-1", SenderID: 9, Body: "hi"}
	b := Message{ID: 42, ClientToken: "tok-1", SenderID: 9, Body: "hi"}
	assert.True(t, SameMessage(a, b))

	// пустые токены не должны совпадать между собой
	c := Message{ID: 1, SenderID: 9, Body: "hi", SentAt: at(0)}
	d := Message{ID: 2, SenderID: 8, Body: "bye", SentAt: at(time.Hour)}
	assert.False(t, SameMessage(c, d))
}

func TestSameMessageHeuristic(t *testing.T) {
	a := Message{ID: 1700000000000, SenderID: 9, Body: "hi", SentAt: at(0)}

	within := Message{ID: 42, SenderID: 9, Body: "hi", SentAt: at(400 * time.Millisecond)}
	assert.True(t, SameMessage(a, within))

	reversed := Message{ID: 42, SenderID: 9, Body: "hi", SentAt: at(-400 * time.Millisecond)}
	assert.True(t, SameMessage(a, reversed), "window is symmetric")

	tooLate := Message{ID: 42, SenderID: 9, Body: "hi", SentAt: at(DedupWindow)}
	assert.False(t, SameMessage(a, tooLate))

	otherSender := Message{ID: 42, SenderID: 8, Body: "hi", SentAt: at(400 * time.Millisecond)}
	assert.False(t, SameMessage(a, otherSender))

	otherBody := Message{ID: 42, SenderID: 9, Body: "hi!", SentAt: at(400 * time.Millisecond)}
	assert.False(t, SameMessage(a, otherBody))

	noStamp := Message{ID: 42, SenderID: 9, Body: "hi"}
	assert.False(t, SameMessage(a, noStamp))
}
