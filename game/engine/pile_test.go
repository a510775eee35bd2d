package engine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPile_PushPopPeek(t *testing.T) {
	var p Pile
	assert.True(t, p.IsEmpty())

	_, ok := p.Peek()
	assert.False(t, ok)
	_, ok = p.Pop()
	assert.False(t, ok)

	p.Push(NewCard(Hearts, Ace))
	p.Push(NewCard(Spades, Two))
	assert.Equal(t, 2, p.Len())

	top, ok := p.Peek()
	require.True(t, ok)
	assert.Equal(t, NewCard(Spades, Two), top)
	assert.Equal(t, 2, p.Len())

	popped, ok := p.Pop()
	require.True(t, ok)
	assert.Equal(t, top, popped)
	assert.Equal(t, 1, p.Len())
}

func TestPile_CardsIsACopy(t *testing.T) {
	p := NewPile(NewCard(Clubs, King))

	cards := p.Cards()
	cards[0].FaceUp = true

	top, _ := p.Peek()
	assert.False(t, top.FaceUp)
}

func TestPile_SplitAndTurn(t *testing.T) {
	p := NewPile(NewCard(Clubs, Nine), NewCard(Hearts, Eight), NewCard(Spades, Seven))

	run := p.split(1)
	assert.Equal(t, []Card{NewCard(Hearts, Eight), NewCard(Spades, Seven)}, run)
	assert.Equal(t, 1, p.Len())

	assert.True(t, p.turnTop(true))
	assert.False(t, p.turnTop(true))

	var empty Pile
	assert.False(t, empty.turnTop(true))
	assert.Empty(t, empty.split(0))
}

func TestPile_At(t *testing.T) {
	p := NewPile(NewCard(Clubs, Nine))

	c, ok := p.At(0)
	assert.True(t, ok)
	assert.Equal(t, Nine, c.Rank)

	_, ok = p.At(1)
	assert.False(t, ok)
	_, ok = p.At(-1)
	assert.False(t, ok)
}

func TestPile_JSON(t *testing.T) {
	var empty Pile
	data, err := json.Marshal(empty)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	p := NewPile(Card{Suit: Diamonds, Rank: Queen, FaceUp: true})
	data, err = json.Marshal(p)
	require.NoError(t, err)

	var decoded Pile
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, p.Cards(), decoded.Cards())

	// Decoding replaces the pile rather than appending to it
	require.NoError(t, json.Unmarshal([]byte("[]"), &decoded))
	assert.Equal(t, 0, decoded.Len())
	assert.Equal(t, "[]", mustJSON(t, decoded))
}

func mustJSON(t *testing.T, v interface{}) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}
