package keyboard

import (
	"testing"

	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrid(t *testing.T) {
	buttons := make([]models.InlineKeyboardButton, 0, 7)
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		buttons = append(buttons, Button(id, "book:"+id))
	}

	markup := NewBuilder().Grid(buttons, SlotButtonsPerRow).Build()
	require.NotNil(t, markup)
	require.Len(t, markup.InlineKeyboard, 3)
	assert.Len(t, markup.InlineKeyboard[0], 3)
	assert.Len(t, markup.InlineKeyboard[2], 1)
	assert.Equal(t, "book:g", markup.InlineKeyboard[2][0].CallbackData)
}

func TestEmptyBuilder(t *testing.T) {
	b := NewBuilder().Row().Grid(nil, 0)
	assert.Zero(t, b.Len())
	assert.Nil(t, b.Build())
}
