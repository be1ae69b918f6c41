package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStyleKeyboard(t *testing.T) {
	markup := styleKeyboard()

	require.Len(t, markup.InlineKeyboard, 4)
	var labels, payloads []string
	for _, row := range markup.InlineKeyboard {
		require.Len(t, row, 1)
		assert.Equal(t, cbStyle, row[0].Unique)
		labels = append(labels, row[0].Text)
		payloads = append(payloads, row[0].Data)
	}
	assert.Equal(t, []string{"Original", "Grayscale", "Black & White", "Enhanced"}, labels)
	assert.Equal(t, []string{"original", "grayscale", "black_white", "enhanced"}, payloads)
}

func TestQualityKeyboard(t *testing.T) {
	markup := qualityKeyboard()

	require.Len(t, markup.InlineKeyboard, 3)
	var labels, payloads []string
	for _, row := range markup.InlineKeyboard {
		require.Len(t, row, 1)
		assert.Equal(t, cbQuality, row[0].Unique)
		labels = append(labels, row[0].Text)
		payloads = append(payloads, row[0].Data)
	}
	assert.Equal(t, []string{"High", "Medium", "Low"}, labels)
	assert.Equal(t, []string{"high", "medium", "low"}, payloads)
}
