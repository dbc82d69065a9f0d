package numbering

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextWithinMonth(t *testing.T) {
	at := time.Date(2024, time.June, 18, 9, 0, 0, 0, time.UTC)
	got, err := Next(DefaultTemplate, at, []string{"QUO-2406-001", "QUO-2406-002"})
	require.NoError(t, err)
	assert.Equal(t, "QUO-2406-003", got)
}

func TestNextStartsOverInNewMonth(t *testing.T) {
	at := time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC)
	got, err := Next(DefaultTemplate, at, []string{"QUO-2406-001", "QUO-2406-002"})
	require.NoError(t, err)
	assert.Equal(t, "QUO-2407-001", got)
}

func TestNextCountsCopies(t *testing.T) {
	at := time.Date(2024, time.June, 2, 0, 0, 0, 0, time.UTC)
	got, err := Next(DefaultTemplate, at, []string{"QUO-2406-001", Copy("QUO-2406-001")})
	require.NoError(t, err)
	assert.Equal(t, "QUO-2406-003", got)
}

func TestFormat(t *testing.T) {
	at := time.Date(2025, time.January, 9, 0, 0, 0, 0, time.UTC)

	got, err := Format("Q{YYYY}{MM}{DD}-{SEQ}", at, 42)
	require.NoError(t, err)
	assert.Equal(t, "Q20250109-42", got)

	_, err = Format("", at, 1)
	assert.Error(t, err)

	_, err = Format(DefaultTemplate, at, 0)
	assert.Error(t, err)

	_, err = Format("QUO-{WEEK}-{SEQ3}", at, 1)
	assert.Error(t, err)
}

func TestPrefix(t *testing.T) {
	at := time.Date(2024, time.June, 18, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "QUO-2406", Prefix(DefaultTemplate, at))
}
