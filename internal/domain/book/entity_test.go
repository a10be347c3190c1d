package book

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGenre(t *testing.T) {
	assert.Len(t, Genres(), 24)

	g, err := ParseGenre("YOUNG_ADULT")
	require.NoError(t, err)
	assert.Equal(t, GenreYoungAdult, g)

	// 大小写敏感
	_, err = ParseGenre("fiction")
	assert.ErrorIs(t, err, ErrInvalidGenre)

	_, err = ParseGenre("")
	assert.ErrorIs(t, err, ErrInvalidGenre)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2020-01-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("15/01/2020")
	assert.Error(t, err)
}

func TestBook_Apply(t *testing.T) {
	b := &Book{ID: 7, ISBN: "1111111111", Title: "旧书名"}
	loc := time.FixedZone("UTC+8", 8*3600)

	b.Apply(Fields{
		Title:           "新书名",
		ISBN:            "2222222222",
		PublicationDate: time.Date(2021, 3, 4, 22, 30, 0, 0, loc),
		Genre:           GenreHistory,
	})

	assert.Equal(t, uint(7), b.ID)
	assert.Equal(t, "新书名", b.Title)
	assert.True(t, b.HasISBN("2222222222"))
	assert.Equal(t, "2021-03-04", b.PublicationDate.Format(DateLayout))
	assert.Equal(t, time.UTC, b.PublicationDate.Location())
}
