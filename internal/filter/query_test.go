package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justyntemme/picroute/internal/nav"
)

var now = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func entries() []nav.Entry {
	return []nav.Entry{
		{Name: "Beach-01.JPG", Size: 3 << 20, ModTime: now.AddDate(0, 0, -2), Width: 4000, Height: 3000},
		{Name: "beach-02.png", Size: 200 << 10, ModTime: now.AddDate(0, -2, 0), Selected: true},
		{Name: "city.webp", Size: 1 << 20, ModTime: now, Width: 1280, Height: 720},
		{Name: "clip.gif", Origin: nav.Ephemeral},
	}
}

func names(q *Query) []string {
	all := entries()
	var out []string
	for _, i := range q.Apply(all) {
		out = append(out, all[i].Name)
	}
	return out
}

func TestQueries(t *testing.T) {
	cases := []struct {
		query string
		want  []string
	}{
		{"", []string{"Beach-01.JPG", "beach-02.png", "city.webp", "clip.gif"}},
		{"beach", []string{"Beach-01.JPG", "beach-02.png"}},
		{"b*.png", []string{"beach-02.png"}},
		{"ext:jpg", []string{"Beach-01.JPG"}},
		{"ext:.PNG", []string{"beach-02.png"}},
		{"size:>1MB", []string{"Beach-01.JPG", "city.webp"}},
		{"size:>=1MiB", []string{"Beach-01.JPG", "city.webp"}},
		{"size:<100KB", []string{"clip.gif"}},
		{"modified:>=week", []string{"Beach-01.JPG", "city.webp"}},
		{"modified:2024-06-15", []string{"city.webp"}},
		{"modified:<2024-05-01", []string{"beach-02.png", "clip.gif"}},
		{"modified:2024-06", []string{"Beach-01.JPG", "city.webp"}},
		{"modified:<=2024-06-13", []string{"Beach-01.JPG", "beach-02.png", "clip.gif"}},
		{"modified:>2024-06-13", []string{"city.webp"}},
		{"modified:today", []string{"city.webp"}},
		{"size:<10EB", []string{"Beach-01.JPG", "beach-02.png", "city.webp", "clip.gif"}},
		{"width:>=1920", []string{"Beach-01.JPG"}},
		{"height:<1080", []string{"city.webp"}},
		{"is:selected", []string{"beach-02.png"}},
		{"is:attached", []string{"clip.gif"}},
		{"beach size:>1MB", []string{"Beach-01.JPG"}},
		{`"beach-0"`, []string{"Beach-01.JPG", "beach-02.png"}},
	}
	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			q, err := Parse(tc.query, now)
			require.NoError(t, err)
			assert.Equal(t, tc.want, names(q))
		})
	}
}

func TestParseErrors(t *testing.T) {
	for _, bad := range []string{"size:>lots", "modified:someday", "width:wide", "is:big"} {
		_, err := Parse(bad, now)
		assert.Error(t, err, bad)
	}
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"name:summer trip", "ext:png"}, tokenize(`name:"summer trip"  ext:png`))
	assert.Empty(t, tokenize("   "))
}

func TestEmpty(t *testing.T) {
	q, err := Parse("  ", now)
	require.NoError(t, err)
	assert.True(t, q.Empty())
}

func TestHugeSizeDoesNotWrap(t *testing.T) {
	q, err := Parse("size:<15EB", now)
	require.NoError(t, err)
	require.Len(t, q.Terms, 1)
	assert.Positive(t, q.Terms[0].Num)
}
