package strlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinSplitRoundTrip(t *testing.T) {
	cases := [][]string{
		{"a", "b", "c"},
		{"single.vol"},
		{"maps.vol", "sheets.vol", "sound.clm"},
	}
	for _, in := range cases {
		joined, err := Join(in)
		require.NoError(t, err)
		assert.Equal(t, in, Split(joined))
	}
}

func TestJoinSingleHasNoDelimiter(t *testing.T) {
	joined, err := Join([]string{"a.txt"})
	require.NoError(t, err)
	assert.Equal(t, "a.txt", joined)
}

func TestJoinEmpty(t *testing.T) {
	joined, err := Join(nil)
	require.NoError(t, err)
	assert.Equal(t, "", joined)
	assert.Empty(t, Split(joined))
}

func TestSplit(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"", []string{}},
		{"a", []string{"a"}},
		{"a|b", []string{"a", "b"}},
		{"a|b|", []string{"a", "b"}},
		{"a||b", []string{"a", "", "b"}},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Split(tc.in), "input %q", tc.in)
	}
}

func TestJoinRejectsUnrecoverableEntries(t *testing.T) {
	_, err := Join([]string{"ok", "bad|name"})
	require.ErrorIs(t, err, ErrDelimiterInEntry)

	_, err = Join([]string{"ok", ""})
	require.ErrorIs(t, err, ErrEmptyEntry)
}
