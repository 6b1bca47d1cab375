package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUWP(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    UWP
		wantErr bool
	}{
		{
			name: "high population world",
			in:   "A867949-C",
			want: UWP{Starport: 'A', Size: 8, Atmosphere: 6, Hydrographics: 7, Population: 9, Government: 4, LawLevel: 9, TechLevel: 12},
		},
		{
			name: "lowercase accepted",
			in:   "b564500-8",
			want: UWP{Starport: 'B', Size: 5, Atmosphere: 6, Hydrographics: 4, Population: 5, Government: 0, LawLevel: 0, TechLevel: 8},
		},
		{
			name: "no starport",
			in:   "X000000-0",
			want: UWP{Starport: 'X'},
		},
		{
			name: "ehex beyond nine",
			in:   "EAC5123-A",
			want: UWP{Starport: 'E', Size: 10, Atmosphere: 12, Hydrographics: 5, Population: 1, Government: 2, LawLevel: 3, TechLevel: 10},
		},
		{name: "missing dash", in: "A8679490C", wantErr: true},
		{name: "too short", in: "A86794-C", wantErr: true},
		{name: "too long", in: "A8679490-C", wantErr: true},
		{name: "bad starport", in: "F867949-C", wantErr: true},
		{name: "ehex digit I rejected", in: "AI67949-C", wantErr: true},
		{name: "ehex digit O rejected", in: "A867949-O", wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseUWP(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidUWP)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUWPStringRoundTrip(t *testing.T) {
	for _, s := range []string{"A867949-C", "X000000-0", "EAC5123-A", "C56A888-9"} {
		u, err := ParseUWP(s)
		require.NoError(t, err)
		assert.Equal(t, s, u.String())
	}
}

func TestEhex(t *testing.T) {
	tests := []struct {
		digit byte
		value int
	}{
		{'0', 0},
		{'9', 9},
		{'A', 10},
		{'H', 17},
		{'J', 18},
		{'N', 22},
		{'P', 23},
		{'Z', 33},
	}

	for _, tt := range tests {
		t.Run(string(tt.digit), func(t *testing.T) {
			v, err := EhexValue(tt.digit)
			require.NoError(t, err)
			assert.Equal(t, tt.value, v)

			d, err := EhexDigit(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.digit, d)
		})
	}

	// I and O are skipped to avoid confusion with 1 and 0.
	_, err := EhexValue('I')
	assert.ErrorIs(t, err, ErrInvalidUWP)
	_, err = EhexValue('O')
	assert.ErrorIs(t, err, ErrInvalidUWP)

	_, err = EhexDigit(-1)
	assert.Error(t, err)
	_, err = EhexDigit(34)
	assert.Error(t, err)
}
