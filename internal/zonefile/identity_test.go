package zonefile

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseOne(t *testing.T, text string) *File {
	t.Helper()
	f, err := Parse(strings.NewReader(text))
	require.NoError(t, err)
	return f
}

func TestName_ResolutionMatrix(t *testing.T) {
	tests := []struct {
		name   string
		zone   string
		want   string
		wantOK bool
	}{
		{
			name:   "fq origin wins over owner",
			zone:   "$ORIGIN example.com.\nother.example.com. IN SOA ns admin 2024010101 1 2 3 4\n",
			want:   "example.com.",
			wantOK: true,
		},
		{
			name:   "fq origin with elided owner",
			zone:   "$ORIGIN example.com.\n@ IN SOA ns admin 2024010101 1 2 3 4\n",
			want:   "example.com.",
			wantOK: true,
		},
		{
			name:   "relative origin ignored, fq owner used",
			zone:   "$ORIGIN example.com\nexample.com. IN SOA ns admin 2024010101 1 2 3 4\n",
			want:   "example.com.",
			wantOK: true,
		},
		{
			name:   "relative origin with relative owner is undefined",
			zone:   "$ORIGIN example.com\nsub IN SOA ns admin 2024010101 1 2 3 4\n",
			wantOK: false,
		},
		{
			name:   "no origin, fq owner",
			zone:   "example.net. IN SOA ns admin 2024010101 1 2 3 4\n",
			want:   "example.net.",
			wantOK: true,
		},
		{
			name:   "no origin, relative owner is undefined",
			zone:   "example.net IN SOA ns admin 2024010101 1 2 3 4\n",
			wantOK: false,
		},
		{
			name:   "no origin, elided owner is undefined",
			zone:   "@ IN SOA ns admin 2024010101 1 2 3 4\n",
			wantOK: false,
		},
		{
			name:   "root origin anchors relative owner",
			zone:   "$ORIGIN .\nexample.org IN SOA ns admin 2024010101 1 2 3 4\n",
			want:   "example.org.",
			wantOK: true,
		},
		{
			name:   "root origin keeps fq owner",
			zone:   "$ORIGIN .\nexample.org. IN SOA ns admin 2024010101 1 2 3 4\n",
			want:   "example.org.",
			wantOK: true,
		},
		{
			name:   "root origin with elided owner is the root zone",
			zone:   "$ORIGIN .\n@ IN SOA ns admin 2024010101 1 2 3 4\n",
			want:   ".",
			wantOK: true,
		},
		{
			name:   "origin after soa does not apply",
			zone:   "sub IN SOA ns admin 2024010101 1 2 3 4\n$ORIGIN example.com.\n",
			wantOK: false,
		},
		{
			name:   "second origin before soa is the one in effect",
			zone:   "$ORIGIN wrong.example.\n$ORIGIN right.example.\n@ IN SOA ns admin 2024010101 1 2 3 4\n",
			want:   "right.example.",
			wantOK: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := parseOne(t, tt.zone)
			got, ok := f.Name()
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestName_NoSOA(t *testing.T) {
	f := parseOne(t, "$ORIGIN example.com.\nwww IN A 192.0.2.1\n")
	_, ok := f.Name()
	assert.False(t, ok)
}
