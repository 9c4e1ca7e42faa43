package cfb_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gosch/pkg/cfb"
)

func TestFAT_Chain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		fat       cfb.FAT
		start     uint32
		limit     int
		expected  []uint32
		wantError bool
	}{
		{
			name:     "three sectors",
			fat:      cfb.FAT{1, 2, cfb.EndOfChain},
			start:    0,
			limit:    10,
			expected: []uint32{0, 1, 2},
		},
		{
			name:     "empty chain",
			fat:      cfb.FAT{cfb.EndOfChain},
			start:    cfb.EndOfChain,
			limit:    10,
			expected: nil,
		},
		{
			name:      "cycle",
			fat:       cfb.FAT{1, 0},
			start:     0,
			limit:     10,
			wantError: true,
		},
		{
			name:      "self loop",
			fat:       cfb.FAT{0},
			start:     0,
			limit:     10,
			wantError: true,
		},
		{
			name:      "free sector mid chain",
			fat:       cfb.FAT{1, cfb.FreeSect},
			start:     0,
			limit:     10,
			wantError: true,
		},
		{
			name:      "link outside table",
			fat:       cfb.FAT{7},
			start:     0,
			limit:     10,
			wantError: true,
		},
		{
			name:      "longer than limit",
			fat:       cfb.FAT{1, 2, 3, cfb.EndOfChain},
			start:     0,
			limit:     2,
			wantError: true,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			chain, err := testCase.fat.Chain(testCase.start, testCase.limit)
			if testCase.wantError {
				require.ErrorIs(t, err, cfb.ErrCorrupt)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.expected, chain)
		})
	}
}

func TestFAT_Next(t *testing.T) {
	t.Parallel()

	fat := cfb.FAT{3, cfb.EndOfChain}
	assert.Equal(t, uint32(3), fat.Next(0))
	assert.Equal(t, cfb.EndOfChain, fat.Next(1))
	assert.Equal(t, cfb.FreeSect, fat.Next(9))
}
