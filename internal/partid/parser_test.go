package partid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/partgrid/internal/part"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name         string
		raw          string
		expectErr    bool
		expectedAddr Address
	}{
		{
			name:         "library",
			raw:          "lib.core",
			expectedAddr: New(part.KindLib, "core"),
		},
		{
			name:         "hyphenated name",
			raw:          "bin.partgrid-check",
			expectedAddr: New(part.KindBin, "partgrid-check"),
		},
		{
			name:         "custom",
			raw:          "custom.version_ml",
			expectedAddr: New(part.KindCustom, "version_ml"),
		},
		{
			name:      "error - empty string",
			raw:       "",
			expectErr: true,
		},
		{
			name:      "error - no kind",
			raw:       "core",
			expectErr: true,
		},
		{
			name:      "error - unknown kind",
			raw:       "module.core",
			expectErr: true,
		},
		{
			name:      "error - base kind",
			raw:       "base.core",
			expectErr: true,
		},
		{
			name:      "error - nested name",
			raw:       "lib.core.extra",
			expectErr: true,
		},
		{
			name:      "error - empty name",
			raw:       "unit.",
			expectErr: true,
		},
		{
			name:      "error - just hyphen",
			raw:       "unit.-",
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			addr, err := Parse(tc.raw)

			if tc.expectErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expectedAddr, addr)
		})
	}
}

func TestAddress_RoundTrip(t *testing.T) {
	for _, id := range []string{"unit.a", "lib.core", "doc.api-ref", "silo.all"} {
		t.Run(id, func(t *testing.T) {
			addr, err := Parse(id)
			require.NoError(t, err)
			assert.Equal(t, id, addr.String())
		})
	}
}

func TestOf(t *testing.T) {
	l := part.NewLib("core", part.LibSpec{})
	assert.Equal(t, part.ID(l), Of(l).String())
	assert.True(t, New(part.KindUnit, "z").Less(New(part.KindLib, "a")))
	assert.True(t, New(part.KindLib, "a").Less(New(part.KindLib, "b")))
	assert.True(t, Address{}.IsZero())

	_, err := ParseAll([]string{"unit.a", "nope"})
	assert.Error(t, err)
}
