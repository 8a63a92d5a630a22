package mouse_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Alia5/automouse/device/mouse"
)

func TestReportWireLayout(t *testing.T) {
	cases := []struct {
		name     string
		report   mouse.Report
		expected []byte
	}{
		{
			name:     "zero",
			report:   mouse.Report{},
			expected: []byte{0, 0, 0, 0, 0, 0, 0, 0, 0},
		},
		{
			name:     "left button and negative x",
			report:   mouse.Report{Buttons: mouse.ButtonLeft, X: -1, Y: 2},
			expected: []byte{0x01, 0xFF, 0xFF, 0x02, 0x00, 0x00, 0x00, 0x00, 0x00},
		},
		{
			name:     "wheel before pan",
			report:   mouse.Report{V: 3, H: -2},
			expected: []byte{0x00, 0, 0, 0, 0, 0x03, 0x00, 0xFE, 0xFF},
		},
		{
			name:     "upper button bits masked",
			report:   mouse.Report{Buttons: 0xFF},
			expected: []byte{0x1F, 0, 0, 0, 0, 0, 0, 0, 0},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b, err := tc.report.MarshalBinary()
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, b)

			var got mouse.Report
			assert.NoError(t, got.UnmarshalBinary(b))
			want := tc.report
			want.Buttons &= 0x1F
			assert.Equal(t, want, got)
		})
	}
}

func TestReportUnmarshalShort(t *testing.T) {
	var r mouse.Report
	assert.Error(t, r.UnmarshalBinary([]byte{1, 2, 3}))
}

func TestButtonBit(t *testing.T) {
	assert.Equal(t, mouse.ButtonLeft, mouse.ButtonBit(0))
	assert.Equal(t, mouse.ButtonForward, mouse.ButtonBit(4))
	assert.Equal(t, uint8(0), mouse.ButtonBit(5))
	assert.Equal(t, uint8(0), mouse.ButtonBit(-1))
}

func TestHasMotion(t *testing.T) {
	assert.False(t, mouse.Report{Buttons: mouse.ButtonLeft}.HasMotion())
	assert.True(t, mouse.Report{H: 1}.HasMotion())
}
