package status_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Alia5/automouse/status"
)

func TestFormat4U(t *testing.T) {
	cases := []struct {
		in   uint16
		want string
	}{
		{0, "   0"},
		{7, "   7"},
		{50, "  50"},
		{200, " 200"},
		{9999, "9999"},
		{12345, "2345"},
		{10005, "0005"},
		{65535, "5535"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, status.Format4U(tc.in), "input %d", tc.in)
	}
}

func TestRender(t *testing.T) {
	lines := status.Render(status.Info{
		Layer:          6,
		Movement:       12,
		ClickThreshold: 50,
		ScrollStep:     45,
		OSCode:         "WIN",
	})
	assert.Equal(t, "LYR ±   6 MV  ±  12/  50   ", lines[0])
	assert.Equal(t, "ST  ±  45 OS  ±WIN   ", lines[1])
}

func TestRenderNotAvailable(t *testing.T) {
	lines := status.Render(status.Info{ClickThreshold: 5, ScrollStep: 1, OSCode: "NA"})
	assert.Equal(t, "ST  ±   1 OS  ±NA   ", lines[1])
}
