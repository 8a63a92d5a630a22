package hostos_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/automouse/hostos"
)

func TestDetect(t *testing.T) {
	cases := []struct {
		name       string
		classifier hostos.Classifier
		wantCode   string
		wantInvert bool
	}{
		{name: "absent", classifier: nil, wantCode: "NA", wantInvert: false},
		{name: "windows", classifier: hostos.Fixed(hostos.Windows), wantCode: "WIN", wantInvert: true},
		{name: "linux", classifier: hostos.Fixed(hostos.Linux), wantCode: "LNX", wantInvert: true},
		{name: "macos", classifier: hostos.Fixed(hostos.MacOS), wantCode: "MAC", wantInvert: false},
		{name: "ios", classifier: hostos.Fixed(hostos.IOS), wantCode: "IOS", wantInvert: false},
		{name: "unknown", classifier: hostos.Fixed(hostos.Unknown), wantCode: "UNK", wantInvert: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d, err := hostos.Detect(context.Background(), tc.classifier, 0)
			require.NoError(t, err)
			assert.Equal(t, tc.classifier != nil, d.Available)
			assert.Equal(t, tc.wantCode, d.Code())
			assert.Equal(t, tc.wantInvert, d.InvertScroll())
		})
	}
}

func TestDetectWaitsSettle(t *testing.T) {
	start := time.Now()
	d, err := hostos.Detect(context.Background(), hostos.Fixed(hostos.MacOS), 20*time.Millisecond)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	assert.Equal(t, hostos.MacOS, d.OS)
}

func TestDetectCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	_, err := hostos.Detect(ctx, func() hostos.OS { called = true; return hostos.Linux }, time.Hour)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestParse(t *testing.T) {
	assert.Equal(t, hostos.Windows, hostos.Parse("WIN"))
	assert.Equal(t, hostos.MacOS, hostos.Parse("darwin"))
	assert.Equal(t, hostos.Linux, hostos.Parse(" linux "))
	assert.Equal(t, hostos.IOS, hostos.Parse("ios"))
	assert.Equal(t, hostos.Unknown, hostos.Parse("plan9"))
}

func TestLocalIsStable(t *testing.T) {
	assert.Equal(t, hostos.Local(), hostos.Local())
}
