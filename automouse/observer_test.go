package automouse_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Alia5/automouse/automouse"
)

func TestEnterScrollLayerMidClick(t *testing.T) {
	r := newRig(50, 50, false)
	r.toClickable(0)
	r.machine.PressButton(0)
	assert.Equal(t, automouse.KindClicking, r.machine.Kind())

	r.observer.OnLayerChange(automouse.ScrollLayer)

	s := scrolling(t, r)
	assert.Equal(t, automouse.Scrolling{}, s)
	assert.False(t, r.clickLayerOn())
	assert.False(t, r.scrollMode.enabled)
}

func TestEnterScrollLayerClearsRemainder(t *testing.T) {
	r := newRig(50, 50, false)
	r.machine.PressScroll()
	r.machine.Step(move(0, 30), 1)
	r.machine.Step(move(45, 0), 2)
	assert.NotEqual(t, automouse.Scrolling{}, scrolling(t, r))

	r.observer.OnLayerChange(automouse.ScrollLayer)
	assert.Equal(t, automouse.Scrolling{}, scrolling(t, r))
}

func TestLeaveScrollLayer(t *testing.T) {
	r := newRig(50, 50, false)
	r.observer.OnLayerChange(automouse.ScrollLayer)
	r.machine.Step(move(0, 30), 1)

	r.observer.OnLayerChange(0)
	assert.Equal(t, automouse.KindNone, r.machine.Kind())
	assert.Equal(t, uint32(0), r.machine.WaitingMovement())
	assert.False(t, r.scrollMode.enabled)

	// Re-entering starts from empty accumulators.
	r.observer.OnLayerChange(automouse.ScrollLayer)
	assert.Equal(t, automouse.Scrolling{}, scrolling(t, r))
}

func TestOtherLayersLeaveNonScrollingAlone(t *testing.T) {
	r := newRig(50, 50, false)
	r.toClickable(0)
	calls := r.scrollMode.calls

	r.observer.OnLayerChange(2)
	assert.Equal(t, automouse.KindClickable, r.machine.Kind())
	assert.True(t, r.clickLayerOn())
	assert.Greater(t, r.scrollMode.calls, calls, "scroll mode is always forced off")
	assert.False(t, r.scrollMode.enabled)
}

func TestClickLayerOnLeavesScrolling(t *testing.T) {
	// Releasing the scroll key turns the click layer on; the resulting
	// layer change resets SCROLLING before the machine arms CLICKABLE.
	r := newRig(50, 50, false)
	r.machine.PressScroll()
	r.machine.ReleaseScroll(10)
	assert.Equal(t, automouse.KindClickable, r.machine.Kind())
	assert.True(t, r.clickLayerOn())
}
