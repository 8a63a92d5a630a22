package automouse

import "math"

// scroll converts one tick of pointer motion into wheel steps, keeping
// the remainder in s for later ticks.
//
// Vertical motion counts double when choosing the axis, so diagonal
// movement scrolls vertically. Only the chosen axis accumulates.
func (m *Machine) scroll(s *Scrolling, x, y int16) (h, v int16) {
	threshold := int32(m.cfg.Config().ScrollStepThreshold)
	if threshold < 1 {
		threshold = 1
	}

	dx, dy := int32(x), int32(y)
	var hSteps, vSteps int32
	if abs(dy)*2 > abs(dx) {
		s.V += dy
		vSteps = extractSteps(&s.V, threshold)
	} else {
		s.H += dx
		hSteps = extractSteps(&s.H, threshold)
	}

	// Steps are counted against the accumulator sign, so vertical is
	// negated to scroll with the motion.
	h = saturate16(hSteps)
	v = saturate16(-vSteps)
	if m.invertScroll {
		h, v = saturate16(-int32(h)), saturate16(-int32(v))
	}
	return h, v
}

// extractSteps removes whole thresholds from acc while |acc| >= threshold
// and returns the step count, negative for a positive accumulator.
func extractSteps(acc *int32, threshold int32) int32 {
	n := *acc / threshold
	*acc -= n * threshold
	return -n
}

func saturate16(v int32) int16 {
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}
	return int16(v)
}
