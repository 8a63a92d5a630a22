package automouse

// Millis is a free-running millisecond tick counter. It wraps; use Since to
// compare.
type Millis uint32

// Since returns the time elapsed from t to m, correct across one wrap.
func (m Millis) Since(t Millis) Millis {
	return m - t
}
