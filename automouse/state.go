package automouse

// Kind identifies which State the machine is in.
type Kind uint8

const (
	KindNone Kind = iota
	KindWaiting
	KindClickable
	KindClicking
	KindScrolling
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "NONE"
	case KindWaiting:
		return "WAITING"
	case KindClickable:
		return "CLICKABLE"
	case KindClicking:
		return "CLICKING"
	case KindScrolling:
		return "SCROLLING"
	default:
		return "UNKNOWN"
	}
}

// State is one of None, Waiting, Clickable, Clicking or Scrolling. Each
// variant carries only the fields that mean something while it is current.
type State interface {
	Kind() Kind
	isState()
}

// None is the typing state: motion is passed through and no click layer
// is active.
type None struct{}

// Waiting accumulates motion until it reaches the click activation
// threshold.
type Waiting struct {
	// Movement is the |x|+|y|+|h|+|v| accumulated since entering.
	Movement uint32
	// Since is when the state was entered.
	Since Millis
}

// Clickable has the click layer on. Since is the last activity.
type Clickable struct {
	Since Millis
}

// Clicking is entered on a button press. Pointer motion is suppressed
// until LockMovement is used up, which keeps a click from turning into a
// drag.
type Clicking struct {
	LockMovement int32
}

// Scrolling converts pointer motion into wheel steps. V and H carry the
// motion not yet emitted as a step.
type Scrolling struct {
	V, H int32
}

func (None) Kind() Kind      { return KindNone }
func (Waiting) Kind() Kind   { return KindWaiting }
func (Clickable) Kind() Kind { return KindClickable }
func (Clicking) Kind() Kind  { return KindClicking }
func (Scrolling) Kind() Kind { return KindScrolling }

func (None) isState()      {}
func (Waiting) isState()   {}
func (Clickable) isState() {}
func (Clicking) isState()  {}
func (Scrolling) isState() {}
