package gpio

// FakeIndicator is a test double that records every level it is driven to.
type FakeIndicator struct {
	// Levels contains every level passed to Set, in order.
	Levels []Level

	// Closed tracks if Close was called
	Closed bool

	// SetError, if set, will be returned by Set().
	SetError error

	// FailAfter, if > 0, makes Set return SetError only after this many
	// successful calls.
	FailAfter int
}

// NewFakeIndicator creates a FakeIndicator.
func NewFakeIndicator() *FakeIndicator {
	return &FakeIndicator{}
}

// Set records the level.
func (f *FakeIndicator) Set(level Level) error {
	if f.SetError != nil && len(f.Levels) >= f.FailAfter {
		return f.SetError
	}
	f.Levels = append(f.Levels, level)
	return nil
}

// Current returns the last level set, or Off if Set was never called.
func (f *FakeIndicator) Current() Level {
	if len(f.Levels) == 0 {
		return Off
	}
	return f.Levels[len(f.Levels)-1]
}

// Close marks the indicator as closed.
func (f *FakeIndicator) Close() error {
	f.Closed = true
	return nil
}

// Reset clears recorded levels.
func (f *FakeIndicator) Reset() {
	f.Levels = nil
	f.Closed = false
	f.SetError = nil
	f.FailAfter = 0
}
