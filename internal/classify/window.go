package classify

import "fmt"

// Window is a contiguous, non-wrapping interval within a single
// calendar day, inclusive on both bounds, in minutes since midnight in
// the reference timezone. Windows bound when a finished archive may
// show up for a given service, not when the service starts.
//
// A window may additionally declare a spill bound: late-running
// services can finish archive processing after local midnight, and a
// timestamp the rollover correction has shifted back a day matches the
// window when it falls at or before SpillEnd minutes into the next day.
type Window struct {
	Start    int
	End      int
	SpillEnd int // minutes into the following day, 0 = no spill
	Suffix   string
}

// NewWindow builds a window from clock bounds.
func NewWindow(startHour, startMin, endHour, endMin int, suffix string) Window {
	return Window{
		Start:  startHour*60 + startMin,
		End:    endHour*60 + endMin,
		Suffix: suffix,
	}
}

// WithSpill returns a copy of the window that accepts rolled-over
// timestamps up to the given clock time on the following day.
func (w Window) WithSpill(hour, min int) Window {
	w.SpillEnd = hour*60 + min
	return w
}

// Contains reports whether the given minutes-since-midnight falls
// inside the window.
func (w Window) Contains(minutes int) bool {
	return w.Start <= minutes && minutes <= w.End
}

// ContainsSpill reports whether a rolled-over timestamp (expressed as
// minutes since the following day's midnight) falls inside the
// window's spill.
func (w Window) ContainsSpill(minutes int) bool {
	return w.SpillEnd > 0 && minutes <= w.SpillEnd
}

func (w Window) String() string {
	return fmt.Sprintf("%02d:%02d-%02d:%02d", w.Start/60, w.Start%60, w.End/60, w.End%60)
}
