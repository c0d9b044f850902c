package ehparse

import "fmt"

// Status is the single integer returned across the boundary. Non-negative
// values are the number of bytes written into the shared buffer.
type Status int32

// Failure sentinels. The values are part of the host contract and must not change.
const (
	// StatusNotApplicable reports that the page does not have the expected shape.
	StatusNotApplicable Status = -1

	// StatusFault reports a decode failure, a deliberate domain error such as a
	// log-on page, or any fault contained at the boundary.
	StatusFault Status = -2

	// StatusTooLarge reports that the encoded result does not fit the buffer.
	StatusTooLarge Status = -3
)

// OK reports whether s is a success status.
func (s Status) OK() bool {
	return s >= 0
}

// Valid reports whether s is a success status or one of the documented sentinels.
func (s Status) Valid() bool {
	return s >= StatusTooLarge
}

func (s Status) String() string {
	switch {
	case s >= 0:
		return fmt.Sprintf("ok(%d)", int32(s))
	case s == StatusNotApplicable:
		return "not_applicable"
	case s == StatusFault:
		return "fault"
	case s == StatusTooLarge:
		return "too_large"
	}
	return fmt.Sprintf("invalid(%d)", int32(s))
}

// StatusOf maps an error to its failure sentinel. The boundary is a single
// integer, so every code other than ENOTAPPLICABLE and ETOOLARGE is a fault.
func StatusOf(err error) Status {
	switch ErrorCode(err) {
	case ENOTAPPLICABLE:
		return StatusNotApplicable
	case ETOOLARGE:
		return StatusTooLarge
	}
	return StatusFault
}

// Phase is a state of the marshal-in-place state machine.
type Phase int

// Phases in the order a successful call passes through them.
const (
	PhaseDecoding Phase = iota
	PhaseExtracting
	PhaseSerializing
	PhaseDone
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseDecoding:
		return "decoding"
	case PhaseExtracting:
		return "extracting"
	case PhaseSerializing:
		return "serializing"
	case PhaseDone:
		return "done"
	case PhaseFailed:
		return "failed"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}
