package marshal

import (
	"fmt"
	"runtime/debug"

	"github.com/ehviewer/ehparse"
)

// PanicError is a panic recovered at the boundary.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic at boundary: %v", e.Value)
}

// Contain runs fn and guarantees that nothing escapes it: a panic becomes
// StatusFault, as does any status outside the documented set. If report is
// non-nil it receives the recovered panic; a panic inside report is swallowed.
func Contain(fn func() ehparse.Status, report func(error)) (status ehparse.Status) {
	defer func() {
		if r := recover(); r != nil {
			status = ehparse.StatusFault
			safeReport(report, &PanicError{Value: r, Stack: debug.Stack()})
		}
	}()

	status = fn()
	if !status.Valid() {
		safeReport(report, ehparse.Errorf(ehparse.EINTERNAL, "undocumented status %d", int32(status)))
		status = ehparse.StatusFault
	}
	return status
}

func safeReport(report func(error), err error) {
	if report == nil {
		return
	}
	defer func() { _ = recover() }()
	report(err)
}
