package vfile

// Outcome is the result class of the last operation on a handle.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	// OutcomeEOF means a read ran into the end of the file. It is not an
	// error; the handle's Eof flag is set alongside it.
	OutcomeEOF
	OutcomeFailure
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeEOF:
		return "end of file"
	case OutcomeFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// Status is the recorded result of the last operation on a handle.
type Status struct {
	Outcome Outcome
	Message string
}

func (f *File) succeed() {
	f.status = Status{Outcome: OutcomeSuccess}
}

func (f *File) atEOF() {
	f.eof = true
	f.status = Status{Outcome: OutcomeEOF, Message: "end of file"}
}

// fail records err and returns it.
func (f *File) fail(err error) error {
	f.status = Status{Outcome: OutcomeFailure, Message: err.Error()}
	return err
}

// Status returns the result of the last operation.
func (f *File) Status() Status { return f.status }

// Eof reports whether the last read-class operation ran past the end.
func (f *File) Eof() bool { return f.eof }

// HasError reports whether the last operation failed.
func (f *File) HasError() bool { return f.status.Outcome == OutcomeFailure }

// ClearError resets the status and the end-of-file flag.
func (f *File) ClearError() {
	f.eof = false
	f.succeed()
}

// DescribeLastError returns a message for the last operation's outcome.
func (f *File) DescribeLastError() string {
	if f.status.Message == "" {
		return f.status.Outcome.String()
	}
	return f.status.Message
}
