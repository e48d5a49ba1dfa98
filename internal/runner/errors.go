package runner

import "fmt"

// LaunchError is returned when an external program could not be started,
// typically because it is not installed.
type LaunchError struct {
	Command Command
	Wrapped error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("failed to run %s: %v", e.Command.Name, e.Wrapped)
}

func (e *LaunchError) Unwrap() error {
	return e.Wrapped
}
