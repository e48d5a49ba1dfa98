package app

import "fmt"

// ModeNotSupportedError is returned when a build mode is given but the build
// tool is configured without mode selection.
type ModeNotSupportedError struct {
	Mode string
}

func (e *ModeNotSupportedError) Error() string {
	return fmt.Sprintf("build mode '%s' given but build.modeFlag is false in the configuration", e.Mode)
}
