package domain

import "github.com/pkg/errors"

// Error kinds. Failures are tagged with one of these sentinels so callers
// can classify them with errors.Is without parsing messages.
var (
	// ErrDependencyMissing marks a required external tool or module that is
	// not installed.
	ErrDependencyMissing = errors.New("dependency missing")
	// ErrExecution marks a precondition failure of the execution
	// environment, such as an absent container runtime.
	ErrExecution = errors.New("execution error")
	// ErrLaunch marks a failure while building or resolving an image.
	ErrLaunch = errors.New("launch error")
	// ErrUsage marks a caller-side precondition violation.
	ErrUsage = errors.New("usage error")
)

// DependencyErrorf tags a formatted message with ErrDependencyMissing.
func DependencyErrorf(format string, args ...any) error {
	return errors.Wrapf(ErrDependencyMissing, format, args...)
}

// ExecutionErrorf tags a formatted message with ErrExecution.
func ExecutionErrorf(format string, args ...any) error {
	return errors.Wrapf(ErrExecution, format, args...)
}

// LaunchErrorf tags a formatted message with ErrLaunch.
func LaunchErrorf(format string, args ...any) error {
	return errors.Wrapf(ErrLaunch, format, args...)
}

// UsageErrorf tags a formatted message with ErrUsage.
func UsageErrorf(format string, args ...any) error {
	return errors.Wrapf(ErrUsage, format, args...)
}
