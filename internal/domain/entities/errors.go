package entities

import "errors"

var (
	// ErrUnresolvedDependency is returned when an imported file cannot be located on disk.
	ErrUnresolvedDependency = errors.New("unresolved dependency")

	// ErrInvalidPackageSpec is returned when a "@pip:" annotation cannot be parsed.
	ErrInvalidPackageSpec = errors.New("invalid package spec")

	// ErrDuplicateSuite is returned when two suites share the same filename.
	ErrDuplicateSuite = errors.New("duplicate suite filename")

	// ErrUnsafePath is returned when a bundle entry would escape the workspace root.
	ErrUnsafePath = errors.New("unsafe path")

	// ErrNoSuites is returned when a crawl finds no suite containing test cases.
	ErrNoSuites = errors.New("no test suites found")

	// ErrNoDataReceived is returned when the server replies without a result.
	ErrNoDataReceived = errors.New("no data received from server")

	// ErrUnknownPolicy is returned for an unrecognised upgrade policy name.
	ErrUnknownPolicy = errors.New("unknown upgrade policy")

	// ErrInvalidBundle is returned by the server for a bundle it refuses to materialize.
	ErrInvalidBundle = errors.New("invalid bundle")

	// ErrInstallFailed is returned when the package installer fails.
	ErrInstallFailed = errors.New("package installation failed")

	// ErrExecutionFailed is returned when the engine cannot run the suites at all.
	ErrExecutionFailed = errors.New("execution failed")
)
