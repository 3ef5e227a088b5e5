package repositories

import (
	"context"
	"io"
)

// EngineRun is one invocation of the suite execution engine.
type EngineRun struct {
	Dir     string         // workspace root: working directory, module search path and output directory
	Options map[string]any // run options forwarded by the client
	Output  io.Writer      // receives the combined standard output and error
}

// EngineRepository abstracts the suite-compiling/execution engine.
// It writes the output, log and report artifacts into EngineRun.Dir.
type EngineRepository interface {
	// Run executes the suites and returns the engine's exit code. An error means the engine could not run at all.
	Run(ctx context.Context, run EngineRun) (int, error)
}
