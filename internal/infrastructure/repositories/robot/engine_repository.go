package robot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"sort"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/robotremote/internal/domain/entities"
	"github.com/rios0rios0/robotremote/internal/domain/repositories"
	"github.com/rios0rios0/robotremote/internal/infrastructure/repositories/python"
)

// RootSuiteName is the name given to the top-level suite of every run.
const RootSuiteName = "Root"

var optionKeyPattern = regexp.MustCompile(`^[a-z][a-z0-9]*$`)

// reservedOptions are set by the server and cannot be overridden by the client.
//
//nolint:gochecknoglobals // read-only lookup table
var reservedOptions = map[string]bool{
	"outputdir":    true,
	"output":       true,
	"log":          true,
	"report":       true,
	"name":         true,
	"pythonpath":   true,
	"argumentfile": true,
}

// EngineRepository runs suites with "python -m robot".
type EngineRepository struct {
	interpreter *python.Interpreter
}

// NewEngineRepository creates a new EngineRepository.
func NewEngineRepository(interpreter *python.Interpreter) repositories.EngineRepository {
	return &EngineRepository{interpreter: interpreter}
}

// Run executes the workspace in run.Dir without changing the working directory of this process.
func (it *EngineRepository) Run(ctx context.Context, run repositories.EngineRun) (int, error) {
	binary, err := it.interpreter.Path()
	if err != nil {
		return 0, err
	}

	args := BuildArguments(run.Dir, run.Options)
	logger.Debugf("[engine] %s %s", binary, strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Dir = run.Dir
	cmd.Env = append(os.Environ(), "PYTHONIOENCODING=utf-8")
	cmd.Stdout = run.Output
	cmd.Stderr = run.Output

	runErr := cmd.Run()
	var exitErr *exec.ExitError
	switch {
	case runErr == nil:
		return 0, nil
	case errors.As(runErr, &exitErr) && exitErr.ExitCode() >= 0:
		return exitErr.ExitCode(), nil
	default:
		return 0, fmt.Errorf("failed to run the engine: %w", runErr)
	}
}

// BuildArguments returns the engine command line for a workspace. Options are emitted in key
// order; reserved or malformed keys are dropped.
func BuildArguments(dir string, options map[string]any) []string {
	args := []string{
		"-m", "robot",
		"--outputdir", dir,
		"--output", entities.OutputArtifactName,
		"--log", entities.LogArtifactName,
		"--report", entities.ReportArtifactName,
		"--name", RootSuiteName,
		"--pythonpath", dir,
	}

	keys := make([]string, 0, len(options))
	for key := range options {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		flag := strings.ToLower(key)
		if reservedOptions[flag] || !optionKeyPattern.MatchString(flag) {
			logger.Warnf("[engine] Ignoring option %q", key)
			continue
		}
		args = appendOption(args, "--"+flag, options[key])
	}

	return append(args, ".")
}

func appendOption(args []string, flag string, value any) []string {
	switch typed := value.(type) {
	case nil:
		return args
	case bool:
		if typed {
			args = append(args, flag)
		}
		return args
	case string:
		return append(args, flag, typed)
	case []string:
		for _, item := range typed {
			args = append(args, flag, item)
		}
		return args
	case []any:
		for _, item := range typed {
			args = appendOption(args, flag, item)
		}
		return args
	default:
		return append(args, flag, fmt.Sprint(typed))
	}
}
