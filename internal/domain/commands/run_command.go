package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/robotremote/internal/domain/entities"
	"github.com/rios0rios0/robotremote/internal/domain/repositories"
)

const revisionMetadataName = "Source Revision"

// Run is the interface for the run command (client mode).
type Run interface {
	Execute(ctx context.Context, settings *entities.ClientSettings, opts RunOptions, out io.Writer) (*RunReport, error)
}

// RunOptions holds runtime options for a single remote run.
type RunOptions struct {
	InputDirs      []string
	Extensions     []string
	LogLevel       string
	Suites         []string
	Tests          []string
	Includes       []string
	Excludes       []string
	OutputDir      string
	OutputFile     string
	LogFile        string
	ReportFile     string
	EnforceUpgrade bool
	Debug          bool
	TestConnection bool
}

// RunReport is what the client learned from the worker.
type RunReport struct {
	RetCode      int
	Suites       int
	Dependencies int
	Packages     int
	Written      []string // artifact paths written locally
	Connection   string   // reply of the liveness probe, set only for a connection test
}

// RunCommand bundles local suites, submits them to the worker once and stores the artifacts.
type RunCommand struct {
	suites    repositories.SuiteRepository
	files     repositories.FileRepository
	revisions repositories.RevisionRepository
	runners   repositories.RunnerFactory
	crawler   Crawl
}

// NewRunCommand creates a new RunCommand.
func NewRunCommand(
	suites repositories.SuiteRepository,
	files repositories.FileRepository,
	revisions repositories.RevisionRepository,
	runners repositories.RunnerFactory,
	crawler Crawl,
) *RunCommand {
	return &RunCommand{
		suites:    suites,
		files:     files,
		revisions: revisions,
		runners:   runners,
		crawler:   crawler,
	}
}

// Execute performs the remote run. The bundle is fully built before the worker is contacted,
// and the worker is called exactly once.
func (it *RunCommand) Execute(
	ctx context.Context,
	settings *entities.ClientSettings,
	opts RunOptions,
	out io.Writer,
) (*RunReport, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	runner, err := it.runners(settings)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	if opts.TestConnection {
		reply, probeErr := runner.TestConnection(ctx)
		if probeErr != nil {
			return nil, probeErr
		}
		return &RunReport{Connection: reply}, nil
	}

	inputDirs := opts.InputDirs
	if len(inputDirs) == 0 {
		inputDirs = []string{"."}
	}

	tree, err := it.suites.BuildTree(ctx, inputDirs, opts.Extensions)
	if err != nil {
		return nil, fmt.Errorf("failed to read suites: %w", err)
	}

	bundle, err := it.crawler.Execute(ctx, tree)
	if err != nil {
		return nil, err
	}
	bundle.EnforceUpgrade = opts.EnforceUpgrade
	bundle.Options = it.buildEngineOptions(inputDirs[0], opts)

	logger.Infof("Submitting %d suites to %s", len(bundle.Suites), settings.URL())
	result, err := runner.Execute(ctx, bundle, opts.Debug)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, entities.ErrNoDataReceived
	}

	if _, writeErr := out.Write(result.StdOutErr); writeErr != nil {
		logger.Warnf("Failed to print the remote console output: %v", writeErr)
	}

	written, err := it.writeArtifacts(result, opts)
	if err != nil {
		return nil, err
	}

	return &RunReport{
		RetCode:      result.RetCode,
		Suites:       len(bundle.Suites),
		Dependencies: len(bundle.Dependencies),
		Packages:     len(bundle.Packages),
		Written:      written,
	}, nil
}

// buildEngineOptions maps the CLI filters onto engine run options.
func (it *RunCommand) buildEngineOptions(sourceDir string, opts RunOptions) map[string]any {
	options := map[string]any{}
	if opts.LogLevel != "" {
		options["loglevel"] = opts.LogLevel
	}
	for key, values := range map[string][]string{
		"suite":   opts.Suites,
		"test":    opts.Tests,
		"include": opts.Includes,
		"exclude": opts.Excludes,
	} {
		if len(values) > 0 {
			options[key] = values
		}
	}
	if len(opts.Extensions) > 0 {
		options["extension"] = strings.Join(opts.Extensions, ":")
	}

	revision, versioned, err := it.revisions.Describe(sourceDir)
	switch {
	case err != nil:
		logger.Debugf("Could not describe the revision of %s: %v", sourceDir, err)
	case versioned:
		options["metadata"] = []string{revisionMetadataName + ":" + revision.String()}
	}

	return options
}

// writeArtifacts stores every non-empty artifact at its resolved output path.
func (it *RunCommand) writeArtifacts(result *entities.ExecutionResult, opts RunOptions) ([]string, error) {
	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = "."
	}

	artifacts := []struct {
		filename string
		content  []byte
	}{
		{opts.OutputFile, result.OutputXML},
		{opts.LogFile, result.LogHTML},
		{opts.ReportFile, result.ReportHTML},
	}

	var written []string
	var errs []error
	for _, artifact := range artifacts {
		if len(artifact.content) == 0 || artifact.filename == "" {
			continue
		}

		target, err := it.files.ResolveOutputPath(artifact.filename, outputDir)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if writeErr := it.files.WriteText(target, string(artifact.content)); writeErr != nil {
			errs = append(errs, fmt.Errorf("failed to write %s: %w", filepath.Base(target), writeErr))
			continue
		}
		logger.Debugf("Wrote %s", target)
		written = append(written, target)
	}

	return written, errors.Join(errs...)
}
