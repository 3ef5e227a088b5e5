package controllers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"strings"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/robotremote/internal/domain/commands"
	"github.com/rios0rios0/robotremote/internal/domain/entities"
	"github.com/rios0rios0/robotremote/internal/infrastructure/transport"
)

const exitTransportFailure = 1

//nolint:gochecknoglobals // read-only lookup table
var engineLogLevels = []string{"TRACE", "DEBUG", "INFO", "WARN", "NONE"}

// RunController handles the "run" subcommand (client mode).
type RunController struct {
	command commands.Run
	out     io.Writer
	exit    func(code int)
}

// NewRunController creates a new RunController.
func NewRunController(command commands.Run) *RunController {
	return &RunController{command: command, out: os.Stdout, exit: os.Exit}
}

// WithOutput redirects console output.
func (it *RunController) WithOutput(out io.Writer) *RunController {
	it.out = out
	return it
}

// WithExit replaces the process exit.
func (it *RunController) WithExit(exit func(code int)) *RunController {
	it.exit = exit
	return it
}

// GetBind returns the Cobra command metadata for the run controller.
func (it *RunController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "run",
		Short: "Run local test suites on a remote worker",
		Long: `Bundle the suites found in the input directories together with every local
library and resource they import, send them to a worker, and store the
output, log and report files it returns.

The process exits with the engine's return code, or 1 when the worker
could not be reached.`,
	}
}

// AddFlags adds the run-specific flags to the given Cobra command.
func (it *RunController) AddFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.String("host", entities.DefaultHost, "Worker host")
	flags.Int("port", entities.DefaultPort, "Worker port")
	flags.String("user", entities.DefaultUser, "User name")
	flags.String("pass", entities.DefaultPassword, "Password (inline, ${ENV_VAR} or file path)")
	flags.String("cacert", "", "Additional CA certificate to trust, e.g. the worker's self-signed certificate")
	flags.Bool("insecure", false, "Skip verification of the worker certificate")
	flags.String("log-level", "WARN", "Engine log level ("+strings.Join(engineLogLevels, ", ")+")")
	flags.StringArray("suite", nil, "Select suites by name (repeatable)")
	flags.StringArray("test", nil, "Select tests by name (repeatable)")
	flags.StringArray("include", nil, "Select tests by tag (repeatable)")
	flags.StringArray("exclude", nil, "Skip tests by tag (repeatable)")
	flags.StringSlice("extension", []string{"robot", "txt", "text", "resource"}, "Suite file extensions")
	flags.StringArray("input-dir", []string{"."}, "Directory with test suites (repeatable)")
	flags.String("output-dir", ".", "Directory for the returned files")
	flags.String("output-file", "remote_output.xml", "Name of the output file")
	flags.String("log-file", "remote_log.html", "Name of the log file")
	flags.String("report-file", "remote_report.html", "Name of the report file")
	flags.Bool("always-upgrade-server-packages", false, "Ask the worker to install or upgrade every declared package")
	flags.Bool("debug", false, "Verbose logging; the worker keeps the run workspace")
	flags.Bool("test-connection", false, "Only check that the worker answers")
}

// Execute runs the client mode.
func (it *RunController) Execute(cmd *cobra.Command, _ []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	flags := cmd.Flags()
	debug, _ := flags.GetBool("debug")
	if debug {
		logger.SetLevel(logger.DebugLevel)
	}

	host, _ := flags.GetString("host")
	port, _ := flags.GetInt("port")
	user, _ := flags.GetString("user")
	password, _ := flags.GetString("pass")
	caCert, _ := flags.GetString("cacert")
	insecure, _ := flags.GetBool("insecure")
	settings := &entities.ClientSettings{
		Host:       host,
		Port:       port,
		User:       user,
		Password:   entities.ResolveSecret(password),
		CACertFile: caCert,
		Insecure:   insecure,
	}

	opts, err := readRunOptions(cmd)
	if err != nil {
		it.fail(err)
		return
	}
	opts.Debug = debug

	report, err := it.command.Execute(ctx, settings, opts, it.out)
	if err != nil {
		it.fail(err)
		return
	}

	if opts.TestConnection {
		fmt.Fprintf(it.out, "Connection to %s: %s\n", settings.URL(), report.Connection)
		it.exit(0)
		return
	}

	fmt.Fprintln(it.out, RenderSummary(report))
	it.exit(report.RetCode)
}

func (it *RunController) fail(err error) {
	var protocolErr *transport.ProtocolError
	var fault *transport.Fault
	switch {
	case errors.As(err, &protocolErr):
		logger.Errorf("Protocol error: URL=%s, code=%d, message=%s",
			protocolErr.URL, protocolErr.StatusCode, protocolErr.Message)
	case errors.As(err, &fault):
		logger.Errorf("Worker fault: code=%d, message=%s", fault.Code, fault.Message)
	case errors.Is(err, entities.ErrNoDataReceived):
		logger.Error("No data received from the worker")
	default:
		logger.Errorf("Run failed: %v", err)
	}
	fmt.Fprintln(it.out, RenderFailure(err.Error()))
	it.exit(exitTransportFailure)
}

func readRunOptions(cmd *cobra.Command) (commands.RunOptions, error) {
	flags := cmd.Flags()

	logLevel, _ := flags.GetString("log-level")
	logLevel = strings.ToUpper(strings.TrimSpace(logLevel))
	if !slices.Contains(engineLogLevels, logLevel) {
		return commands.RunOptions{}, fmt.Errorf(
			"invalid --log-level %q (expected one of %s)", logLevel, strings.Join(engineLogLevels, ", "),
		)
	}

	suites, _ := flags.GetStringArray("suite")
	tests, _ := flags.GetStringArray("test")
	includes, _ := flags.GetStringArray("include")
	excludes, _ := flags.GetStringArray("exclude")
	extensions, _ := flags.GetStringSlice("extension")
	inputDirs, _ := flags.GetStringArray("input-dir")
	outputDir, _ := flags.GetString("output-dir")
	outputFile, _ := flags.GetString("output-file")
	logFile, _ := flags.GetString("log-file")
	reportFile, _ := flags.GetString("report-file")
	enforce, _ := flags.GetBool("always-upgrade-server-packages")
	testConnection, _ := flags.GetBool("test-connection")

	//nolint:exhaustruct // Debug is set by the caller
	return commands.RunOptions{
		InputDirs:      inputDirs,
		Extensions:     extensions,
		LogLevel:       logLevel,
		Suites:         suites,
		Tests:          tests,
		Includes:       includes,
		Excludes:       excludes,
		OutputDir:      outputDir,
		OutputFile:     outputFile,
		LogFile:        logFile,
		ReportFile:     reportFile,
		EnforceUpgrade: enforce,
		TestConnection: testConnection,
	}, nil
}
