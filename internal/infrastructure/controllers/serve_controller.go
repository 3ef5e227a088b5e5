package controllers

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/robotremote/internal/domain/commands"
	"github.com/rios0rios0/robotremote/internal/domain/entities"
	"github.com/rios0rios0/robotremote/internal/infrastructure/repositories/python"
	"github.com/rios0rios0/robotremote/internal/infrastructure/transport"
)

// ServeController handles the "serve" subcommand (worker mode).
type ServeController struct {
	command     commands.Execute
	interpreter *python.Interpreter
	exit        func(code int)
}

// NewServeController creates a new ServeController.
func NewServeController(command commands.Execute, interpreter *python.Interpreter) *ServeController {
	return &ServeController{command: command, interpreter: interpreter, exit: os.Exit}
}

// GetBind returns the Cobra command metadata for the serve controller.
func (it *ServeController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "serve",
		Short: "Start the remote worker",
		Long: `Accept authenticated runs over HTTPS, execute each bundle in its own
temporary workspace and return the produced files.

Settings are read from a config file (--config or auto-detected
robotremote.yaml) and can be overridden by flags.`,
	}
}

// AddFlags adds the serve-specific flags to the given Cobra command.
func (it *ServeController) AddFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringP("config", "c", "", "Path to config file (default: auto-detect)")
	flags.String("host", entities.DefaultHost, "Listen host")
	flags.Int("port", entities.DefaultPort, "Listen port")
	flags.String("user", entities.DefaultUser, "User name clients must present")
	flags.String("pass", entities.DefaultPassword, "Password clients must present (inline, ${ENV_VAR} or file path)")
	flags.String("keyfile", entities.DefaultKeyFile, "TLS private key")
	flags.String("certfile", entities.DefaultCertFile, "TLS certificate")
	flags.String("upgrade-policy", string(entities.PolicyOutdated), "Package installation policy (never, outdated, always)")
	flags.Bool("always-upgrade-packages", false, "Install or upgrade every declared package (same as --upgrade-policy always)")
	flags.Bool("debug", false, "Verbose logging; keep every run workspace")
	flags.Int("workers", entities.DefaultWorkers, "Maximum number of concurrent runs")
	flags.String("python", "", "Python interpreter (default: auto-detect)")
}

// Execute runs the worker until SIGINT or SIGTERM.
func (it *ServeController) Execute(cmd *cobra.Command, _ []string) {
	settings, err := LoadServerSettings(cmd)
	if err != nil {
		logger.Errorf("failed to load config: %v", err)
		it.exit(1)
		return
	}
	if settings.Debug {
		logger.SetLevel(logger.DebugLevel)
	}
	it.interpreter.Use(settings.Python)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Infof("Starting worker on %s (policy %s, %d workers)", settings.Address(), settings.UpgradePolicy, settings.Workers)
	server := transport.NewServer(settings, it.command, transport.NewBasicAuthenticator(settings.User, settings.Password))
	if serveErr := server.ListenAndServe(ctx); serveErr != nil {
		logger.Errorf("Worker stopped: %v", serveErr)
		it.exit(1)
		return
	}
	logger.Info("Worker stopped")
}

// LoadServerSettings reads the config file, when present, and applies the flags that were set.
func LoadServerSettings(cmd *cobra.Command) (*entities.ServerSettings, error) {
	flags := cmd.Flags()

	configPath, _ := flags.GetString("config")
	if configPath == "" {
		if found, findErr := entities.FindConfigFile(); findErr == nil {
			configPath = found
		}
	}
	if configPath != "" {
		logger.Infof("Using config file: %s", configPath)
	}

	settings, err := entities.NewServerSettings(configPath)
	if err != nil {
		return nil, err
	}

	if flags.Changed("host") {
		settings.Host, _ = flags.GetString("host")
	}
	if flags.Changed("port") {
		settings.Port, _ = flags.GetInt("port")
	}
	if flags.Changed("user") {
		settings.User, _ = flags.GetString("user")
	}
	if flags.Changed("pass") {
		password, _ := flags.GetString("pass")
		settings.Password = entities.ResolveSecret(password)
	}
	if flags.Changed("keyfile") {
		settings.KeyFile, _ = flags.GetString("keyfile")
	}
	if flags.Changed("certfile") {
		settings.CertFile, _ = flags.GetString("certfile")
	}
	if flags.Changed("upgrade-policy") {
		policy, _ := flags.GetString("upgrade-policy")
		settings.UpgradePolicy = entities.UpgradePolicy(policy)
	}
	if always, _ := flags.GetBool("always-upgrade-packages"); always {
		settings.UpgradePolicy = entities.PolicyAlways
	}
	if debug, _ := flags.GetBool("debug"); debug {
		settings.Debug = true
	}
	if flags.Changed("workers") {
		settings.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("python") {
		settings.Python, _ = flags.GetString("python")
	}

	if validateErr := settings.Validate(); validateErr != nil {
		return nil, validateErr
	}
	return settings, nil
}
