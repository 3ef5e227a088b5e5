package entities

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	DefaultHost            = "localhost"
	DefaultPort            = 8111
	DefaultUser            = "admin"
	DefaultPassword        = "admin"
	DefaultKeyFile         = "privkey.pem"
	DefaultCertFile        = "cacert.pem"
	DefaultWorkers         = 4
	DefaultShutdownTimeout = 10 * time.Second
	maxPort                = 65535
)

// ServerSettings is the worker configuration. It is built once at startup and never
// mutated while requests are served.
type ServerSettings struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"` // Inline, ${ENV_VAR}, or file path
	KeyFile         string        `yaml:"keyfile"`
	CertFile        string        `yaml:"certfile"`
	UpgradePolicy   UpgradePolicy `yaml:"upgrade_policy"`
	Debug           bool          `yaml:"debug"`
	Workers         int           `yaml:"workers"`
	WorkspaceDir    string        `yaml:"workspace_dir"` // empty means the OS temp dir
	Python          string        `yaml:"python"`        // empty means auto-detect
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// ClientSettings describes how the client reaches the worker.
type ClientSettings struct {
	Host       string
	Port       int
	User       string
	Password   string
	CACertFile string // extra CA to trust, e.g. the worker's self-signed certificate
	Insecure   bool   // skip certificate verification
}

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// DefaultServerSettings returns the settings used when no config file is present.
func DefaultServerSettings() *ServerSettings {
	return &ServerSettings{
		Host:            DefaultHost,
		Port:            DefaultPort,
		User:            DefaultUser,
		Password:        DefaultPassword,
		KeyFile:         DefaultKeyFile,
		CertFile:        DefaultCertFile,
		UpgradePolicy:   PolicyOutdated,
		Workers:         DefaultWorkers,
		ShutdownTimeout: DefaultShutdownTimeout,
	}
}

// NewServerSettings reads a configuration file over the defaults. An empty path returns the defaults.
func NewServerSettings(path string) (*ServerSettings, error) {
	settings := DefaultServerSettings()
	if path == "" {
		return settings, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	if unmarshalErr := yaml.Unmarshal(data, settings); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", unmarshalErr)
	}

	settings.Password = ResolveSecret(settings.Password)

	if validateErr := settings.Validate(); validateErr != nil {
		return nil, validateErr
	}

	return settings, nil
}

// Validate checks for required configuration values and normalises the policy.
func (it *ServerSettings) Validate() error {
	if it.User == "" || it.Password == "" {
		return errors.New("user and password are required")
	}
	if it.Port <= 0 || it.Port > maxPort {
		return fmt.Errorf("port %d is out of range", it.Port)
	}
	if it.KeyFile == "" || it.CertFile == "" {
		return errors.New("keyfile and certfile are required")
	}
	if it.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", it.Workers)
	}
	if it.ShutdownTimeout <= 0 {
		it.ShutdownTimeout = DefaultShutdownTimeout
	}

	policy, err := ParseUpgradePolicy(string(it.UpgradePolicy))
	if err != nil {
		return err
	}
	it.UpgradePolicy = policy

	return nil
}

// Address is the listen address in host:port form.
func (it *ServerSettings) Address() string {
	return net.JoinHostPort(it.Host, strconv.Itoa(it.Port))
}

// URL is the RPC endpoint of the worker. Credentials are sent as a header, never in the URL.
func (it *ClientSettings) URL() string {
	return "https://" + net.JoinHostPort(it.Host, strconv.Itoa(it.Port)) + "/RPC2"
}

// Validate checks the client connection settings.
func (it *ClientSettings) Validate() error {
	if it.Host == "" {
		return errors.New("host is required")
	}
	if it.Port <= 0 || it.Port > maxPort {
		return fmt.Errorf("port %d is out of range", it.Port)
	}
	return nil
}

// FindConfigFile searches for a configuration file in standard locations.
// Returns the path to the first file found or an error if none is found.
func FindConfigFile() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = ""
	}

	locations := []string{
		".",
		".config",
		"configs",
	}
	if homeDir != "" {
		locations = append(
			locations,
			homeDir,
			filepath.Join(homeDir, ".config"),
		)
	}

	patterns := []string{
		".robotremote.yaml",
		".robotremote.yml",
		"robotremote.yaml",
		"robotremote.yml",
	}

	for _, loc := range locations {
		for _, pat := range patterns {
			p := filepath.Join(loc, pat)
			if _, statErr := os.Stat(p); statErr == nil {
				return p, nil
			}
		}
	}

	return "", errors.New("config file not found in default locations")
}

// ResolveSecret expands environment variable references (${VAR}) and, if the
// resulting string is a path to an existing file, reads the secret from the file.
func ResolveSecret(raw string) string {
	if raw == "" {
		return raw
	}

	resolved := envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		logger.Warnf("Environment variable %q is not set", varName)
		return ""
	})

	if info, statErr := os.Stat(resolved); statErr == nil && !info.IsDir() {
		data, readErr := os.ReadFile(resolved)
		if readErr != nil {
			logger.Warnf("Failed to read secret file %q: %v", resolved, readErr)
			return resolved
		}
		logger.Infof("Read secret from file %q", resolved)
		return strings.TrimSpace(string(data))
	}

	return resolved
}
