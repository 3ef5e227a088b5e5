package python

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/robotremote/internal/domain/entities"
	"github.com/rios0rios0/robotremote/internal/domain/repositories"
)

// blockedInstallerEnv are variables that point the installer at proxies or CA bundles meant for
// other traffic. They are dropped from the installer's environment only.
//
//nolint:gochecknoglobals // read-only lookup table
var blockedInstallerEnv = map[string]bool{
	"HTTP_PROXY":         true,
	"HTTPS_PROXY":        true,
	"ALL_PROXY":          true,
	"NO_PROXY":           true,
	"REQUESTS_CA_BUNDLE": true,
	"CURL_CA_BUNDLE":     true,
	"PIP_CERT":           true,
	"PIP_PROXY":          true,
}

// PipPackageRepository implements repositories.PackageRepository with "python -m pip".
type PipPackageRepository struct {
	interpreter *Interpreter
	environ     func() []string
}

// NewPipPackageRepository creates a new PipPackageRepository.
func NewPipPackageRepository(interpreter *Interpreter) repositories.PackageRepository {
	return &PipPackageRepository{interpreter: interpreter, environ: os.Environ}
}

type pipListEntry struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

func (it *PipPackageRepository) Installed(ctx context.Context) (map[string]string, error) {
	python, err := it.interpreter.Path()
	if err != nil {
		return nil, err
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, python, "-m", "pip", "list", "--format=json", "--disable-pip-version-check")
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.Env = SanitizeInstallerEnv(it.environ())
	if runErr := cmd.Run(); runErr != nil {
		return nil, fmt.Errorf("pip list failed: %w\nOutput:\n%s", runErr, stderr.String())
	}

	return ParsePipList(stdout.Bytes())
}

func (it *PipPackageRepository) Install(ctx context.Context, specs []string, upgrade bool) error {
	if len(specs) == 0 {
		return nil
	}

	python, err := it.interpreter.Path()
	if err != nil {
		return err
	}

	args := []string{"-m", "pip", "install", "--disable-pip-version-check"}
	if upgrade {
		args = append(args, "--upgrade")
	}
	args = append(args, specs...)

	cmd := exec.CommandContext(ctx, python, args...)
	cmd.Env = SanitizeInstallerEnv(it.environ())

	output, err := cmd.CombinedOutput()
	logger.Debugf("[python] pip install output:\n%s", output)
	if err != nil {
		return fmt.Errorf("pip install failed: %w\nOutput:\n%s", err, output)
	}
	return nil
}

// ParsePipList turns "pip list --format=json" output into normalized name -> version.
func ParsePipList(data []byte) (map[string]string, error) {
	var entries []pipListEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse pip list output: %w", err)
	}

	installed := make(map[string]string, len(entries))
	for _, entry := range entries {
		installed[entities.NormalizePackageName(entry.Name)] = entry.Version
	}
	return installed, nil
}

// SanitizeInstallerEnv returns environ without the proxy and CA bundle variables, in any case.
func SanitizeInstallerEnv(environ []string) []string {
	sanitized := make([]string, 0, len(environ))
	for _, entry := range environ {
		name, _, _ := strings.Cut(entry, "=")
		if blockedInstallerEnv[strings.ToUpper(name)] {
			continue
		}
		sanitized = append(sanitized, entry)
	}
	return sanitized
}
