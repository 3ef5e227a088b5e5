package entities

import (
	"fmt"
	"strings"
)

// UpgradePolicy is the server rule for installing declared packages before a run.
type UpgradePolicy string

const (
	// PolicyNever skips package reconciliation, even when the client enforces upgrades.
	PolicyNever UpgradePolicy = "never"
	// PolicyOutdated installs packages that are missing or fail their version check.
	PolicyOutdated UpgradePolicy = "outdated"
	// PolicyAlways installs or upgrades every declared package.
	PolicyAlways UpgradePolicy = "always"
)

// ParseUpgradePolicy accepts the policy name in any case. Empty means PolicyOutdated.
func ParseUpgradePolicy(raw string) (UpgradePolicy, error) {
	switch UpgradePolicy(strings.ToLower(strings.TrimSpace(raw))) {
	case "", PolicyOutdated:
		return PolicyOutdated, nil
	case PolicyNever:
		return PolicyNever, nil
	case PolicyAlways:
		return PolicyAlways, nil
	default:
		return "", fmt.Errorf("%w: %q (expected never, outdated or always)", ErrUnknownPolicy, raw)
	}
}

// InstallDecision is the reconciliation outcome for one declared package.
type InstallDecision struct {
	Reference   string // import path the requirement was declared on
	Spec        PackageSpec
	Installed   string // installed version, empty when absent
	MustInstall bool
	Reason      string
}
