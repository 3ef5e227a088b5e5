package commands

import (
	"context"
	"fmt"
	"sort"
	"sync"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/robotremote/internal/domain/entities"
	"github.com/rios0rios0/robotremote/internal/domain/repositories"
)

// Reconcile is the interface for the package reconciler.
type Reconcile interface {
	Execute(ctx context.Context, request ReconcileRequest, log *logger.Entry) ([]entities.InstallDecision, error)
}

// ReconcileRequest is the input of one reconciliation.
type ReconcileRequest struct {
	Packages       map[string]string // import reference -> package spec
	Policy         entities.UpgradePolicy
	EnforceUpgrade bool
}

// ReconcileCommand installs the declared packages a run needs. Installing changes the
// interpreter shared by every run, so reconciliations never overlap.
type ReconcileCommand struct {
	packages repositories.PackageRepository
	mu       sync.Mutex
}

// NewReconcileCommand creates a new ReconcileCommand.
func NewReconcileCommand(packages repositories.PackageRepository) *ReconcileCommand {
	return &ReconcileCommand{packages: packages}
}

// Execute decides which packages must be installed and installs them in a single batch.
func (it *ReconcileCommand) Execute(
	ctx context.Context,
	request ReconcileRequest,
	log *logger.Entry,
) ([]entities.InstallDecision, error) {
	if len(request.Packages) == 0 {
		return nil, nil
	}
	if request.Policy == entities.PolicyNever {
		log.Infof("[packages] Upgrade policy is %q, skipping %d packages", request.Policy, len(request.Packages))
		return nil, nil
	}

	it.mu.Lock()
	defer it.mu.Unlock()

	installed := map[string]string{}
	if request.Policy == entities.PolicyOutdated && !request.EnforceUpgrade {
		var err error
		if installed, err = it.packages.Installed(ctx); err != nil {
			return nil, fmt.Errorf("failed to list installed packages: %w", err)
		}
	}

	decisions, err := Decide(request.Packages, request.Policy, request.EnforceUpgrade, installed)
	if err != nil {
		return nil, err
	}

	specs := SpecsToInstall(decisions)
	for _, decision := range decisions {
		log.Debugf("[packages] %s: install=%t (%s)", decision.Spec, decision.MustInstall, decision.Reason)
	}
	if len(specs) == 0 {
		log.Info("[packages] All packages are up to date")
		return decisions, nil
	}

	upgrade := request.EnforceUpgrade || request.Policy == entities.PolicyAlways
	log.Infof("[packages] Installing %v (upgrade=%t)", specs, upgrade)
	if installErr := it.packages.Install(ctx, specs, upgrade); installErr != nil {
		return decisions, fmt.Errorf("%w: %w", entities.ErrInstallFailed, installErr)
	}

	return decisions, nil
}

// Decide computes the install decision of every declared package. It does not touch the
// environment, so the same input always yields the same decisions.
func Decide(
	packages map[string]string,
	policy entities.UpgradePolicy,
	enforce bool,
	installed map[string]string,
) ([]entities.InstallDecision, error) {
	references := make([]string, 0, len(packages))
	for reference := range packages {
		references = append(references, reference)
	}
	sort.Strings(references)

	decisions := make([]entities.InstallDecision, 0, len(references))
	for _, reference := range references {
		spec, err := entities.ParsePackageSpec(packages[reference])
		if err != nil {
			return nil, fmt.Errorf("package for %q: %w", reference, err)
		}

		decision := entities.InstallDecision{
			Reference: reference,
			Spec:      spec,
			Installed: installed[spec.NormalizedName()],
		}
		decision.MustInstall, decision.Reason = decide(spec, decision.Installed, policy, enforce)
		decisions = append(decisions, decision)
	}

	return decisions, nil
}

func decide(spec entities.PackageSpec, installed string, policy entities.UpgradePolicy, enforce bool) (bool, string) {
	switch {
	case policy == entities.PolicyNever:
		return false, "policy never"
	case enforce:
		return true, "upgrade enforced by client"
	case policy == entities.PolicyAlways:
		return true, "policy always"
	case installed == "":
		return true, "not installed"
	}

	satisfied, conclusive := spec.SatisfiedBy(installed)
	switch {
	case !conclusive:
		return false, fmt.Sprintf("installed %s cannot be compared, keeping it", installed)
	case satisfied:
		return false, fmt.Sprintf("installed %s satisfies the requirement", installed)
	default:
		return true, fmt.Sprintf("installed %s is outdated", installed)
	}
}

// SpecsToInstall returns the distinct specs of the decisions that require an install.
func SpecsToInstall(decisions []entities.InstallDecision) []string {
	seen := map[string]bool{}
	var specs []string
	for _, decision := range decisions {
		spec := decision.Spec.String()
		if decision.MustInstall && !seen[spec] {
			seen[spec] = true
			specs = append(specs, spec)
		}
	}
	return specs
}
