package repositories

import "context"

// PackageRepository abstracts the third-party package manager of the execution environment.
type PackageRepository interface {
	// Installed returns the installed packages keyed by normalized name, valued by version.
	Installed(ctx context.Context) (map[string]string, error)

	// Install installs all specs in one batched invocation.
	Install(ctx context.Context, specs []string, upgrade bool) error
}
