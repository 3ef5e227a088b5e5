package repositories

import (
	"context"

	"github.com/rios0rios0/robotremote/internal/domain/entities"
)

// SuiteRepository builds the suite hierarchy the crawler walks.
type SuiteRepository interface {
	BuildTree(ctx context.Context, inputDirs []string, extensions []string) (*entities.SuiteNode, error)
}
