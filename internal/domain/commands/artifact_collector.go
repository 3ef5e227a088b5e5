package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/rios0rios0/robotremote/internal/domain/entities"
	"github.com/rios0rios0/robotremote/internal/domain/repositories"
)

// ArtifactCollector reads the engine output files from a workspace.
type ArtifactCollector struct {
	files repositories.FileRepository
}

// NewArtifactCollector creates a new ArtifactCollector.
func NewArtifactCollector(files repositories.FileRepository) *ArtifactCollector {
	return &ArtifactCollector{files: files}
}

// Collect returns the output, log and report artifacts of root. A file the engine did not
// produce yields an empty payload.
func (it *ArtifactCollector) Collect(root string) (entities.Artifacts, error) {
	var artifacts entities.Artifacts
	targets := []struct {
		name string
		into *[]byte
	}{
		{entities.OutputArtifactName, &artifacts.OutputXML},
		{entities.LogArtifactName, &artifacts.LogHTML},
		{entities.ReportArtifactName, &artifacts.ReportHTML},
	}

	for _, target := range targets {
		content, err := it.files.ReadText(filepath.Join(root, target.name))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				*target.into = []byte{}
				continue
			}
			return entities.Artifacts{}, fmt.Errorf("failed to read %s: %w", target.name, err)
		}
		*target.into = []byte(content)
	}

	return artifacts, nil
}
