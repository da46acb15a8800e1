package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/quentel/fitflow/pkg/domain"
)

// ArtifactStore implements ports.ArtifactStore, writing rendered plan
// documents into a directory. A second write under the same name
// overwrites the prior artifact.
type ArtifactStore struct {
	Dir string
}

// NewArtifactStore creates an ArtifactStore rooted at dir (default ".").
func NewArtifactStore(dir string) *ArtifactStore {
	if dir == "" {
		dir = "."
	}
	return &ArtifactStore{Dir: dir}
}

// Write stores the artifact atomically and returns a user-facing message.
func (a *ArtifactStore) Write(ctx context.Context, name string, content []byte) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%w: artifact name cannot be empty", domain.ErrPersistence)
	}

	if err := os.MkdirAll(a.Dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}

	destPath := filepath.Join(a.Dir, name)
	if err := atomicWrite(a.Dir, destPath, content); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	return fmt.Sprintf("Successfully saved plan to %s", destPath), nil
}

// Path returns where an artifact of the given name would be written.
func (a *ArtifactStore) Path(name string) string {
	return filepath.Join(a.Dir, name)
}
