package vault

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dmitrijs2005/propkeeper/internal/filex"
	"github.com/dmitrijs2005/propkeeper/internal/logging"
)

// EncryptedSuffix ends every stored document filename.
const EncryptedSuffix = ".encrypted"

// removeFile is swapped in tests to simulate files held open by a viewer.
var removeFile = os.Remove

// PreviewManager owns the shared scratch directory that holds decrypted
// copies and the list of paths to sweep at exit.
type PreviewManager struct {
	dir string
	log logging.Logger

	mu         sync.Mutex
	registered []string
}

// NewPreviewManager manages the scratch directory dir.
func NewPreviewManager(dir string, log logging.Logger) *PreviewManager {
	return &PreviewManager{dir: dir, log: log}
}

func (p *PreviewManager) Dir() string { return p.dir }

// EnsureDir creates the scratch directory if it is missing.
func (p *PreviewManager) EnsureDir() error {
	return filex.EnsureDir(p.dir, 0o700)
}

// PathFor is where a stored file decrypts to: its base name without the
// .encrypted suffix.
func (p *PreviewManager) PathFor(storedFilename string) string {
	return filepath.Join(p.dir, strings.TrimSuffix(filepath.Base(storedFilename), EncryptedSuffix))
}

// Purge removes every regular file directly inside the scratch directory.
// Files that cannot be removed are logged and skipped. A missing directory
// is not an error.
func (p *PreviewManager) Purge(ctx context.Context) (int, error) {
	entries, err := os.ReadDir(p.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		path := filepath.Join(p.dir, e.Name())
		if err := removeFile(path); err != nil {
			p.log.Warn(ctx, "could not remove preview file", "file", path, "err", err)
			continue
		}
		removed++
	}

	p.log.Debug(ctx, "preview dir purged", "dir", p.dir, "removed", removed)
	return removed, nil
}

// Register queues path for removal by Sweep. Paths outside the scratch
// directory are refused.
func (p *PreviewManager) Register(path string) bool {
	if !p.contains(path) {
		return false
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.registered = append(p.registered, path)
	return true
}

// Sweep removes every registered path and clears the list. Failures are
// logged; it returns how many files went.
func (p *PreviewManager) Sweep(ctx context.Context) int {
	p.mu.Lock()
	paths := p.registered
	p.registered = nil
	p.mu.Unlock()

	removed := 0
	for _, path := range paths {
		if err := removeFile(path); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				p.log.Warn(ctx, "could not remove preview file", "file", path, "err", err)
			}
			continue
		}
		removed++
	}
	return removed
}

func (p *PreviewManager) contains(path string) bool {
	dir, err := filepath.Abs(p.dir)
	if err != nil {
		return false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	return filepath.Dir(abs) == dir
}
