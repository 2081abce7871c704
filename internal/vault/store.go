package vault

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/propkeeper/internal/common"
	"github.com/dmitrijs2005/propkeeper/internal/cryptox"
	"github.com/dmitrijs2005/propkeeper/internal/filex"
	"github.com/dmitrijs2005/propkeeper/internal/logging"
	"github.com/dmitrijs2005/propkeeper/internal/models"
	"github.com/dmitrijs2005/propkeeper/internal/repositories/activity"
	"github.com/dmitrijs2005/propkeeper/internal/repositories/documents"
	"github.com/google/uuid"
)

// Activity actions written by the store.
const (
	ActionUpload       = "Document Upload"
	ActionDelete       = "Document Delete"
	ActionEntityDelete = "Entity Documents Delete"
)

var (
	now      = time.Now
	newToken = func() string { return strings.ReplaceAll(uuid.NewString(), "-", "")[:8] }
)

// Roots maps each entity type to its storage directory.
type Roots map[models.EntityType]string

// UploadRequest describes one document upload.
type UploadRequest struct {
	EntityType models.EntityType
	EntityID   int64
	Name       string
	Type       string
	ExpiryDate *string
	SourcePath string
}

// Deps groups Store collaborators.
type Deps struct {
	Keys      *cryptox.KeyStore
	Documents documents.Repository
	Activity  activity.Repository
	Folders   *FolderNamer
	Preview   *PreviewManager
	Roots     Roots
	Actor     string
	Logger    logging.Logger
}

// Store implements the vault operations with typed errors.
type Store struct {
	keys     *cryptox.KeyStore
	docs     documents.Repository
	activity activity.Repository
	folders  *FolderNamer
	preview  *PreviewManager
	roots    Roots
	actor    string
	log      logging.Logger
}

// NewStore builds a Store. An empty Actor defaults to "admin".
func NewStore(d Deps) *Store {
	actor := d.Actor
	if actor == "" {
		actor = "admin"
	}
	return &Store{
		keys:     d.Keys,
		docs:     d.Documents,
		activity: d.Activity,
		folders:  d.Folders,
		preview:  d.Preview,
		roots:    d.Roots,
		actor:    actor,
		log:      d.Logger,
	}
}

// Preview returns the scratch directory manager.
func (s *Store) Preview() *PreviewManager { return s.preview }

// Folders returns the entity folder namer.
func (s *Store) Folders() *FolderNamer { return s.folders }

func (s *Store) root(t models.EntityType) (string, error) {
	if !t.Valid() {
		return "", common.WithKind(common.KindInvalid, fmt.Errorf("%w: %q", common.ErrUnknownEntityType, t))
	}
	root, ok := s.roots[t]
	if !ok || root == "" {
		return "", common.WithKind(common.KindConfig, fmt.Errorf("no storage root configured for %s", t))
	}
	return root, nil
}

// EntityDir returns the resolved folder for an entity without creating it.
func (s *Store) EntityDir(ctx context.Context, t models.EntityType, id int64) (string, error) {
	root, err := s.root(t)
	if err != nil {
		return "", err
	}
	folder, err := s.folders.Resolve(ctx, t, id)
	if err != nil {
		return "", err
	}
	return filepath.Join(root, folder), nil
}

func (s *Store) documentPath(ctx context.Context, t models.EntityType, id int64, filename string) (string, error) {
	if filename == "" || filename != filepath.Base(filename) || filename == "." || filename == ".." {
		return "", common.WithKind(common.KindInvalid, fmt.Errorf("invalid stored filename %q", filename))
	}
	dir, err := s.EntityDir(ctx, t, id)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, filename), nil
}

// StoredFilename names the encrypted copy of base uploaded with mtime. When
// that name is taken in dir a random token is inserted after the timestamp.
func StoredFilename(dir string, mtime time.Time, base string) string {
	name := fmt.Sprintf("%d_%s%s", mtime.Unix(), base, EncryptedSuffix)
	if !filex.Exists(filepath.Join(dir, name)) {
		return name
	}
	return fmt.Sprintf("%d_%s_%s%s", mtime.Unix(), newToken(), base, EncryptedSuffix)
}

// Upload encrypts the source file into the entity folder and records it.
func (s *Store) Upload(ctx context.Context, req UploadRequest) (*models.Document, error) {
	root, err := s.root(req.EntityType)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(req.SourcePath)
	if err != nil {
		return nil, fmt.Errorf("source file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return nil, common.WithKind(common.KindInvalid, fmt.Errorf("source %s is not a regular file", req.SourcePath))
	}

	codec, err := s.keys.Codec()
	if err != nil {
		return nil, err
	}

	place, err := s.folders.Place(ctx, req.EntityType, req.EntityID)
	if err != nil {
		return nil, err
	}

	dir := filepath.Join(root, place.Folder)
	created := !filex.Exists(dir)
	if err := filex.EnsureDir(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create entity folder: %w", err)
	}

	stored := StoredFilename(dir, info.ModTime(), filepath.Base(req.SourcePath))
	dst := filepath.Join(dir, stored)

	if err := codec.EncryptFile(req.SourcePath, dst); err != nil {
		s.discard(ctx, dst, dir, created)
		return nil, err
	}

	doc := &models.Document{
		EntityType:     req.EntityType,
		EntityID:       req.EntityID,
		Name:           req.Name,
		Type:           req.Type,
		StoredFilename: stored,
		UploadedDate:   models.FormatDate(now()),
		ExpiryDate:     req.ExpiryDate,
	}

	if _, err := s.docs.Insert(ctx, doc); err != nil {
		s.discard(ctx, dst, dir, created)
		return nil, common.WithKind(common.KindDatabase, err)
	}

	if err := s.folders.Commit(ctx, req.EntityType, req.EntityID, place); err != nil {
		s.log.Warn(ctx, "could not pin entity folder", "entity_type", req.EntityType, "entity_id", req.EntityID, "err", err)
	}

	s.log.Info(ctx, "document uploaded", "entity_type", req.EntityType, "entity_id", req.EntityID, "file", stored)

	details := fmt.Sprintf("%s uploaded for %s %d", req.Name, req.EntityType, req.EntityID)
	if err := s.LogActivity(ctx, ActionUpload, details); err != nil {
		s.log.Warn(ctx, "activity log failed", "action", ActionUpload, "err", err)
	}

	return doc, nil
}

// Documents lists the entity's records. Unknown entities have none.
func (s *Store) Documents(ctx context.Context, t models.EntityType, id int64) ([]*models.Document, error) {
	if !t.Valid() {
		return nil, common.WithKind(common.KindInvalid, fmt.Errorf("%w: %q", common.ErrUnknownEntityType, t))
	}
	docs, err := s.docs.ListByEntity(ctx, t, id)
	if err != nil {
		return nil, common.WithKind(common.KindDatabase, err)
	}
	return docs, nil
}

// Delete removes the backing file, if any, and the record. Deleting
// something already gone succeeds.
func (s *Store) Delete(ctx context.Context, t models.EntityType, id int64, filename string) error {
	path, err := s.documentPath(ctx, t, id, filename)
	if err != nil {
		return err
	}

	removed, err := filex.RemoveIfExists(path)
	if err != nil {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	if !removed {
		s.log.Debug(ctx, "backing file already gone", "file", path)
	}

	if _, err := s.docs.DeleteByFilename(ctx, t, id, filename); err != nil {
		return common.WithKind(common.KindDatabase, err)
	}

	details := fmt.Sprintf("%s removed from %s %d", filename, t, id)
	if err := s.LogActivity(ctx, ActionDelete, details); err != nil {
		s.log.Warn(ctx, "activity log failed", "action", ActionDelete, "err", err)
	}
	return nil
}

// DecryptToTemp writes the plaintext of a stored document into the preview
// directory and returns its path. A missing encrypted file is KindNotFound.
// The caller decides whether to Register the result for cleanup.
func (s *Store) DecryptToTemp(ctx context.Context, t models.EntityType, id int64, filename string) (string, error) {
	src, err := s.documentPath(ctx, t, id, filename)
	if err != nil {
		return "", err
	}
	if !filex.Exists(src) {
		return "", common.WithKind(common.KindNotFound, fmt.Errorf("%s: %w", src, common.ErrNotFound))
	}

	if err := s.preview.EnsureDir(); err != nil {
		return "", fmt.Errorf("failed to create preview dir: %w", err)
	}
	if _, err := s.preview.Purge(ctx); err != nil {
		s.log.Warn(ctx, "preview purge failed", "err", err)
	}

	codec, err := s.keys.Codec()
	if err != nil {
		return "", err
	}

	dst := s.preview.PathFor(filename)
	if err := codec.DecryptFile(src, dst); err != nil {
		return "", err
	}
	return dst, nil
}

// LogActivity appends an audit row as the configured actor.
func (s *Store) LogActivity(ctx context.Context, action, details string) error {
	_, err := s.activity.Insert(ctx, &models.ActivityLog{
		User:      s.actor,
		Action:    action,
		Details:   details,
		Timestamp: now().Format(models.TimestampLayout),
	})
	if err != nil {
		return common.WithKind(common.KindDatabase, err)
	}
	return nil
}

// DeleteEntityDocuments removes every document file and row of an entity and
// forgets its pinned folder. Call it before deleting the entity itself.
func (s *Store) DeleteEntityDocuments(ctx context.Context, t models.EntityType, id int64) (int, error) {
	dir, err := s.EntityDir(ctx, t, id)
	if err != nil {
		return 0, err
	}

	docs, err := s.docs.ListByEntity(ctx, t, id)
	if err != nil {
		return 0, common.WithKind(common.KindDatabase, err)
	}

	var errs []error
	for _, d := range docs {
		if _, err := filex.RemoveIfExists(filepath.Join(dir, filepath.Base(d.StoredFilename))); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return 0, fmt.Errorf("failed to remove document files: %w", errors.Join(errs...))
	}

	n, err := s.docs.DeleteByEntity(ctx, t, id)
	if err != nil {
		return 0, common.WithKind(common.KindDatabase, err)
	}

	// the folder may still hold property images; leave it then
	removeEmptyDir(ctx, s.log, dir)

	if err := s.folders.Unpin(ctx, t, id); err != nil {
		s.log.Warn(ctx, "could not unpin folder", "entity_type", t, "entity_id", id, "err", err)
	}

	details := fmt.Sprintf("%d documents removed from %s %d", n, t, id)
	if err := s.LogActivity(ctx, ActionEntityDelete, details); err != nil {
		s.log.Warn(ctx, "activity log failed", "action", ActionEntityDelete, "err", err)
	}
	return int(n), nil
}

// discard undoes a failed write. dir goes too when this call created it.
func (s *Store) discard(ctx context.Context, file, dir string, createdDir bool) {
	if _, err := filex.RemoveIfExists(file); err != nil {
		s.log.Warn(ctx, "could not remove orphaned upload", "file", file, "err", err)
	}
	if createdDir {
		removeEmptyDir(ctx, s.log, dir)
	}
}

// removeEmptyDir removes dir if it is empty. Missing and non-empty dirs are
// left alone.
func removeEmptyDir(ctx context.Context, log logging.Logger, dir string) {
	err := os.Remove(dir)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return
	}
	if entries, rerr := os.ReadDir(dir); rerr == nil && len(entries) > 0 {
		return
	}
	log.Debug(ctx, "could not remove folder", "dir", dir, "err", err)
}

// CheckUploadSize fails with common.ErrFileTooLarge when path is larger than
// maxMB megabytes. maxMB <= 0 disables the check.
func CheckUploadSize(path string, maxMB int) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if maxMB > 0 && info.Size() > int64(maxMB)*1024*1024 {
		return fmt.Errorf("%w: %s is %d bytes, limit is %d MB", common.ErrFileTooLarge, filepath.Base(path), info.Size(), maxMB)
	}
	return nil
}
