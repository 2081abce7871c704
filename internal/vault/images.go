package vault

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/propkeeper/internal/common"
	"github.com/dmitrijs2005/propkeeper/internal/filex"
	"github.com/dmitrijs2005/propkeeper/internal/logging"
	"github.com/dmitrijs2005/propkeeper/internal/models"
	"github.com/dmitrijs2005/propkeeper/internal/repositories/images"
)

// ImagesDir is the sub-folder of a property folder holding its photos.
const ImagesDir = "property_images"

var imageExtensions = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".bmp": true}

// ImageStore keeps property photos. Photos are copied as-is, not encrypted.
type ImageStore struct {
	root    string
	folders *FolderNamer
	repo    images.Repository
	log     logging.Logger
}

// NewImageStore stores photos under propertiesRoot.
func NewImageStore(propertiesRoot string, folders *FolderNamer, repo images.Repository, log logging.Logger) *ImageStore {
	return &ImageStore{root: propertiesRoot, folders: folders, repo: repo, log: log}
}

// IsImage reports whether path has a supported image extension.
func IsImage(path string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(path))]
}

// Add copies src into the property's image folder and records it.
func (s *ImageStore) Add(ctx context.Context, propertyID int64, src string) (*models.Image, error) {
	if !IsImage(src) {
		return nil, common.WithKind(common.KindInvalid, fmt.Errorf("%s is not a supported image", filepath.Base(src)))
	}

	place, err := s.folders.Place(ctx, models.EntityProperty, propertyID)
	if err != nil {
		return nil, err
	}

	entityDir := filepath.Join(s.root, place.Folder)
	dir := filepath.Join(entityDir, ImagesDir)
	createdEntity, createdImages := !filex.Exists(entityDir), !filex.Exists(dir)
	if err := filex.EnsureDir(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create image folder: %w", err)
	}
	discard := func(file string) {
		if _, err := filex.RemoveIfExists(file); err != nil {
			s.log.Warn(ctx, "could not remove orphaned image", "file", file, "err", err)
		}
		if createdImages {
			removeEmptyDir(ctx, s.log, dir)
		}
		if createdEntity {
			removeEmptyDir(ctx, s.log, entityDir)
		}
	}

	t := now()
	dst := filepath.Join(dir, fmt.Sprintf("%d_%s", t.Unix(), filepath.Base(src)))
	if filex.Exists(dst) {
		dst = filepath.Join(dir, fmt.Sprintf("%d_%s_%s", t.Unix(), newToken(), filepath.Base(src)))
	}

	if err := filex.CopyFile(src, dst, 0o644); err != nil {
		discard(dst)
		return nil, err
	}

	img := &models.Image{PropertyID: propertyID, Path: dst, UploadedDate: models.FormatDate(t)}
	if _, err := s.repo.Insert(ctx, img); err != nil {
		discard(dst)
		return nil, common.WithKind(common.KindDatabase, err)
	}

	if err := s.folders.Commit(ctx, models.EntityProperty, propertyID, place); err != nil {
		s.log.Warn(ctx, "could not pin property folder", "property_id", propertyID, "err", err)
	}

	s.log.Info(ctx, "image added", "property_id", propertyID, "file", dst)
	return img, nil
}

// List returns the property's photos.
func (s *ImageStore) List(ctx context.Context, propertyID int64) ([]*models.Image, error) {
	imgs, err := s.repo.ListByProperty(ctx, propertyID)
	if err != nil {
		return nil, common.WithKind(common.KindDatabase, err)
	}
	return imgs, nil
}

// Delete removes the image file and its row. Unknown ids are KindNotFound.
func (s *ImageStore) Delete(ctx context.Context, propertyID, imageID int64) error {
	imgs, err := s.List(ctx, propertyID)
	if err != nil {
		return err
	}

	for _, img := range imgs {
		if img.ID != imageID {
			continue
		}
		if _, err := filex.RemoveIfExists(img.Path); err != nil {
			return fmt.Errorf("failed to remove %s: %w", img.Path, err)
		}
		if _, err := s.repo.Delete(ctx, imageID); err != nil {
			return common.WithKind(common.KindDatabase, err)
		}
		return nil
	}

	return common.WithKind(common.KindNotFound, fmt.Errorf("image %d: %w", imageID, common.ErrNotFound))
}
