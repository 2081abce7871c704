package vault

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/propkeeper/internal/common"
	"github.com/dmitrijs2005/propkeeper/internal/logging"
	"github.com/dmitrijs2005/propkeeper/internal/models"
)

// LabelSource looks up the display label of an entity.
type LabelSource interface {
	Label(ctx context.Context, t models.EntityType, id int64) (string, bool, error)
}

// FolderPins persists the folder name chosen for an entity.
type FolderPins interface {
	Get(ctx context.Context, t models.EntityType, id int64) (string, error)
	Pin(ctx context.Context, t models.EntityType, id int64, name string) (string, error)
	Unpin(ctx context.Context, t models.EntityType, id int64) error
}

// FolderNamer maps entities to their folder names under a storage root.
type FolderNamer struct {
	labels LabelSource
	pins   FolderPins
	log    logging.Logger
}

// NewFolderNamer builds a namer. pins may be nil, in which case every lookup
// is a fresh derivation.
func NewFolderNamer(labels LabelSource, pins FolderPins, log logging.Logger) *FolderNamer {
	return &FolderNamer{labels: labels, pins: pins, log: log}
}

// Sanitize splits label on whitespace, joins the parts with '_' and drops
// every byte outside [A-Za-z0-9_].
func Sanitize(label string) string {
	joined := strings.Join(strings.Fields(label), "_")

	var b strings.Builder
	b.Grow(len(joined))
	for i := 0; i < len(joined); i++ {
		c := joined[i]
		if c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9') {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// FolderName joins id and a sanitized label. An empty label, or one that
// sanitizes to nothing, yields the bare id.
func FolderName(id int64, label string) string {
	s := Sanitize(label)
	if s == "" {
		return strconv.FormatInt(id, 10)
	}
	return strconv.FormatInt(id, 10) + "_" + s
}

// FolderNameFor derives the folder name from the entity's current fields.
// It never fails: a missing entity or a lookup error gives the bare id.
func (n *FolderNamer) FolderNameFor(ctx context.Context, t models.EntityType, id int64) string {
	name, _ := n.derive(ctx, t, id)
	return name
}

// derive reports whether the name came from an existing entity's label
// rather than the bare-id fallback.
func (n *FolderNamer) derive(ctx context.Context, t models.EntityType, id int64) (string, bool) {
	label, ok, err := n.labels.Label(ctx, t, id)
	if err != nil {
		n.log.Warn(ctx, "label lookup failed, using bare id", "entity_type", t, "entity_id", id, "err", err)
		return strconv.FormatInt(id, 10), false
	}
	if !ok {
		return strconv.FormatInt(id, 10), false
	}
	return FolderName(id, label), true
}

// Resolve returns the pinned folder name, or a fresh derivation when nothing
// is pinned yet.
func (n *FolderNamer) Resolve(ctx context.Context, t models.EntityType, id int64) (string, error) {
	p, err := n.Place(ctx, t, id)
	if err != nil {
		return "", err
	}
	return p.Folder, nil
}

// Placement is the folder a new file goes to.
type Placement struct {
	Folder string
	// pin is set when Folder was derived from an existing entity and nothing
	// is pinned yet.
	pin bool
}

// Place resolves the folder for a new file without pinning anything. Call
// Commit once the file is recorded.
func (n *FolderNamer) Place(ctx context.Context, t models.EntityType, id int64) (Placement, error) {
	if n.pins != nil {
		name, err := n.pins.Get(ctx, t, id)
		if err == nil {
			return Placement{Folder: name}, nil
		}
		if !errors.Is(err, common.ErrNotFound) {
			return Placement{}, common.WithKind(common.KindDatabase, err)
		}
	}
	name, derived := n.derive(ctx, t, id)
	return Placement{Folder: name, pin: derived && n.pins != nil}, nil
}

// Commit pins p's folder. The bare-id fallback is never pinned, so an entity
// created later still gets its labelled folder.
func (n *FolderNamer) Commit(ctx context.Context, t models.EntityType, id int64, p Placement) error {
	if !p.pin {
		return nil
	}
	pinned, err := n.pins.Pin(ctx, t, id, p.Folder)
	if err != nil {
		return common.WithKind(common.KindDatabase, err)
	}
	if pinned != p.Folder {
		n.log.Warn(ctx, "entity already pinned to another folder", "entity_type", t, "entity_id", id, "pinned", pinned, "folder", p.Folder)
	}
	return nil
}

// Unpin forgets the pinned name.
func (n *FolderNamer) Unpin(ctx context.Context, t models.EntityType, id int64) error {
	if n.pins == nil {
		return nil
	}
	if err := n.pins.Unpin(ctx, t, id); err != nil {
		return common.WithKind(common.KindDatabase, err)
	}
	return nil
}
