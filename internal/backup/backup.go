package backup

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dmitrijs2005/propkeeper/internal/common"
	"github.com/dmitrijs2005/propkeeper/internal/dbx"
	"github.com/dmitrijs2005/propkeeper/internal/filex"
	"github.com/dmitrijs2005/propkeeper/internal/logging"
	"github.com/google/uuid"
)

const encryptedSuffix = ".encrypted"

var now = time.Now

// Recorder writes an audit entry. *vault.Vault satisfies it.
type Recorder interface {
	LogActivity(ctx context.Context, action, details string) bool
}

// Options configures a Service.
type Options struct {
	DB       *sql.DB
	Dialect  dbx.Dialect
	Dir      string
	Name     string
	Roots    []string
	KeyPath  string
	Prefix   string
	Uploader Uploader
	Recorder Recorder
	Logger   logging.Logger
}

type Service struct {
	db       *sql.DB
	dialect  dbx.Dialect
	dir      string
	name     string
	roots    []string
	keyPath  string
	prefix   string
	uploader Uploader
	recorder Recorder
	log      logging.Logger
}

func NewService(o Options) *Service {
	name := o.Name
	if name == "" {
		name = "propvault"
	}
	return &Service{
		db:       o.DB,
		dialect:  o.Dialect,
		dir:      o.Dir,
		name:     name,
		roots:    o.Roots,
		keyPath:  o.KeyPath,
		prefix:   o.Prefix,
		uploader: o.Uploader,
		recorder: o.Recorder,
		log:      o.Logger,
	}
}

// Snapshot writes a consistent copy of the SQLite database to
// <dir>/<name>_<timestamp>.db and returns its path.
func (s *Service) Snapshot(ctx context.Context) (string, error) {
	if s.dialect != dbx.DialectSQLite {
		return "", common.WithKind(common.KindConfig,
			fmt.Errorf("snapshots are only supported for sqlite; back up %s with its own tooling", s.dialect))
	}
	if err := filex.EnsureDir(s.dir, 0o700); err != nil {
		return "", err
	}

	dst := filepath.Join(s.dir, fmt.Sprintf("%s_%s.db", s.name, now().Format("20060102_150405")))
	if _, err := os.Stat(dst); err == nil {
		dst = filepath.Join(s.dir, fmt.Sprintf("%s_%s_%s.db", s.name, now().Format("20060102_150405"), uuid.NewString()[:8]))
	}

	if _, err := s.db.ExecContext(ctx, `VACUUM INTO ?`, dst); err != nil {
		return "", common.WithKind(common.KindDatabase, fmt.Errorf("vacuum into %s: %w", dst, err))
	}

	s.log.Info(ctx, "database snapshot written", "file", dst)
	s.record(ctx, "Backup Snapshot", filepath.Base(dst))
	return dst, nil
}

// Report summarises a mirror run.
type Report struct {
	Prefix  string
	Objects int
	Bytes   int64
}

// Mirror uploads snapshot (if not empty) and every encrypted document under
// the storage roots to a fresh prefix. The key file is never sent.
func (s *Service) Mirror(ctx context.Context, snapshot string) (Report, error) {
	if s.uploader == nil {
		return Report{}, common.WithKind(common.KindConfig, errors.New("no object storage configured"))
	}

	rep := Report{Prefix: s.runPrefix()}

	if snapshot != "" {
		if err := s.put(ctx, &rep, snapshot, path.Join("database", filepath.Base(snapshot))); err != nil {
			return rep, err
		}
	}

	files, err := s.EncryptedFiles()
	if err != nil {
		return rep, err
	}
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		if err := s.put(ctx, &rep, f.Path, path.Join("documents", f.Key)); err != nil {
			return rep, err
		}
	}

	s.log.Info(ctx, "mirror complete", "prefix", rep.Prefix, "objects", rep.Objects, "bytes", rep.Bytes)
	s.record(ctx, "Backup Mirror", fmt.Sprintf("%d objects to %s", rep.Objects, rep.Prefix))
	return rep, nil
}

func (s *Service) runPrefix() string {
	p := s.prefix
	if p != "" && !strings.HasSuffix(p, "/") {
		p += "/"
	}
	return p + now().Format("20060102_150405") + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8] + "/"
}

func (s *Service) put(ctx context.Context, rep *Report, file, key string) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	if err := s.uploader.Upload(ctx, rep.Prefix+key, f, info.Size()); err != nil {
		return err
	}
	rep.Objects++
	rep.Bytes += info.Size()
	return nil
}

// File is an encrypted document found on disk. Key is its slash-separated
// path below the storage roots' parent, e.g. "tenants/3_Jane_Doe/x.encrypted".
type File struct {
	Path string
	Key  string
}

// EncryptedFiles lists every *.encrypted file below the storage roots,
// sorted by key. Missing roots are skipped.
func (s *Service) EncryptedFiles() ([]File, error) {
	keyAbs, _ := filepath.Abs(s.keyPath)

	var files []File
	for _, root := range s.roots {
		err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) && p == root {
					return filepath.SkipDir
				}
				return err
			}
			if !d.Type().IsRegular() || !strings.HasSuffix(d.Name(), encryptedSuffix) {
				return nil
			}
			if abs, _ := filepath.Abs(p); abs == keyAbs {
				return nil
			}
			rel, err := filepath.Rel(root, p)
			if err != nil {
				return err
			}
			files = append(files, File{Path: p, Key: path.Join(filepath.Base(root), filepath.ToSlash(rel))})
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", root, err)
		}
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Key < files[j].Key })
	return files, nil
}

func (s *Service) record(ctx context.Context, action, details string) {
	if s.recorder != nil {
		s.recorder.LogActivity(ctx, action, details)
	}
}
