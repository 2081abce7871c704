package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"

	"github.com/dmitrijs2005/propkeeper/internal/backup"
	"github.com/dmitrijs2005/propkeeper/internal/config"
	"github.com/dmitrijs2005/propkeeper/internal/cryptox"
	"github.com/dmitrijs2005/propkeeper/internal/dbx"
	"github.com/dmitrijs2005/propkeeper/internal/logging"
	"github.com/dmitrijs2005/propkeeper/internal/migrations"
	"github.com/dmitrijs2005/propkeeper/internal/models"
	"github.com/dmitrijs2005/propkeeper/internal/repositories/activity"
	"github.com/dmitrijs2005/propkeeper/internal/repositories/documents"
	"github.com/dmitrijs2005/propkeeper/internal/repositories/entities"
	"github.com/dmitrijs2005/propkeeper/internal/repositories/folders"
	"github.com/dmitrijs2005/propkeeper/internal/repositories/images"
	"github.com/dmitrijs2005/propkeeper/internal/vault"
)

// App holds everything a command needs. It is built once per invocation.
type App struct {
	config   *config.Config
	log      logging.Logger
	db       *sql.DB
	dialect  dbx.Dialect
	keys     *cryptox.KeyStore
	vault    *vault.Vault
	images   *vault.ImageStore
	entities entities.Repository
	activity activity.Repository
	out      io.Writer
	reader   *bufio.Reader
}

// NewApp bootstraps storage, opens the database and applies migrations.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger, in io.Reader, out io.Writer) (*App, error) {
	preview := vault.NewPreviewManager(cfg.TempPreviewDir, log)
	keys := cryptox.NewKeyStore(cfg.KeyPath)

	if err := vault.Bootstrap(ctx, keys, preview, cfg.Dirs(), log); err != nil {
		return nil, err
	}

	db, dialect, err := dbx.Open(ctx, cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	if err := migrations.Up(ctx, db, dialect); err != nil {
		_ = db.Close()
		return nil, err
	}

	conn := dbx.Bind(db, dialect)

	ents := entities.NewSQLRepository(conn)
	acts := activity.NewSQLRepository(conn)
	namer := vault.NewFolderNamer(ents, folders.NewSQLRepository(conn), log)

	store := vault.NewStore(vault.Deps{
		Keys:      keys,
		Documents: documents.NewSQLRepository(conn),
		Activity:  acts,
		Folders:   namer,
		Preview:   preview,
		Roots:     cfg.StorageRoots(),
		Actor:     cfg.Actor,
		Logger:    log,
	})

	return &App{
		config:   cfg,
		log:      log,
		db:       db,
		dialect:  dialect,
		keys:     keys,
		vault:    vault.New(store, log),
		images:   vault.NewImageStore(cfg.PropertiesDir, namer, images.NewSQLRepository(conn), log),
		entities: ents,
		activity: acts,
		out:      out,
		reader:   bufio.NewReader(in),
	}, nil
}

// Close sweeps registered previews and closes the database.
func (a *App) Close(ctx context.Context) {
	if n := a.vault.Preview().Sweep(ctx); n > 0 {
		a.log.Debug(ctx, "previews removed on exit", "count", n)
	}
	if err := a.db.Close(); err != nil {
		a.log.Warn(ctx, "error closing database", "err", err)
	}
}

func (a *App) backupService(ctx context.Context, mirror bool) (*backup.Service, error) {
	opts := backup.Options{
		DB:       a.db,
		Dialect:  a.dialect,
		Dir:      a.config.BackupDir,
		KeyPath:  a.config.KeyPath,
		Prefix:   a.config.S3Prefix,
		Recorder: a.vault,
		Logger:   a.log,
	}
	for _, t := range models.EntityTypes {
		p, _ := a.config.StoragePath(t)
		opts.Roots = append(opts.Roots, p)
	}

	if mirror {
		up, err := newUploader(ctx, backup.S3Options{
			Bucket:       a.config.S3Bucket,
			Region:       a.config.S3Region,
			BaseEndpoint: a.config.S3BaseEndpoint,
			AccessKey:    a.config.S3AccessKey,
			SecretKey:    a.config.S3SecretKey,
		})
		if err != nil {
			return nil, err
		}
		opts.Uploader = up
	}
	return backup.NewService(opts), nil
}

// newUploader is a test seam.
var newUploader = func(ctx context.Context, o backup.S3Options) (backup.Uploader, error) {
	return backup.NewS3Uploader(ctx, o)
}
