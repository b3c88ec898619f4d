package RecordDB

import (
	"log/slog"
	"strings"

	"github.com/nickyhof/RecordDB/config"
	"github.com/nickyhof/RecordDB/db"
	"github.com/nickyhof/RecordDB/ps"
)

// Instance carries the resources shared by every database opened from one
// configuration: the session storage, the archive and the logger.
type Instance struct {
	Config  *config.Config
	Storage *db.Storage
	Archive *ps.Persistence
	Logger  *slog.Logger
}

// Open prepares an Instance. The archive lives in cfg.ArchiveDir, or in
// memory when no directory is configured.
func Open(cfg *config.Config, logger *slog.Logger) (*Instance, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var archive *ps.Persistence
	var err error
	if cfg.ArchiveDir == "" {
		archive, err = ps.NewMemoryPersistence()
	} else {
		archive, err = ps.NewFilePersistence(cfg.ArchiveDir)
	}
	if err != nil {
		return nil, err
	}

	storage := db.NewStorage()
	storage.Archive = archive
	storage.Identity = cfg.Identity
	storage.S3 = db.S3Config{
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
		Region:    cfg.S3.Region,
		Endpoint:  cfg.S3.Endpoint,
	}

	logger.Debug("instance opened", "key", cfg.Key, "archive", cfg.ArchiveDir, "replay", cfg.Replay)

	return &Instance{
		Config:  cfg,
		Storage: storage,
		Archive: archive,
		Logger:  logger,
	}, nil
}

// Database creates an empty database with the configured key kind.
func (instance *Instance) Database() (*db.AnyDatabase, error) {
	policy, err := db.ParseReplayPolicy(instance.Config.Replay)
	if err != nil {
		return nil, err
	}
	return db.OpenAnyDatabase(instance.Config.Key,
		db.WithLogger(instance.Logger),
		db.WithStorage(instance.Storage),
		db.WithReplayPolicy(policy),
	)
}

// History lists the archive revisions of a session file, newest first. The
// path may carry the "repo:" prefix used by SAVE_AS.
func (instance *Instance) History(path string) ([]ps.Transaction, error) {
	return instance.Archive.History(strings.TrimPrefix(path, "repo:"))
}
