package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	slogGorm "github.com/orandin/slog-gorm"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// GormStore is the durable Store implementation, backed by sqlite or postgres.
type GormStore struct {
	db *gorm.DB
}

var _ Store = (*GormStore)(nil)

func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&Content{}, &ModerationResult{}, &Webhook{}); err != nil {
		return nil, fmt.Errorf("migrating moderation tables: %w", err)
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) CreateContent(ctx context.Context, content *Content) error {
	return s.db.WithContext(ctx).Create(content).Error
}

func (s *GormStore) GetContent(ctx context.Context, id int64) (*Content, error) {
	var content Content
	err := s.db.WithContext(ctx).First(&content, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &content, nil
}

func (s *GormStore) SaveContent(ctx context.Context, content *Content) error {
	return s.db.WithContext(ctx).Save(content).Error
}

func (s *GormStore) FinalizeRun(ctx context.Context, content *Content, results []*ModerationResult) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("content_id = ?", content.ID).Delete(&ModerationResult{}).Error; err != nil {
			return err
		}
		if len(results) > 0 {
			if err := tx.Create(results).Error; err != nil {
				return err
			}
		}
		return tx.Save(content).Error
	})
}

func (s *GormStore) GetResults(ctx context.Context, contentID int64) ([]*ModerationResult, error) {
	var results []*ModerationResult
	if err := s.db.WithContext(ctx).Where("content_id = ?", contentID).Order("id").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (s *GormStore) GetWebhook(ctx context.Context, sourceApp string) (*Webhook, error) {
	var hook Webhook
	err := s.db.WithContext(ctx).Where("source_app = ?", sourceApp).First(&hook).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &hook, nil
}

func (s *GormStore) PutWebhook(ctx context.Context, hook *Webhook) error {
	existing, err := s.GetWebhook(ctx, hook.SourceApp)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	if existing != nil {
		hook.ID = existing.ID
	}
	return s.db.WithContext(ctx).Save(hook).Error
}

// SetupDatabase opens a gorm connection from a URL-style connection string,
// either "sqlite://<path>" or "postgres://..." / "postgresql://...".
func SetupDatabase(dburl string, maxConnections int) (*gorm.DB, error) {
	var dial gorm.Dialector

	isSqlite := false
	openConns := maxConnections
	if strings.HasPrefix(dburl, "sqlite://") {
		sqliteSuffix := dburl[len("sqlite://"):]
		// if this isn't ":memory:", ensure that directory exists (eg, if db
		// file is being initialized)
		if !strings.Contains(sqliteSuffix, ":?") {
			os.MkdirAll(filepath.Dir(sqliteSuffix), os.ModePerm)
		}
		dial = sqlite.Open(sqliteSuffix)
		openConns = 1
		isSqlite = true
	} else if strings.HasPrefix(dburl, "postgresql://") || strings.HasPrefix(dburl, "postgres://") {
		// can pass entire URL, with prefix, to gorm driver
		dial = postgres.Open(dburl)
	} else {
		return nil, fmt.Errorf("unsupported or unrecognized DATABASE_URL value: %s", dburl)
	}

	gormLogger := slogGorm.New()

	db, err := gorm.Open(dial, &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 gormLogger,
	})
	if err != nil {
		return nil, err
	}

	sqldb, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqldb.SetMaxIdleConns(80)
	sqldb.SetMaxOpenConns(openConns)
	sqldb.SetConnMaxIdleTime(time.Hour)

	if isSqlite {
		// sqlite doesn't tolerate concurrent writers
		db.Exec("PRAGMA journal_mode=WAL;")
		db.Exec("PRAGMA synchronous=normal;")
	}

	return db, nil
}
