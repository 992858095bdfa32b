// Package repository reads the archived chat record store. The store is
// read-only from the analytics core's perspective: every method is a
// ranged SELECT, and failures surface once per call as ErrStoreUnavailable.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/kapu/vibecheck-analytics-go/internal/config"
	"github.com/kapu/vibecheck-analytics-go/internal/domain"
)

// ErrStoreUnavailable marks a failed record store query.
var ErrStoreUnavailable = errors.New("record store unavailable")

// Repository: GORM-based access to the message/mention archive.
type Repository struct {
	db *gorm.DB
}

// New wraps an existing GORM handle.
func New(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Open connects to the configured record store.
func Open(cfg config.DatabaseConfig) (*Repository, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open record store: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("record store pool: %w", err)
	}
	if cfg.MaxPool > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxPool)
	}
	if cfg.ConnMaxLifetimeMinutes > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)
	}

	return &Repository{db: db}, nil
}

func dialectorFor(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "sqlite", "":
		return sqlite.Open(cfg.SQLitePath), nil
	case "postgres":
		return postgres.Open(cfg.PostgresDSN()), nil
	default:
		return nil, fmt.Errorf("unknown db driver: %s", cfg.Driver)
	}
}

// AutoMigrate creates the archive schema. Used by tests and by collectors
// sharing the store; the analytics core itself never writes.
func (r *Repository) AutoMigrate(ctx context.Context) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("db is nil")
	}
	if err := r.db.WithContext(ctx).AutoMigrate(&Message{}, &Mention{}); err != nil {
		return fmt.Errorf("auto migrate failed: %w", err)
	}
	return nil
}

// Ping verifies the store connection.
func (r *Repository) Ping(ctx context.Context) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("%w: db is nil", ErrStoreUnavailable)
	}
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// Close releases the underlying pool.
func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	sqlDB, err := r.db.DB()
	if err != nil {
		return nil
	}
	return sqlDB.Close()
}

// DB exposes the handle for test seeding.
func (r *Repository) DB() *gorm.DB { return r.db }

// MessagesInRange fetches messages inside the window, oldest first.
// A zero range selects the full history.
func (r *Repository) MessagesInRange(ctx context.Context, window domain.DateRange) ([]domain.MessageRecord, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("%w: db is nil", ErrStoreUnavailable)
	}

	query := r.db.WithContext(ctx).Model(&Message{}).Order("date ASC")
	query = applyWindow(query, window)

	var rows []Message
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: select messages: %v", ErrStoreUnavailable, err)
	}

	records := make([]domain.MessageRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.Record())
	}
	return records, nil
}

// MentionsInRange fetches mentions inside the window, oldest first.
func (r *Repository) MentionsInRange(ctx context.Context, window domain.DateRange) ([]domain.MentionRecord, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("%w: db is nil", ErrStoreUnavailable)
	}

	query := r.db.WithContext(ctx).Model(&Mention{}).Order("date ASC")
	query = applyWindow(query, window)

	var rows []Mention
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: select mentions: %v", ErrStoreUnavailable, err)
	}

	records := make([]domain.MentionRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.Record())
	}
	return records, nil
}

// DateBounds returns the archive's first and last message timestamps.
// ok=false means the archive is empty, which is not an error.
func (r *Repository) DateBounds(ctx context.Context) (minDate time.Time, maxDate time.Time, ok bool, err error) {
	if r == nil || r.db == nil {
		return time.Time{}, time.Time{}, false, fmt.Errorf("%w: db is nil", ErrStoreUnavailable)
	}

	var bounds struct {
		MinDate *time.Time
		MaxDate *time.Time
	}
	row := r.db.WithContext(ctx).Model(&Message{}).
		Select("min(date) AS min_date, max(date) AS max_date").
		Scan(&bounds)
	if row.Error != nil {
		return time.Time{}, time.Time{}, false, fmt.Errorf("%w: date bounds: %v", ErrStoreUnavailable, row.Error)
	}
	if bounds.MinDate == nil || bounds.MaxDate == nil {
		return time.Time{}, time.Time{}, false, nil
	}
	return *bounds.MinDate, *bounds.MaxDate, true, nil
}

func applyWindow(query *gorm.DB, window domain.DateRange) *gorm.DB {
	if !window.From.IsZero() {
		query = query.Where("date >= ?", window.From)
	}
	if !window.To.IsZero() {
		query = query.Where("date <= ?", window.To)
	}
	return query
}
