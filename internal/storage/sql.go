package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Entry is a row of the storage_entries table.
type Entry struct {
	Scope     string     `gorm:"column:scope;primaryKey"`
	OwnerID   string     `gorm:"column:owner_id;primaryKey"`
	ItemKey   string     `gorm:"column:item_key;primaryKey"`
	Value     string     `gorm:"column:value"`
	ExpiresAt *time.Time `gorm:"column:expires_at"`
	UpdatedAt time.Time  `gorm:"column:updated_at"`
}

func (Entry) TableName() string { return "storage_entries" }

// SQL persists entries through gorm; the table is created by pkg/migrate.
type SQL struct {
	db  *gorm.DB
	now func() time.Time
}

func NewSQL(db *gorm.DB) (*SQL, error) {
	if db == nil {
		return nil, errors.New("gorm db is required")
	}
	return &SQL{db: db, now: time.Now}, nil
}

func (s *SQL) Get(ctx context.Context, scope Scope, owner, key string) (string, bool, error) {
	var entry Entry
	err := s.db.WithContext(ctx).
		Where("scope = ? AND owner_id = ? AND item_key = ?", string(scope), owner, key).
		Where("expires_at IS NULL OR expires_at > ?", s.now().UTC()).
		Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("load storage entry: %w", err)
	}
	return entry.Value, true, nil
}

func (s *SQL) Set(ctx context.Context, scope Scope, owner, key, value string, ttl time.Duration) error {
	now := s.now().UTC()
	entry := Entry{
		Scope:     string(scope),
		OwnerID:   owner,
		ItemKey:   key,
		Value:     value,
		UpdatedAt: now,
	}
	if ttl > 0 {
		expires := now.Add(ttl)
		entry.ExpiresAt = &expires
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "scope"}, {Name: "owner_id"}, {Name: "item_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "expires_at", "updated_at"}),
		}).
		Create(&entry).Error
	if err != nil {
		return fmt.Errorf("upsert storage entry: %w", err)
	}
	return nil
}

func (s *SQL) Delete(ctx context.Context, scope Scope, owner, key string) error {
	err := s.db.WithContext(ctx).
		Where("scope = ? AND owner_id = ? AND item_key = ?", string(scope), owner, key).
		Delete(&Entry{}).Error
	if err != nil {
		return fmt.Errorf("delete storage entry: %w", err)
	}
	return nil
}

// PurgeExpired removes session entries past their expiry.
func (s *SQL) PurgeExpired(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at <= ?", s.now().UTC()).
		Delete(&Entry{})
	return res.RowsAffected, res.Error
}

// Close is a no-op; the connection belongs to pkg/db.
func (s *SQL) Close() error { return nil }
