package store

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/forkful/forkful-backend/internal/domain"
)

// JSONBMap stores a document payload in a JSONB column (plain JSON text on
// sqlite).
type JSONBMap map[string]any

// Value implements the driver.Valuer interface
func (m JSONBMap) Value() (driver.Value, error) {
	if len(m) == 0 {
		return "{}", nil
	}
	return json.Marshal(m)
}

// Scan implements the sql.Scanner interface
func (m *JSONBMap) Scan(value interface{}) error {
	if value == nil {
		*m = JSONBMap{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, m)
}

type documentRow struct {
	ID         string    `gorm:"type:uuid;primaryKey"`
	Collection string    `gorm:"size:64;not null;index"`
	Data       JSONBMap  `gorm:"type:jsonb;not null;default:'{}'"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (documentRow) TableName() string {
	return "documents"
}

// GormStore is the DocumentStore backed by a relational database through
// gorm. Postgres is the production backend; sqlite is supported for tests.
type GormStore struct {
	db *gorm.DB
}

var _ DocumentStore = (*GormStore)(nil)

// NewGorm migrates the documents table and returns the store.
func NewGorm(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&documentRow{}); err != nil {
		return nil, fmt.Errorf("migrate documents table: %w", err)
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) Insert(ctx context.Context, collection string, fields map[string]any) (string, error) {
	row := documentRow{
		ID:         uuid.NewString(),
		Collection: collection,
		Data:       JSONBMap(fields),
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return "", unavailable(err)
	}
	return row.ID, nil
}

func (s *GormStore) GetAll(ctx context.Context, collection string) ([]Document, error) {
	var rows []documentRow
	if err := s.db.WithContext(ctx).Where("collection = ?", collection).Find(&rows).Error; err != nil {
		return nil, unavailable(err)
	}
	return toDocuments(rows), nil
}

func (s *GormStore) GetByID(ctx context.Context, collection, id string) (Document, error) {
	var row documentRow
	err := s.db.WithContext(ctx).Where("collection = ? AND id = ?", collection, id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Document{}, fmt.Errorf("%s/%s: %w", collection, id, domain.ErrNotFound)
		}
		return Document{}, unavailable(err)
	}
	return Document{ID: row.ID, Fields: map[string]any(row.Data)}, nil
}

func (s *GormStore) QueryEquals(ctx context.Context, collection, field string, value any) ([]Document, error) {
	query := s.db.WithContext(ctx).Where("collection = ?", collection)
	if s.db.Dialector.Name() == "postgres" {
		query = query.Where("data->>? = ?", field, fmt.Sprint(value))
	} else {
		query = query.Where("json_extract(data, ?) = ?", "$."+field, value)
	}

	var rows []documentRow
	if err := query.Find(&rows).Error; err != nil {
		return nil, unavailable(err)
	}
	return toDocuments(rows), nil
}

func (s *GormStore) Update(ctx context.Context, collection, id string, partial map[string]any) error {
	return s.mutate(ctx, collection, id, func(data JSONBMap) JSONBMap {
		for k, v := range partial {
			data[k] = v
		}
		return data
	})
}

func (s *GormStore) Delete(ctx context.Context, collection, id string) error {
	result := s.db.WithContext(ctx).Where("collection = ? AND id = ?", collection, id).Delete(&documentRow{})
	if result.Error != nil {
		return unavailable(result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%s/%s: %w", collection, id, domain.ErrNotFound)
	}
	return nil
}

func (s *GormStore) AddToSet(ctx context.Context, collection, id, field, value string) error {
	return s.mutate(ctx, collection, id, func(data JSONBMap) JSONBMap {
		set := StringSet(data[field])
		for _, v := range set {
			if v == value {
				return data
			}
		}
		data[field] = append(set, value)
		return data
	})
}

func (s *GormStore) RemoveFromSet(ctx context.Context, collection, id, field, value string) error {
	return s.mutate(ctx, collection, id, func(data JSONBMap) JSONBMap {
		set := StringSet(data[field])
		kept := make([]string, 0, len(set))
		for _, v := range set {
			if v != value {
				kept = append(kept, v)
			}
		}
		data[field] = kept
		return data
	})
}

// mutate applies fn to the payload inside a transaction. On postgres the row
// is locked for the duration, which is what makes AddToSet/RemoveFromSet
// atomic under concurrent toggles; sqlite serializes writers on its own.
func (s *GormStore) mutate(ctx context.Context, collection, id string, fn func(JSONBMap) JSONBMap) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx.Where("collection = ? AND id = ?", collection, id)
		if s.db.Dialector.Name() == "postgres" {
			query = query.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var row documentRow
		if err := query.First(&row).Error; err != nil {
			return err
		}
		if row.Data == nil {
			row.Data = JSONBMap{}
		}
		row.Data = fn(row.Data)
		return tx.Model(&documentRow{}).
			Where("collection = ? AND id = ?", collection, id).
			Updates(map[string]any{"data": row.Data, "updated_at": time.Now()}).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%s/%s: %w", collection, id, domain.ErrNotFound)
		}
		return unavailable(err)
	}
	return nil
}

func toDocuments(rows []documentRow) []Document {
	docs := make([]Document, len(rows))
	for i, row := range rows {
		docs[i] = Document{ID: row.ID, Fields: map[string]any(row.Data)}
	}
	return docs
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
}
