package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/shouni/gemini-studio-kit/pkg/domain"
)

type seedRecord struct {
	ID        string   `gorm:"type:varchar(64);primaryKey"`
	Name      string   `gorm:"type:varchar(255)"`
	ImageData string   `gorm:"type:text"`
	Tags      []string `gorm:"serializer:json"`
}

func (seedRecord) TableName() string { return "identity_seeds" }

type galleryRecord struct {
	ID        string             `gorm:"type:varchar(64);primaryKey"`
	URL       string             `gorm:"type:text"`
	Prompt    string             `gorm:"type:text"`
	Settings  domain.GenSettings `gorm:"serializer:json"`
	Timestamp int64              `gorm:"type:bigint;index"`
	Feedback  string             `gorm:"type:varchar(16);default:''"`
}

func (galleryRecord) TableName() string { return "gallery_items" }

// memoryRecord はニューラルメモリの状態を1行だけ保持します。
type memoryRecord struct {
	ID         uint     `gorm:"primaryKey"`
	Descriptor string   `gorm:"type:text"`
	History    []string `gorm:"serializer:json"`
}

func (memoryRecord) TableName() string { return "neural_memory" }

const memoryRowID = 1

// Store はシード・ギャラリー・ニューラルメモリを SQLite に保存します。
type Store struct {
	db *gorm.DB
}

// Open は path の SQLite データベースを開き、テーブルを用意します。
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("データベースを開けませんでした (%s): %w", path, err)
	}
	return New(db)
}

// New は既存の接続から Store を作成し、マイグレーションを行います。
func New(db *gorm.DB) (*Store, error) {
	if db == nil {
		return nil, fmt.Errorf("db is required")
	}
	if err := db.AutoMigrate(&seedRecord{}, &galleryRecord{}, &memoryRecord{}); err != nil {
		return nil, fmt.Errorf("マイグレーションに失敗しました: %w", err)
	}
	return &Store{db: db}, nil
}

// Close は接続を閉じます。
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SaveSeed はシードを追加または更新します。
func (s *Store) SaveSeed(ctx context.Context, seed domain.IdentitySeed) error {
	rec := seedRecord{ID: seed.ID, Name: seed.Name, ImageData: seed.ImageData, Tags: seed.Tags}
	return s.db.WithContext(ctx).Save(&rec).Error
}

// DeleteSeed はシードを削除します。存在しなくてもエラーにしません。
func (s *Store) DeleteSeed(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Where("id = ?", id).Delete(&seedRecord{}).Error
}

// LoadSeeds はシードを採番順に返します。
func (s *Store) LoadSeeds(ctx context.Context) ([]domain.IdentitySeed, error) {
	var recs []seedRecord
	if err := s.db.WithContext(ctx).Order("length(id), id").Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]domain.IdentitySeed, len(recs))
	for i, r := range recs {
		out[i] = domain.IdentitySeed{ID: r.ID, Name: r.Name, ImageData: r.ImageData, Tags: r.Tags}
	}
	return out, nil
}

// SaveGalleryItem はギャラリー項目を追加または更新します。
func (s *Store) SaveGalleryItem(ctx context.Context, item domain.GalleryItem) error {
	rec := galleryRecord{
		ID:        item.ID,
		URL:       item.URL,
		Prompt:    item.Prompt,
		Settings:  item.Settings,
		Timestamp: item.Timestamp,
		Feedback:  string(item.Feedback),
	}
	return s.db.WithContext(ctx).Save(&rec).Error
}

// DeleteGalleryItem はギャラリー項目を削除します。
func (s *Store) DeleteGalleryItem(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Where("id = ?", id).Delete(&galleryRecord{}).Error
}

// LoadGallery は新しい順に最大 limit 件の項目を返します。
func (s *Store) LoadGallery(ctx context.Context, limit int) ([]domain.GalleryItem, error) {
	var recs []galleryRecord
	q := s.db.WithContext(ctx).Order("timestamp desc").Order("rowid desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]domain.GalleryItem, len(recs))
	for i, r := range recs {
		out[i] = r.toDomain()
	}
	return out, nil
}

// SaveMemory はニューラルメモリの状態を上書き保存します。
func (s *Store) SaveMemory(ctx context.Context, state domain.MemoryState) error {
	rec := memoryRecord{ID: memoryRowID, Descriptor: state.Descriptor, History: state.History}
	return s.db.WithContext(ctx).Save(&rec).Error
}

// LoadMemory は保存済みのニューラルメモリを返します。未保存なら空の状態です。
func (s *Store) LoadMemory(ctx context.Context) (domain.MemoryState, error) {
	var rec memoryRecord
	err := s.db.WithContext(ctx).First(&rec, memoryRowID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.MemoryState{}, nil
	}
	if err != nil {
		return domain.MemoryState{}, err
	}
	return domain.MemoryState{Descriptor: rec.Descriptor, History: rec.History}, nil
}

func (r galleryRecord) toDomain() domain.GalleryItem {
	return domain.GalleryItem{
		ID:        r.ID,
		URL:       r.URL,
		Prompt:    r.Prompt,
		Settings:  r.Settings,
		Timestamp: r.Timestamp,
		Feedback:  domain.Feedback(r.Feedback),
	}
}
