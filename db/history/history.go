package history

import (
	"context"
	"esxi-stats/app/logging"
	"esxi-stats/vsphere/protocol"
	"fmt"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"time"
)

const DefaultLimit = 50

type Notification struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Kind      string    `json:"kind" gorm:"index"`
	Command   string    `json:"command"`
	Outcome   string    `json:"outcome"`
	CreatedAt time.Time `json:"createdAt" gorm:"index"`
}

// Store keeps sent notifications so they survive restarts.
type Store struct {
	db *gorm.DB
}

var INST *Store

// Open opens or creates the sqlite file, "file::memory:?cache=shared" gives an in-memory store.
func Open(dbfile string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(dbfile), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open history %s: %w", dbfile, err)
	}
	if err := db.AutoMigrate(&Notification{}); err != nil {
		return nil, fmt.Errorf("migrate history: %w", err)
	}
	return &Store{db: db}, nil
}

func Setup(dbfile string) {
	s, err := Open(dbfile)
	if err != nil {
		logging.L().Panic("failed to open notification history ", err)
	}
	INST = s
}

func (s *Store) Save(ctx context.Context, n protocol.Notification) error {
	row := Notification{
		Title:     n.Title,
		Message:   n.Message,
		Kind:      string(n.Kind),
		Command:   n.Command,
		Outcome:   string(n.Outcome),
		CreatedAt: n.Time,
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now()
	}
	return s.db.WithContext(ctx).Create(&row).Error
}

// List returns the newest notifications first.
func (s *Store) List(ctx context.Context, limit int) ([]Notification, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	var rows []Notification
	err := s.db.WithContext(ctx).Order("created_at desc, id desc").Limit(limit).Find(&rows).Error
	return rows, err
}

func (s *Store) Name() string { return "history" }

func (s *Store) Send(ctx context.Context, n protocol.Notification) error {
	return s.Save(ctx, n)
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
