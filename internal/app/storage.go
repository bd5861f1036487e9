package app

import (
	"context"
	"io/fs"
	"os"

	"github.com/ignatzorin/ledger-engine/internal/config"
	"github.com/ignatzorin/ledger-engine/internal/db"
	"github.com/ignatzorin/ledger-engine/internal/domain/repository"
	"github.com/ignatzorin/ledger-engine/internal/logger"
	"github.com/ignatzorin/ledger-engine/internal/pkg/apperror"
	boltrepo "github.com/ignatzorin/ledger-engine/internal/repository/bolt"
	"github.com/ignatzorin/ledger-engine/internal/repository/memory"
	pgrepo "github.com/ignatzorin/ledger-engine/internal/repository/postgres"
	"github.com/ignatzorin/ledger-engine/migrations"
)

// Storage объединяет пару репозиториев выбранного хранилища.
type Storage struct {
	Clients      repository.ClientRepository
	Transactions repository.TransactionRepository
	closeFn      func() error
}

// NewMemoryStorage создаёт пустое хранилище в памяти.
func NewMemoryStorage() *Storage {
	return &Storage{
		Clients:      memory.NewClientRepository(),
		Transactions: memory.NewTransactionRepository(),
	}
}

// OpenStorage открывает хранилище, указанное в LEDGER_STORAGE.
func OpenStorage(ctx context.Context, cfg *config.Config) (*Storage, error) {
	switch cfg.Storage {
	case config.StorageMemory:
		return NewMemoryStorage(), nil

	case config.StorageBolt:
		boltDB, err := boltrepo.Open(cfg.BoltPath)
		if err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось открыть bolt")
		}
		logger.Log.WithField("path", cfg.BoltPath).Debug("bolt открыт")
		return &Storage{
			Clients:      boltrepo.NewClientRepository(boltDB),
			Transactions: boltrepo.NewTransactionRepository(boltDB),
			closeFn:      boltDB.Close,
		}, nil

	case config.StoragePostgres:
		conn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось подключиться к postgres")
		}
		if err := db.RunMigrations(ctx, conn, migrationsFS(cfg.MigrationsPath)); err != nil {
			conn.Close()
			return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось применить миграции")
		}
		return &Storage{
			Clients:      pgrepo.NewClientRepository(conn),
			Transactions: pgrepo.NewTransactionRepository(conn),
			closeFn:      conn.Close,
		}, nil

	default:
		return nil, apperror.New(apperror.ErrCodeValidation, "неизвестное хранилище "+cfg.Storage)
	}
}

// migrationsFS возвращает каталог миграций или встроенные миграции, если путь не задан.
func migrationsFS(path string) fs.FS {
	if path == "" {
		return migrations.FS
	}
	return os.DirFS(path)
}

func (s *Storage) Close() error {
	if s.closeFn == nil {
		return nil
	}
	return s.closeFn()
}
