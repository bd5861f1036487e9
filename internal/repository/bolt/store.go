// Package bolt хранит счета и транзакции во встроенной базе BoltDB.
// Все данные лежат в одном файле, внешний процесс БД не нужен.
package bolt

import (
	"encoding/binary"
	"fmt"
	"time"

	bolt "github.com/boltdb/bolt"
)

var (
	clientsBucket      = []byte("clients")
	transactionsBucket = []byte("transactions")
)

// DB держит открытый файл базы. Репозитории делят одно соединение.
type DB struct {
	db *bolt.DB
}

// Open открывает (или создаёт) файл базы и гарантирует наличие бакетов.
func Open(path string) (*DB, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bolt: open %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{clientsBucket, transactionsBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("bolt: create buckets: %w", err)
	}

	return &DB{db: db}, nil
}

// Close освобождает блокировку файла.
func (d *DB) Close() error {
	return d.db.Close()
}

// Ключи big-endian, поэтому обход курсором идёт по возрастанию id.
func clientKey(id uint16) []byte {
	key := make([]byte, 2)
	binary.BigEndian.PutUint16(key, id)
	return key
}

func transactionKey(id uint32) []byte {
	key := make([]byte, 4)
	binary.BigEndian.PutUint32(key, id)
	return key
}
