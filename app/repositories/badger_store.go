package repositories

import (
	"fmt"

	"blogdemo/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerStore implements ContentStore with posts persisted in BadgerDB.
// Posts are read once when the store is created; List and Find are served
// from that snapshot and never touch the database again.
type BadgerStore struct {
	db     *badger.DB
	ownsDB bool
	*snapshot
}

// OpenBadgerStore opens (or creates) the database at path, seeds it with
// the default posts if it holds none, and loads it. An empty path opens an
// in-memory database.
func OpenBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path).
		WithLogger(nil).
		WithNumVersionsToKeep(1)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}
	if _, err := Seed(db, models.SeedPosts()); err != nil {
		db.Close()
		return nil, err
	}
	store, err := NewBadgerStore(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	store.ownsDB = true
	return store, nil
}

// NewBadgerStore loads every post stored in db. The caller keeps ownership
// of db.
func NewBadgerStore(db *badger.DB) (*BadgerStore, error) {
	var posts []models.Post
	err := db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(PostKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var post models.Post
			err := it.Item().Value(func(val []byte) error {
				return unmarshalEntity(val, &post)
			})
			if err != nil {
				return fmt.Errorf("failed to load %s: %w", it.Item().Key(), err)
			}
			posts = append(posts, post)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s, err := newSnapshot(posts)
	if err != nil {
		return nil, err
	}
	return &BadgerStore{db: db, snapshot: s}, nil
}

// Seed writes posts to db in order when db holds no posts yet. It returns
// the number of posts written.
func Seed(db *badger.DB, posts []models.Post) (int, error) {
	if _, err := newSnapshot(posts); err != nil {
		return 0, err
	}

	written := 0
	err := db.Update(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		prefix := []byte(PostKeyPrefix)
		it.Seek(prefix)
		populated := it.ValidForPrefix(prefix)
		it.Close()
		if populated {
			return nil
		}

		for i, post := range posts {
			data, err := marshalEntity(post)
			if err != nil {
				return err
			}
			if err := txn.Set(postKey(i), data); err != nil {
				return err
			}
			written++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to seed posts: %w", err)
	}
	return written, nil
}

// Close closes the database if the store opened it.
func (s *BadgerStore) Close() error {
	if !s.ownsDB {
		return nil
	}
	return s.db.Close()
}
