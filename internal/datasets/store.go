package datasets

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

type Store struct {
	db *badger.DB
}

func NewStore(db *badger.DB) *Store {
	return &Store{
		db: db,
	}
}

func (s *Store) Insert(_ context.Context, dataset *Dataset) error {
	return s.db.Update(func(txn *badger.Txn) error {
		data, err := json.Marshal(dataset)
		if err != nil {
			return err
		}
		if err := txn.Set(idKey(dataset.ID), data); err != nil {
			return err
		}
		return nil
	})
}

func (s *Store) FindByID(_ context.Context, id ID) (*Dataset, error) {
	var dataset Dataset
	if err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(idKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(value []byte) error {
			return json.Unmarshal(value, &dataset)
		})
	}); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &dataset, nil
}

// List returns every upload, most recent first, without their content.
func (s *Store) List(_ context.Context) ([]*Dataset, error) {
	var datasets []*Dataset
	if err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		prefix := []byte("datasets/")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := it.Item().Value(func(value []byte) error {
				dataset := &Dataset{}
				if err := json.Unmarshal(value, dataset); err != nil {
					return err
				}
				dataset.Content = ""
				datasets = append(datasets, dataset)
				return nil
			}); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}
	slices.SortFunc(datasets, func(a, b *Dataset) int {
		return b.UploadedAt.Compare(a.UploadedAt)
	})
	return datasets, nil
}

func (s *Store) Delete(ctx context.Context, id ID) error {
	if _, err := s.FindByID(ctx, id); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(idKey(id))
	})
}

func idKey(id ID) []byte {
	return []byte(fmt.Sprintf("datasets/%s", id))
}
