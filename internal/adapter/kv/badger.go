package kv

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	badger "github.com/dgraph-io/badger/v4"
)

// Badger is a backend stored in a BadgerDB directory.
type Badger struct {
	db *badger.DB
}

// BadgerOptions configures the badger backend.
type BadgerOptions struct {
	// Dir holds the data files. Required unless InMemory is set.
	Dir string

	// InMemory keeps everything in memory with a real badger engine.
	InMemory bool

	// Logger receives badger warnings and errors. Nil discards them.
	Logger *slog.Logger
}

// NewBadger opens (or creates) a badger database.
func NewBadger(opts BadgerOptions) (*Badger, error) {
	if !opts.InMemory && opts.Dir == "" {
		return nil, errors.New("kv: badger dir is required for on-disk mode")
	}

	dbOpts := badger.DefaultOptions(opts.Dir)
	if opts.InMemory {
		dbOpts = badger.DefaultOptions("").WithInMemory(true)
	}
	dbOpts = dbOpts.WithLogger(slogBadgerLogger{log: opts.Logger})

	db, err := badger.Open(dbOpts)
	if err != nil {
		return nil, fmt.Errorf("kv: open badger: %w", err)
	}
	return &Badger{db: db}, nil
}

func (b *Badger) Get(_ context.Context, key string) ([]byte, error) {
	var val []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, notFound(key)
	}
	if err != nil {
		return nil, fmt.Errorf("kv: badger get %q: %w", key, err)
	}
	return val, nil
}

func (b *Badger) Set(_ context.Context, key string, value []byte) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("kv: badger set %q: %w", key, err)
	}
	return nil
}

// SetMany writes all entries in a single badger transaction.
func (b *Badger) SetMany(_ context.Context, entries map[string][]byte) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		for k, v := range entries {
			if err := txn.Set([]byte(k), v); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("kv: badger set batch: %w", err)
	}
	return nil
}

func (b *Badger) Remove(_ context.Context, key string) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("kv: badger remove %q: %w", key, err)
	}
	return nil
}

// Ping fails once the database has been closed.
func (b *Badger) Ping(context.Context) error {
	if b.db.IsClosed() {
		return errors.New("kv: badger is closed")
	}
	return nil
}

func (b *Badger) Close() error {
	return b.db.Close()
}

// slogBadgerLogger routes badger warnings and errors to slog and drops
// info and debug chatter.
type slogBadgerLogger struct {
	log *slog.Logger
}

func (l slogBadgerLogger) Errorf(f string, v ...any) {
	if l.log != nil {
		l.log.Error(fmt.Sprintf(f, v...), slog.String("adapter", "badger"))
	}
}

func (l slogBadgerLogger) Warningf(f string, v ...any) {
	if l.log != nil {
		l.log.Warn(fmt.Sprintf(f, v...), slog.String("adapter", "badger"))
	}
}

func (slogBadgerLogger) Infof(string, ...any)  {}
func (slogBadgerLogger) Debugf(string, ...any) {}
