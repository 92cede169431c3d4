package kv_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/heartmarshall/lexipath/internal/adapter/kv"
	"github.com/heartmarshall/lexipath/internal/domain"
)

type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetMany(ctx context.Context, entries map[string][]byte) error
	Remove(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

func backends(t *testing.T) map[string]func(t *testing.T) store {
	t.Helper()
	return map[string]func(t *testing.T) store{
		"memory": func(t *testing.T) store { return kv.NewMemory() },
		"badger": func(t *testing.T) store {
			s, err := kv.NewBadger(kv.BadgerOptions{InMemory: true})
			if err != nil {
				t.Fatalf("NewBadger: %v", err)
			}
			return s
		},
		"badger-disk": func(t *testing.T) store {
			s, err := kv.NewBadger(kv.BadgerOptions{Dir: t.TempDir()})
			if err != nil {
				t.Fatalf("NewBadger: %v", err)
			}
			return s
		},
		"sqlite": func(t *testing.T) store {
			s, err := kv.NewSQLite(context.Background(), filepath.Join(t.TempDir(), "kv.db"))
			if err != nil {
				t.Fatalf("NewSQLite: %v", err)
			}
			return s
		},
	}
}

func TestBackends_GetSetRemove(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := open(t)
			t.Cleanup(func() { s.Close() })

			_, err := s.Get(ctx, "vocab_app_data")
			if !errors.Is(err, domain.ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}

			if err := s.Set(ctx, "vocab_app_data", []byte("[1]")); err != nil {
				t.Fatalf("Set: %v", err)
			}
			if err := s.Set(ctx, "vocab_app_data", []byte("[1,2]")); err != nil {
				t.Fatalf("Set overwrite: %v", err)
			}
			got, err := s.Get(ctx, "vocab_app_data")
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if string(got) != "[1,2]" {
				t.Fatalf("Get = %q, want %q", got, "[1,2]")
			}

			if err := s.Remove(ctx, "vocab_app_data"); err != nil {
				t.Fatalf("Remove: %v", err)
			}
			if _, err := s.Get(ctx, "vocab_app_data"); !errors.Is(err, domain.ErrNotFound) {
				t.Fatalf("expected ErrNotFound after Remove, got %v", err)
			}

			if err := s.Remove(ctx, "missing"); err != nil {
				t.Fatalf("Remove missing key: %v", err)
			}
		})
	}
}

func TestBackends_SetMany(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := open(t)
			t.Cleanup(func() { s.Close() })

			err := s.SetMany(ctx, map[string][]byte{
				"a": []byte("1"),
				"b": []byte("2"),
			})
			if err != nil {
				t.Fatalf("SetMany: %v", err)
			}
			for k, want := range map[string]string{"a": "1", "b": "2"} {
				got, err := s.Get(ctx, k)
				if err != nil {
					t.Fatalf("Get(%s): %v", k, err)
				}
				if string(got) != want {
					t.Errorf("Get(%s) = %q, want %q", k, got, want)
				}
			}
		})
	}
}

func TestMemory_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	m := kv.NewMemory()

	val := []byte("abc")
	_ = m.Set(ctx, "k", val)
	val[0] = 'x'

	got, _ := m.Get(ctx, "k")
	if string(got) != "abc" {
		t.Fatalf("stored value mutated through caller slice: %q", got)
	}
	got[1] = 'y'
	again, _ := m.Get(ctx, "k")
	if string(again) != "abc" {
		t.Fatalf("stored value mutated through returned slice: %q", again)
	}
}

func TestBadger_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := kv.NewBadger(kv.BadgerOptions{Dir: dir})
	if err != nil {
		t.Fatalf("NewBadger: %v", err)
	}
	if err := s.Set(ctx, "vocab_app_progress", []byte(`{"id-a":"mastered"}`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s, err = kv.NewBadger(kv.BadgerOptions{Dir: dir})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	got, err := s.Get(ctx, "vocab_app_progress")
	if err != nil {
		t.Fatalf("Get after reopen: %v", err)
	}
	if string(got) != `{"id-a":"mastered"}` {
		t.Fatalf("Get = %q", got)
	}
}

func TestNewBadger_RequiresDir(t *testing.T) {
	if _, err := kv.NewBadger(kv.BadgerOptions{}); err == nil {
		t.Fatal("expected error without dir")
	}
}

func TestBackends_Ping(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := open(t)
			if err := s.Ping(context.Background()); err != nil {
				t.Fatalf("Ping: %v", err)
			}
			if err := s.Close(); err != nil {
				t.Fatalf("Close: %v", err)
			}
		})
	}
}

func TestBadger_PingAfterClose(t *testing.T) {
	s, err := kv.NewBadger(kv.BadgerOptions{InMemory: true})
	if err != nil {
		t.Fatalf("NewBadger: %v", err)
	}
	s.Close()
	if err := s.Ping(context.Background()); err == nil {
		t.Fatal("expected Ping to fail after Close")
	}
}
