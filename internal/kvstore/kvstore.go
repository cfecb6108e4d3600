// Package kvstore is a small durable string key/value abstraction with memory,
// postgres and sqlite backends.
package kvstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/dimitrije/tripvote-api/internal/config"
	"github.com/dimitrije/tripvote-api/internal/database"
)

type Store interface {
	// Get returns ok=false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	// Keys lists every key starting with prefix, sorted.
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// Open picks the backend named in cfg. db is only used by the postgres backend.
func Open(cfg config.KVConfig, db *database.DB) (Store, error) {
	switch cfg.Backend {
	case "memory":
		return NewMemory(), nil
	case "postgres", "":
		if db == nil {
			return nil, fmt.Errorf("postgres kv backend needs a database")
		}
		return NewPostgres(db), nil
	case "sqlite":
		return NewSQLite(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown kv backend: %s", cfg.Backend)
	}
}

type namespaced struct {
	store  Store
	prefix string
}

// Namespace scopes every key of store under prefix.
func Namespace(store Store, prefix string) Store {
	return &namespaced{store: store, prefix: prefix}
}

func (n *namespaced) Get(ctx context.Context, key string) (string, bool, error) {
	return n.store.Get(ctx, n.prefix+key)
}

func (n *namespaced) Set(ctx context.Context, key, value string) error {
	return n.store.Set(ctx, n.prefix+key, value)
}

func (n *namespaced) Delete(ctx context.Context, key string) error {
	return n.store.Delete(ctx, n.prefix+key)
}

func (n *namespaced) Keys(ctx context.Context, prefix string) ([]string, error) {
	keys, err := n.store.Keys(ctx, n.prefix+prefix)
	if err != nil {
		return nil, err
	}
	for i, k := range keys {
		keys[i] = strings.TrimPrefix(k, n.prefix)
	}
	return keys, nil
}

// escapeLike escapes LIKE wildcards so prefixes match literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
