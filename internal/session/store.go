// Package session keeps the uploaded table of each browser session.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Skufu/CardioRisk/internal/dataset"
)

const CookieName = "cardiorisk_session"

var ErrInvalidID = errors.New("invalid session id")

type Store interface {
	// Get returns the session's table; ok is false when none is loaded.
	Get(ctx context.Context, id string) (table *dataset.Table, ok bool, err error)
	Put(ctx context.Context, id string, table *dataset.Table) error
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id looks like one NewID produced.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil && !strings.ContainsAny(id, "{}:")
}

type Options struct {
	Backend       string
	TTL           time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

func New(opts Options) (Store, error) {
	switch opts.Backend {
	case "", "memory":
		return NewMemoryStore(opts.TTL), nil
	case "redis":
		store, err := NewRedisStore(opts)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown session backend %q", opts.Backend)
	}
}
