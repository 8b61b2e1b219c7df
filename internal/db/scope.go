package db

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/jmoiron/sqlx"
)

type scopeKey struct{}

// Scope holds the connections one request has taken from the store pools.
// Connections are acquired on first use and released together by Close.
type Scope struct {
	mu    sync.Mutex
	conns map[string]*sqlx.Conn
}

func NewScope() *Scope {
	return &Scope{conns: make(map[string]*sqlx.Conn)}
}

func WithScope(ctx context.Context, scope *Scope) context.Context {
	return context.WithValue(ctx, scopeKey{}, scope)
}

func ScopeFromContext(ctx context.Context) *Scope {
	if ctx == nil {
		return nil
	}
	scope, _ := ctx.Value(scopeKey{}).(*Scope)
	return scope
}

func (s *Scope) conn(ctx context.Context, store *Store) (*sqlx.Conn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conns == nil {
		return nil, fmt.Errorf("store %s: request scope already closed", store.Name)
	}
	if c, ok := s.conns[store.Name]; ok {
		return c, nil
	}

	c, err := store.sqlx.Connx(ctx)
	if err != nil {
		return nil, fmt.Errorf("store %s: acquire connection: %w", store.Name, err)
	}
	s.conns[store.Name] = c
	return c, nil
}

// Acquired lists the stores this scope has connected to, sorted by name.
func (s *Scope) Acquired() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.conns))
	for name := range s.conns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Close returns every acquired connection to its pool. Safe to call more than once.
func (s *Scope) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	for name, c := range s.conns {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("release %s: %w", name, err))
		}
	}
	s.conns = nil
	return errors.Join(errs...)
}
