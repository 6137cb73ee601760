package cache

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// keyDeps declares, per key class (the text before the first ':'),
// which fixed keys must be dropped whenever a key of that class is
// invalidated. Invalidate expands the transitive closure and deletes
// it in one pipeline, so related entries cannot be half-purged.
var keyDeps = map[string][]string{
	"employee": {"employees:list"},
	"absence":  {"absences:list", "employees:list"},
	"perms":    {"perms:index"},
	"tenant":   {"tenant:index"},
	"company":  {"companies:list"},
}

// Store is the process-wide query cache: typed Get/Set/Invalidate over
// redis with a declared dependency graph between keys.
type Store struct {
	client *redis.Client
}

func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return value, true, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

// Invalidate deletes the given keys plus every dependent key declared
// in the graph, in a single pipelined DEL.
func (s *Store) Invalidate(ctx context.Context, keys ...string) error {
	closure := expandKeys(keys)
	if len(closure) == 0 {
		return nil
	}
	pipe := s.client.Pipeline()
	pipe.Del(ctx, closure...)
	_, err := pipe.Exec(ctx)
	return err
}

// InvalidateScope removes every cached entry carrying the given scope
// prefix. Used when a superadmin leaves a tenant so no tenant-scoped
// data survives the navigation.
func (s *Store) InvalidateScope(ctx context.Context, scope string) error {
	var cursor uint64
	for {
		keys, next, err := s.client.Scan(ctx, cursor, scope+":*", 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := s.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

// expandKeys walks the dependency graph to a fixed point and returns
// the de-duplicated closure of keys to delete.
func expandKeys(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	queue := append([]string(nil), keys...)
	var closure []string

	for len(queue) > 0 {
		key := queue[0]
		queue = queue[1:]
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		closure = append(closure, key)

		queue = append(queue, keyDeps[keyClass(key)]...)
	}
	return closure
}

func keyClass(key string) string {
	if idx := strings.Index(key, ":"); idx > 0 {
		return key[:idx]
	}
	return key
}
