package cases

import (
	"context"
	"errors"
)

var errNotFound = errors.New("not found")

// fetch is natively context-aware.
//
//spanwrap:async(3)
func fetch(ctx context.Context, id int) (string, error) {
	if id < 0 {
		return "", errNotFound
	}
	return "item", ctx.Err()
}

//spanwrap:async-fine(4)
func (s *store[K]) get(
	ctx context.Context,
	key K,
) (int, bool) {
	v, ok := s.m[key]
	return v, ok
}

type store[K comparable] struct {
	m map[K]int
}
