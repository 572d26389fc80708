// Package memory provides in-process implementations of the repository
// interfaces. They back the handler and service tests and mirror the
// scoping, ordering and error behavior of the Mongo repositories.
package memory

import (
	"sort"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HSouheill/dispensary_backend/repositories"
)

// table is an insertion ordered, mutex guarded document set
type table[T any] struct {
	mu    sync.RWMutex
	order []primitive.ObjectID
	rows  map[primitive.ObjectID]T
	id    func(*T) primitive.ObjectID
	// unique reports whether two documents collide on a unique index
	unique func(a, b *T) bool
}

func newTable[T any](id func(*T) primitive.ObjectID, unique func(a, b *T) bool) *table[T] {
	return &table[T]{rows: make(map[primitive.ObjectID]T), id: id, unique: unique}
}

func (t *table[T]) insert(doc T) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.insertLocked(doc)
}

func (t *table[T]) insertLocked(doc T) error {
	key := t.id(&doc)
	if _, exists := t.rows[key]; exists {
		return repositories.ErrDuplicate
	}
	if t.unique != nil {
		for _, existing := range t.rows {
			existing := existing
			if t.unique(&existing, &doc) {
				return repositories.ErrDuplicate
			}
		}
	}
	t.rows[key] = doc
	t.order = append(t.order, key)
	return nil
}

func (t *table[T]) insertMany(docs []T) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, doc := range docs {
		if err := t.insertLocked(doc); err != nil {
			return err
		}
	}
	return nil
}

// find returns a copy of the first document satisfying match
func (t *table[T]) find(match func(*T) bool) (*T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, key := range t.order {
		doc := t.rows[key]
		if match(&doc) {
			return &doc, nil
		}
	}
	return nil, repositories.ErrNotFound
}

// filter returns copies of all matching documents, newest first
func (t *table[T]) filter(match func(*T) bool) []T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := []T{}
	for i := len(t.order) - 1; i >= 0; i-- {
		doc := t.rows[t.order[i]]
		if match(&doc) {
			out = append(out, doc)
		}
	}
	return out
}

func (t *table[T]) page(match func(*T) bool, opts repositories.ListOptions) ([]T, int64) {
	all := t.filter(match)
	return repositories.Paginate(all, opts), int64(len(all))
}

// replace swaps the stored document when the current one satisfies match
func (t *table[T]) replace(doc T, match func(*T) bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	key := t.id(&doc)
	current, ok := t.rows[key]
	if !ok || !match(&current) {
		return repositories.ErrNotFound
	}
	if t.unique != nil {
		for otherKey, existing := range t.rows {
			existing := existing
			if otherKey != key && t.unique(&existing, &doc) {
				return repositories.ErrDuplicate
			}
		}
	}
	t.rows[key] = doc
	return nil
}

// mutate applies fn to the first matching document in place
func (t *table[T]) mutate(match func(*T) bool, fn func(*T) bool) (*T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, key := range t.order {
		doc := t.rows[key]
		if !match(&doc) {
			continue
		}
		if !fn(&doc) {
			return nil, repositories.ErrNotFound
		}
		t.rows[key] = doc
		return &doc, nil
	}
	return nil, repositories.ErrNotFound
}

func (t *table[T]) remove(match func(*T) bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, key := range t.order {
		doc := t.rows[key]
		if match(&doc) {
			delete(t.rows, key)
			t.order = append(t.order[:i], t.order[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

// containsFold reports whether any field contains the search term, ignoring case
func containsFold(term string, fields ...string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

func eqOrEmpty(want, got string) bool {
	return want == "" || want == got
}

func sortBy[T any](items []T, less func(a, b *T) bool) {
	sort.SliceStable(items, func(i, j int) bool { return less(&items[i], &items[j]) })
}
