// Package memstore is an in-memory docstore.Store used by tests and local
// development runs. It honors the full Store contract, including snapshot
// subscriptions, without needing a running database.
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/VigneshSivaKspm/coga-order-management-sub000/internal/docstore"
)

type subscriber struct {
	collection string
	filter     *docstore.Filter
	ch         chan []docstore.Doc
}

type Store struct {
	mu   sync.RWMutex
	data map[string]map[string]map[string]any
	subs map[*subscriber]struct{}
}

func New() *Store {
	return &Store{
		data: make(map[string]map[string]map[string]any),
		subs: make(map[*subscriber]struct{}),
	}
}

// Seed loads a document directly, bypassing notifications. Test setup helper.
func (s *Store) Seed(collection, id string, fields map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.col(collection)[id] = cloneFields(fields)
}

func (s *Store) col(collection string) map[string]map[string]any {
	c, ok := s.data[collection]
	if !ok {
		c = make(map[string]map[string]any)
		s.data[collection] = c
	}
	return c
}

func (s *Store) Get(ctx context.Context, collection, id string) (docstore.Doc, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fields, ok := s.data[collection][id]
	if !ok {
		return docstore.Doc{}, false, nil
	}
	return docstore.Doc{ID: id, Data: cloneFields(fields)}, true, nil
}

func (s *Store) Query(ctx context.Context, collection, field string, equals any) ([]docstore.Doc, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot(collection, &docstore.Filter{Field: field, Equals: equals}), nil
}

func (s *Store) Set(ctx context.Context, collection, id string, fields map[string]any, merge bool) error {
	s.mu.Lock()
	c := s.col(collection)
	if merge {
		cur, ok := c[id]
		if !ok {
			cur = make(map[string]any)
			c[id] = cur
		}
		for k, v := range fields {
			cur[k] = v
		}
	} else {
		c[id] = cloneFields(fields)
	}
	s.mu.Unlock()
	s.notify(collection)
	return nil
}

func (s *Store) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	s.mu.Lock()
	cur, ok := s.data[collection][id]
	if !ok {
		s.mu.Unlock()
		return docstore.ErrNoDocument
	}
	for k, v := range fields {
		cur[k] = v
	}
	s.mu.Unlock()
	s.notify(collection)
	return nil
}

func (s *Store) Add(ctx context.Context, collection string, fields map[string]any) (string, error) {
	id := uuid.NewString()
	s.mu.Lock()
	s.col(collection)[id] = cloneFields(fields)
	s.mu.Unlock()
	s.notify(collection)
	return id, nil
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	delete(s.data[collection], id)
	s.mu.Unlock()
	s.notify(collection)
	return nil
}

func (s *Store) Subscribe(ctx context.Context, collection string, filter *docstore.Filter) (<-chan []docstore.Doc, error) {
	sub := &subscriber{collection: collection, filter: filter, ch: make(chan []docstore.Doc, 16)}

	s.mu.Lock()
	s.subs[sub] = struct{}{}
	sub.ch <- s.snapshot(collection, filter) // initial snapshot
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.subs, sub)
		s.mu.Unlock()
		close(sub.ch)
	}()
	return sub.ch, nil
}

func (s *Store) notify(collection string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for sub := range s.subs {
		if sub.collection != collection {
			continue
		}
		snap := s.snapshot(collection, sub.filter)
		select {
		case sub.ch <- snap:
		default: // slow subscriber keeps only the latest backlog
		}
	}
}

// snapshot requires at least a read lock held by the caller.
func (s *Store) snapshot(collection string, filter *docstore.Filter) []docstore.Doc {
	out := make([]docstore.Doc, 0)
	for id, fields := range s.data[collection] {
		if filter != nil && fields[filter.Field] != filter.Equals {
			continue
		}
		out = append(out, docstore.Doc{ID: id, Data: cloneFields(fields)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func cloneFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}
