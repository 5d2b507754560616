// Package memory is an in-process db.Store for local runs and tests.
// KNN is a brute-force cosine scan over the hashes under an index's prefixes.
package memory

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/kailas-cloud/simplerag/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

var errClosed = errors.New("store is closed")

type kvEntry struct {
	value     []byte
	expiresAt time.Time // zero means no expiry
}

// Store keeps hashes, plain values and index definitions in maps guarded by one RWMutex.
type Store struct {
	mu      sync.RWMutex
	hashes  map[string]map[string]string
	kv      map[string]kvEntry
	indexes map[string]*db.IndexDefinition
	closed  bool
	now     func() time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		hashes:  make(map[string]map[string]string),
		kv:      make(map[string]kvEntry),
		indexes: make(map[string]*db.IndexDefinition),
		now:     time.Now,
	}
}

// Ping fails only after Close.
func (s *Store) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return &db.Error{Op: db.OpPing, Err: errClosed}
	}
	return nil
}

// Close marks the store closed. Data is dropped.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	clear(s.hashes)
	clear(s.kv)
	clear(s.indexes)
}

// WaitForReady returns immediately unless the store is closed.
func (s *Store) WaitForReady(ctx context.Context, _ time.Duration) error {
	return s.Ping(ctx)
}

// --- hashes ---

// HSetMulti merges fields into each hash.
func (s *Store) HSetMulti(_ context.Context, items []db.HashSetItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return &db.Error{Op: db.OpHSet, Err: errClosed}
	}
	for _, item := range items {
		h, ok := s.hashes[item.Key]
		if !ok {
			h = make(map[string]string, len(item.Fields))
			s.hashes[item.Key] = h
		}
		maps.Copy(h, item.Fields)
	}
	return nil
}

// Del removes hashes and values under keys.
func (s *Store) Del(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.hashes, k)
		delete(s.kv, k)
	}
	return nil
}

// --- key/value ---

// Get returns the value at key, honoring expiry.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.kv[key]
	if !ok || (!e.expiresAt.IsZero() && !s.now().Before(e.expiresAt)) {
		return nil, db.ErrKeyNotFound
	}
	return append([]byte(nil), e.value...), nil
}

// Set stores value without expiry.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	return s.SetWithTTL(ctx, key, value, 0)
}

// SetWithTTL stores value; ttl <= 0 means no expiry.
func (s *Store) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return &db.Error{Op: db.OpSet, Err: errClosed}
	}
	e := kvEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
	}
	s.kv[key] = e
	return nil
}

// --- indexes ---

// CreateIndex registers def. An existing name yields db.ErrIndexExists.
func (s *Store) CreateIndex(_ context.Context, def *db.IndexDefinition) error {
	if err := def.Validate(); err != nil {
		return &db.Error{Op: db.OpCreateIndex, Err: err}
	}
	if def.VectorField() == nil {
		return &db.Error{Op: db.OpCreateIndex, Err: errors.New("vector field is required")}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.indexes[def.Name]; ok {
		return db.ErrIndexExists
	}
	cp := *def
	s.indexes[def.Name] = &cp
	return nil
}

// IndexExists reports whether name is registered.
func (s *Store) IndexExists(_ context.Context, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.indexes[name]
	return ok, nil
}

// --- search ---

// SearchKNN scores every indexed hash that passes the filter and returns the k most similar.
// Ties are broken by key so results are deterministic.
func (s *Store) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	if len(q.Vector) == 0 {
		return nil, fmt.Errorf("vector is required")
	}
	if q.K <= 0 {
		return nil, fmt.Errorf("k must be positive")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.indexes[q.IndexName]
	if !ok {
		return nil, &db.Error{Op: db.OpSearch, Err: db.ErrIndexNotFound}
	}
	vf := idx.VectorField()
	if len(q.Vector) != vf.VectorDim {
		return nil, &db.Error{Op: db.OpSearch, Err: fmt.Errorf("query dim %d != index dim %d", len(q.Vector), vf.VectorDim)}
	}

	qm := magnitude(q.Vector)
	hits := make([]db.SearchEntry, 0)
	for key, h := range s.hashes {
		if err := ctx.Err(); err != nil {
			return nil, &db.Error{Op: db.OpSearch, Err: err}
		}
		if !hasPrefix(key, idx.Prefixes) {
			continue
		}
		vec, err := db.DecodeVector(h[vf.Name])
		if err != nil || len(vec) != vf.VectorDim {
			continue // not indexable, the server skips such hashes as well
		}
		if !q.Filters.Matches(h) {
			continue
		}
		score := similarity(q.Vector, qm, vec)
		hits = append(hits, db.SearchEntry{
			Key:    key,
			Score:  &score,
			Fields: project(h, q.ReturnFields),
		})
	}

	sort.Slice(hits, func(a, b int) bool {
		if *hits[a].Score != *hits[b].Score {
			return *hits[a].Score > *hits[b].Score
		}
		return hits[a].Key < hits[b].Key
	})
	if len(hits) > q.K {
		hits = hits[:q.K]
	}
	return &db.SearchResult{Total: len(hits), Entries: hits}, nil
}

// SearchCount returns the number of hashes under the index prefixes.
func (s *Store) SearchCount(_ context.Context, index string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, ok := s.indexes[index]
	if !ok {
		return 0, db.ErrIndexNotFound
	}
	n := 0
	for key := range s.hashes {
		if hasPrefix(key, idx.Prefixes) {
			n++
		}
	}
	return n, nil
}

func hasPrefix(key string, prefixes []string) bool {
	if len(prefixes) == 0 {
		return true
	}
	for _, p := range prefixes {
		if strings.HasPrefix(key, p) {
			return true
		}
	}
	return false
}

func project(h map[string]string, fields []string) map[string]string {
	if len(fields) == 0 {
		return maps.Clone(h)
	}
	out := make(map[string]string, len(fields))
	for _, f := range fields {
		if v, ok := h[f]; ok {
			out[f] = v
		}
	}
	return out
}

// similarity is cosine similarity clamped to [0,1], matching 1 - cosine distance on the server.
func similarity(q []float32, qm float64, v []float32) float64 {
	vm := magnitude(v)
	if qm == 0 || vm == 0 {
		return 0
	}
	s := dot(q, v) / (qm * vm)
	if math.IsNaN(s) {
		return 0
	}
	return min(1, max(0, s))
}

func dot(a, b []float32) float64 {
	var s float64
	for i := range a {
		s += float64(a[i]) * float64(b[i])
	}
	return s
}

func magnitude(v []float32) float64 {
	return math.Sqrt(dot(v, v))
}
