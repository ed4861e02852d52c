// Package jsonfile implements the durable order store: a single JSON
// document on local disk holding the order-number counter and the full
// order list, rewritten in full on every mutation.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/angiandrew/enhancedchem-sub000/internal/domain/order"
	"github.com/angiandrew/enhancedchem-sub000/internal/storage/memory"
)

// counterBaseline matches the in-memory store: the first allocated order
// number is #1000.
const counterBaseline = 999

var _ order.Store = (*Store)(nil)

// document is the on-disk layout. The whole file is read and rewritten on
// every operation; there is no incremental append or compaction.
type document struct {
	LastOrderNumber int64         `json:"lastOrderNumber"`
	Orders          []order.Order `json:"orders"`
}

// Store persists orders to a JSON document at a fixed path.
//
// Every operation holds a single mutex across its read-modify-write cycle,
// so concurrent requests within one process cannot interleave counter
// increments or lose appends. Writes go through a temp file and rename,
// which is atomic on the same filesystem: a crash mid-write leaves the
// previous document intact.
//
// Filesystem faults never reach the caller. A failing call degrades to a
// process-local shadow store and logs a warning; once disk access recovers,
// later calls resume against the document. Orders and counter values issued
// while degraded are not reconciled back to disk, so faults can leave gaps
// or duplicates in the number sequence. That trade (accept the checkout,
// even inconsistently, over failing it) is deliberate.
type Store struct {
	path string
	lg   *zap.Logger

	mu     sync.Mutex
	shadow *memory.Store
}

// New returns a Store persisting to path. The parent directory is created
// lazily on first write.
func New(path string, lg *zap.Logger) *Store {
	return &Store{
		path:   path,
		lg:     lg,
		shadow: memory.New(),
	}
}

// NextNumber increments the persisted counter and returns "#<N>". The new
// value is written to disk before returning; on any filesystem error the
// call degrades to the shadow counter.
func (s *Store) NextNumber(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return s.fallbackNumber(ctx, err)
	}

	doc.LastOrderNumber++
	if err := s.persist(doc); err != nil {
		return s.fallbackNumber(ctx, err)
	}
	return fmt.Sprintf("#%d", doc.LastOrderNumber), nil
}

// Save stamps the order (CreatedAt=now, Status=pending) via the shadow
// store's stamping rules, appends it to the document, and persists.
func (s *Store) Save(ctx context.Context, o *order.Order) (*order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		s.warn("save order", err)
		return s.shadow.Save(ctx, o)
	}

	// Stamp through the shadow store so both backends enrich records
	// identically; the stamped copy is what lands in the document.
	stamped, _ := s.shadow.Save(ctx, o)
	doc.Orders = append(doc.Orders, *stamped)
	if err := s.persist(doc); err != nil {
		s.warn("save order", err)
	}
	return stamped, nil
}

// All returns every persisted order, newest first. Read failures fall back
// to whatever the shadow store has absorbed.
func (s *Store) All(ctx context.Context) ([]order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		s.warn("list orders", err)
		return s.shadow.All(ctx)
	}

	out := make([]order.Order, len(doc.Orders))
	copy(out, doc.Orders)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// UpdateStatus rewrites the document with the new status for the matching
// order. Not-found is reported as false with no write.
func (s *Store) UpdateStatus(ctx context.Context, number string, status order.Status) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		s.warn("update order status", err)
		return s.shadow.UpdateStatus(ctx, number, status)
	}

	for i := range doc.Orders {
		if doc.Orders[i].Number != number {
			continue
		}
		doc.Orders[i].Status = status
		if err := s.persist(doc); err != nil {
			s.warn("update order status", err)
			// The write is lost but the order exists; report found so the
			// admin flow does not surface a spurious 404.
		}
		return true, nil
	}
	return false, nil
}

// ByNumber scans the document for the matching order, or nil when absent.
func (s *Store) ByNumber(ctx context.Context, number string) (*order.Order, error) {
	all, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].Number == number {
			out := all[i]
			return &out, nil
		}
	}
	return nil, nil
}

// load reads and decodes the document. A missing file yields a fresh
// document with the baseline counter; any other failure (permissions,
// corruption) is an error for the caller to absorb.
func (s *Store) load() (*document, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &document{LastOrderNumber: counterBaseline}, nil
		}
		return nil, errors.Wrap(err, "read order document")
	}

	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Wrap(err, "decode order document")
	}
	if doc.LastOrderNumber < counterBaseline {
		doc.LastOrderNumber = counterBaseline
	}
	return &doc, nil
}

// persist writes the document atomically: encode to a temp file in the same
// directory, fsync, then rename over the target.
func (s *Store) persist(doc *document) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "create data dir")
	}

	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode order document")
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return errors.Wrap(err, "create temp file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return errors.Wrap(err, "write temp file")
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return errors.Wrap(err, "sync temp file")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "close temp file")
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return errors.Wrap(err, "replace order document")
	}
	return nil
}

// fallbackNumber allocates from the shadow counter after a disk fault. The
// resulting number may duplicate one already on disk; the warning is the
// only trace of that.
func (s *Store) fallbackNumber(ctx context.Context, cause error) (string, error) {
	s.warn("allocate order number", cause)
	return s.shadow.NextNumber(ctx)
}

func (s *Store) warn(op string, err error) {
	s.lg.Warn("order store degraded to in-memory fallback",
		zap.String("op", op),
		zap.String("path", s.path),
		zap.Error(err),
	)
}
