package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rezonia/invoice-renderer/internal/model"
)

// MemoryStore keeps templates in process memory. The active map is the
// single source of truth for activation; Template.Active is derived from it
// on every read.
type MemoryStore struct {
	mu        sync.RWMutex
	templates map[string]model.Template
	active    map[string]string
	now       func() time.Time
}

// MemoryOption configures a MemoryStore
type MemoryOption func(*MemoryStore)

// WithClock replaces the audit timestamp source
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) {
		s.now = now
	}
}

// NewMemoryStore creates an empty store
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		templates: make(map[string]model.Template),
		active:    make(map[string]string),
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ TemplateStore = (*MemoryStore)(nil)

func (s *MemoryStore) GetActive(_ context.Context, branchID string) (*model.Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.active[branchID]
	if !ok {
		return nil, nil
	}
	return s.copyOut(id)
}

func (s *MemoryStore) GetByID(_ context.Context, id string) (*model.Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyOut(id)
}

func (s *MemoryStore) List(_ context.Context, branchID string) ([]model.Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Template, 0)
	for id, t := range s.templates {
		if t.BranchID != branchID {
			continue
		}
		cp, err := s.copyOut(id)
		if err != nil {
			return nil, err
		}
		out = append(out, *cp)
	}
	sortTemplates(out)
	return out, nil
}

// SetActive swaps the branch pointer under the write lock, so concurrent
// activations serialize and the branch never has two actives
func (s *MemoryStore) SetActive(_ context.Context, id, actor string) (*model.Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.templates[id]
	if !ok {
		return nil, model.NewNotFoundError("template", id)
	}
	s.active[t.BranchID] = id
	t.UpdatedAt = s.now()
	t.UpdatedBy = actor
	s.templates[id] = t
	return s.copyOut(id)
}

func (s *MemoryStore) Create(_ context.Context, in *model.Template, actor string) (*model.Template, error) {
	if err := prepare(in); err != nil {
		return nil, err
	}
	sch, err := cloneSchema(in.Schema)
	if err != nil {
		return nil, err
	}

	now := s.now()
	t := model.Template{
		ID:        uuid.NewString(),
		BranchID:  in.BranchID,
		Name:      in.Name,
		PaperSize: in.PaperSize,
		Schema:    sch,
		CreatedAt: now,
		UpdatedAt: now,
		CreatedBy: actor,
		UpdatedBy: actor,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.templates[t.ID] = t
	return s.copyOut(t.ID)
}

func (s *MemoryStore) Update(_ context.Context, in *model.Template, actor string) (*model.Template, error) {
	if in == nil || in.ID == "" {
		return nil, model.NewValidationError("id", nil, "required", "template id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.templates[in.ID]
	if !ok {
		return nil, model.NewNotFoundError("template", in.ID)
	}
	in.BranchID = cur.BranchID
	if err := prepare(in); err != nil {
		return nil, err
	}
	sch, err := cloneSchema(in.Schema)
	if err != nil {
		return nil, err
	}

	cur.Name = in.Name
	cur.PaperSize = in.PaperSize
	cur.Schema = sch
	cur.UpdatedAt = s.now()
	cur.UpdatedBy = actor
	s.templates[cur.ID] = cur
	return s.copyOut(cur.ID)
}

func (s *MemoryStore) Duplicate(_ context.Context, id, actor string) (*model.Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	src, ok := s.templates[id]
	if !ok {
		return nil, model.NewNotFoundError("template", id)
	}
	sch, err := cloneSchema(src.Schema)
	if err != nil {
		return nil, err
	}

	now := s.now()
	dup := model.Template{
		ID:        uuid.NewString(),
		BranchID:  src.BranchID,
		Name:      src.Name + CopySuffix,
		PaperSize: src.PaperSize,
		Schema:    sch,
		CreatedAt: now,
		UpdatedAt: now,
		CreatedBy: actor,
		UpdatedBy: actor,
	}
	s.templates[dup.ID] = dup
	return s.copyOut(dup.ID)
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.templates[id]
	if !ok {
		return model.NewNotFoundError("template", id)
	}
	if s.active[t.BranchID] == id {
		return &model.ActiveTemplateProtectedError{TemplateID: id}
	}
	delete(s.templates, id)
	return nil
}

// copyOut returns a caller-owned copy. The lock must be held.
func (s *MemoryStore) copyOut(id string) (*model.Template, error) {
	t, ok := s.templates[id]
	if !ok {
		return nil, model.NewNotFoundError("template", id)
	}
	sch, err := cloneSchema(t.Schema)
	if err != nil {
		return nil, err
	}
	t.Schema = sch
	t.Active = s.active[t.BranchID] == id
	return &t, nil
}
