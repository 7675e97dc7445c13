// Package provider supplies the read-only sale and branch records an
// invoice is rendered from.
package provider

import (
	"context"
	"sort"
	"sync"

	"github.com/rezonia/invoice-renderer/internal/model"
)

// SaleProvider loads sales for rendering
type SaleProvider interface {
	GetSaleForRendering(ctx context.Context, id string) (*model.Sale, error)
}

// BranchProvider loads the canonical seller identity of a branch
type BranchProvider interface {
	GetBranchInfo(ctx context.Context, branchID string) (*model.Branch, error)
}

// MemorySales is a SaleProvider over an in-process map
type MemorySales struct {
	mu    sync.RWMutex
	sales map[string]model.Sale
}

// NewMemorySales creates a provider seeded with sales
func NewMemorySales(sales ...model.Sale) *MemorySales {
	p := &MemorySales{sales: make(map[string]model.Sale, len(sales))}
	for _, s := range sales {
		p.Put(s)
	}
	return p
}

// Put adds or replaces a sale
func (p *MemorySales) Put(s model.Sale) {
	p.mu.Lock()
	defer p.mu.Unlock()
	s.Items = append([]model.LineItem(nil), s.Items...)
	p.sales[s.ID] = s
}

func (p *MemorySales) GetSaleForRendering(_ context.Context, id string) (*model.Sale, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	s, ok := p.sales[id]
	if !ok {
		return nil, model.NewNotFoundError("sale", id)
	}
	s.Items = append([]model.LineItem(nil), s.Items...)
	if s.Customer != nil {
		c := *s.Customer
		s.Customer = &c
	}
	return &s, nil
}

// IDs returns the known sale ids in sorted order
func (p *MemorySales) IDs() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	ids := make([]string, 0, len(p.sales))
	for id := range p.sales {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// MemoryBranches is a BranchProvider over an in-process map
type MemoryBranches struct {
	mu       sync.RWMutex
	branches map[string]model.Branch
}

// NewMemoryBranches creates a provider seeded with branches
func NewMemoryBranches(branches ...model.Branch) *MemoryBranches {
	p := &MemoryBranches{branches: make(map[string]model.Branch, len(branches))}
	for _, b := range branches {
		p.Put(b)
	}
	return p
}

// Put adds or replaces a branch
func (p *MemoryBranches) Put(b model.Branch) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.branches[b.ID] = cloneBranch(b)
}

func (p *MemoryBranches) GetBranchInfo(_ context.Context, branchID string) (*model.Branch, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	b, ok := p.branches[branchID]
	if !ok {
		return nil, model.NewNotFoundError("branch", branchID)
	}
	b = cloneBranch(b)
	return &b, nil
}

func cloneBranch(b model.Branch) model.Branch {
	names := make(model.LocalizedText, len(b.LegalName))
	for k, v := range b.LegalName {
		names[k] = v
	}
	b.LegalName = names
	return b
}
