package services

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/ersonp/legends-core/internal/domain/builders"
	"github.com/ersonp/legends-core/internal/domain/entities"
)

// DefaultMaxPending caps how many records with unresolved references may sit
// in the retry queue before the oldest is finalized early.
const DefaultMaxPending = 100000

// Resolver maps numeric source IDs to surrogate keys, one ID space per kind.
// Records whose references point at IDs not seen yet are queued and retried
// when the queue overflows and again at end of stream; a reference whose
// target never appears resolves to nil with a dangling diagnostic.
type Resolver struct {
	keys       map[entities.Kind]map[int64]string
	pending    []pendingResult
	maxPending int
}

type pendingResult struct {
	res  *builders.Result
	refs []builders.Ref
}

// NewResolver creates a resolver with the given pending-queue cap. A cap of
// zero or less falls back to DefaultMaxPending.
func NewResolver(maxPending int) *Resolver {
	if maxPending <= 0 {
		maxPending = DefaultMaxPending
	}
	return &Resolver{
		keys:       make(map[entities.Kind]map[int64]string),
		maxPending: maxPending,
	}
}

// Assign returns the surrogate key for (kind, id), minting one on first
// sight. It reports whether the pair had been seen before, which happens
// when the base and plus exports both carry the record.
func (r *Resolver) Assign(kind entities.Kind, id int64) (key string, existed bool) {
	m := r.keys[kind]
	if m == nil {
		m = make(map[int64]string)
		r.keys[kind] = m
	}
	if key, ok := m[id]; ok {
		return key, true
	}
	key = uuid.New().String()
	m[id] = key
	return key, false
}

// Resolve looks up the surrogate key for (kind, id) without minting one.
func (r *Resolver) Resolve(kind entities.Kind, id int64) (string, bool) {
	key, ok := r.keys[kind][id]
	return key, ok
}

// Process assigns the record its surrogate key and resolves its references.
// Fully resolved records come back ready to write; a record with unresolved
// references is queued instead. When the queue is over capacity the oldest
// queued record is finalized early and returned too, its still-unresolved
// references going nil with dangling diagnostics.
func (r *Resolver) Process(res *builders.Result) (ready []*builders.Result, diags []entities.Diagnostic) {
	if res.Kind != "" {
		key, _ := r.Assign(res.Kind, res.SourceID)
		res.SetKey(key)
	}

	unresolved := r.fill(res.Refs)
	if len(unresolved) == 0 {
		return []*builders.Result{res}, nil
	}

	r.pending = append(r.pending, pendingResult{res: res, refs: unresolved})
	for len(r.pending) > r.maxPending {
		oldest := r.pending[0]
		r.pending = r.pending[1:]
		finished, ds := r.finalize(oldest)
		ready = append(ready, finished)
		diags = append(diags, ds...)
	}
	return ready, diags
}

// Flush finalizes every queued record after the stream ends. References whose
// targets never appeared resolve to nil with a dangling diagnostic.
func (r *Resolver) Flush() (ready []*builders.Result, diags []entities.Diagnostic) {
	for _, p := range r.pending {
		finished, ds := r.finalize(p)
		ready = append(ready, finished)
		diags = append(diags, ds...)
	}
	r.pending = nil
	return ready, diags
}

// Pending reports how many records are waiting on unresolved references.
func (r *Resolver) Pending() int { return len(r.pending) }

// fill resolves what it can and returns the refs that remain unresolved.
func (r *Resolver) fill(refs []builders.Ref) []builders.Ref {
	var unresolved []builders.Ref
	for _, ref := range refs {
		if key, ok := r.Resolve(ref.Kind, ref.ID); ok {
			k := key
			*ref.Target = &k
			continue
		}
		unresolved = append(unresolved, ref)
	}
	return unresolved
}

func (r *Resolver) finalize(p pendingResult) (*builders.Result, []entities.Diagnostic) {
	var diags []entities.Diagnostic
	for _, ref := range r.fill(p.refs) {
		diags = append(diags, entities.Diagnostic{
			Kind:     entities.DiagDanglingReference,
			Record:   p.res.Kind,
			SourceID: p.res.SourceID,
			Detail:   fmt.Sprintf("%s #%d not found", ref.Kind, ref.ID),
		})
	}
	return p.res, diags
}
