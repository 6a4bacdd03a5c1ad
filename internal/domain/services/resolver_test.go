package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/legends-core/internal/domain/builders"
	"github.com/ersonp/legends-core/internal/domain/entities"
)

func TestResolver_AssignIsIdempotent(t *testing.T) {
	r := NewResolver(0)

	key1, existed := r.Assign(entities.KindSite, 7)
	assert.False(t, existed)
	assert.NotEmpty(t, key1)

	// the plus export re-declares the same site ID
	key2, existed := r.Assign(entities.KindSite, 7)
	assert.True(t, existed)
	assert.Equal(t, key1, key2)

	// same ID in a different kind is a different record
	key3, existed := r.Assign(entities.KindEntity, 7)
	assert.False(t, existed)
	assert.NotEqual(t, key1, key3)
}

func TestResolver_ResolveDoesNotMint(t *testing.T) {
	r := NewResolver(0)

	_, ok := r.Resolve(entities.KindSite, 7)
	assert.False(t, ok)

	key, _ := r.Assign(entities.KindSite, 7)
	got, ok := r.Resolve(entities.KindSite, 7)
	assert.True(t, ok)
	assert.Equal(t, key, got)
}

// siteResult builds a minimal site record with an optional civ reference.
func siteResult(id int64, civID int64) (*builders.Result, *entities.Site) {
	site := &entities.Site{SourceID: id}
	res := &builders.Result{
		Kind:     entities.KindSite,
		Table:    entities.TableSites,
		SourceID: id,
		Row:      site,
	}
	if civID >= 0 {
		res.Refs = []builders.Ref{{Kind: entities.KindEntity, ID: civID, Target: &site.CivKey}}
	}
	return res, site
}

func entityResult(id int64) *builders.Result {
	ent := &entities.Entity{SourceID: id}
	return &builders.Result{
		Kind:     entities.KindEntity,
		Table:    entities.TableEntities,
		SourceID: id,
		Row:      ent,
	}
}

func TestResolver_ResolvedRecordPassesThrough(t *testing.T) {
	r := NewResolver(0)

	ready, diags := r.Process(entityResult(12))
	require.Len(t, ready, 1)
	assert.Empty(t, diags)

	res, site := siteResult(7, 12)
	ready, diags = r.Process(res)
	require.Len(t, ready, 1)
	assert.Empty(t, diags)
	require.NotNil(t, site.CivKey)

	entKey, _ := r.Resolve(entities.KindEntity, 12)
	assert.Equal(t, entKey, *site.CivKey)
}

func TestResolver_ForwardReferenceResolvesOnFlush(t *testing.T) {
	r := NewResolver(0)

	// the site references entity 12 before it is declared
	res, site := siteResult(7, 12)
	ready, diags := r.Process(res)
	assert.Empty(t, ready)
	assert.Empty(t, diags)
	assert.Equal(t, 1, r.Pending())

	ready, _ = r.Process(entityResult(12))
	require.Len(t, ready, 1)

	ready, diags = r.Flush()
	require.Len(t, ready, 1)
	assert.Empty(t, diags)
	assert.Equal(t, 0, r.Pending())

	require.NotNil(t, site.CivKey)
	entKey, _ := r.Resolve(entities.KindEntity, 12)
	assert.Equal(t, entKey, *site.CivKey)
}

func TestResolver_DanglingReferenceGoesNil(t *testing.T) {
	r := NewResolver(0)

	res, site := siteResult(7, 999)
	r.Process(res)

	ready, diags := r.Flush()
	require.Len(t, ready, 1)
	require.Len(t, diags, 1)
	assert.Equal(t, entities.DiagDanglingReference, diags[0].Kind)
	assert.Equal(t, entities.KindSite, diags[0].Record)
	assert.Equal(t, int64(7), diags[0].SourceID)
	assert.Contains(t, diags[0].Detail, "999")
	assert.Nil(t, site.CivKey)
}

func TestResolver_OverflowFinalizesOldest(t *testing.T) {
	r := NewResolver(2)

	first, firstSite := siteResult(1, 100)
	r.Process(first)
	second, _ := siteResult(2, 101)
	r.Process(second)
	assert.Equal(t, 2, r.Pending())

	// third unresolved record pushes the queue past its cap
	third, _ := siteResult(3, 102)
	ready, diags := r.Process(third)
	require.Len(t, ready, 1)
	assert.Same(t, first, ready[0])
	require.Len(t, diags, 1)
	assert.Equal(t, entities.DiagDanglingReference, diags[0].Kind)
	assert.Nil(t, firstSite.CivKey)
	assert.Equal(t, 2, r.Pending())
}

func TestResolver_OverflowRetriesBeforeDangling(t *testing.T) {
	r := NewResolver(1)

	res, site := siteResult(1, 12)
	r.Process(res)

	// the target arrives before the queue overflows
	r.Process(entityResult(12))

	next, _ := siteResult(2, 999)
	ready, diags := r.Process(next)
	require.Len(t, ready, 1)
	assert.Same(t, res, ready[0])
	assert.Empty(t, diags)
	require.NotNil(t, site.CivKey)
}
