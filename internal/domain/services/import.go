// Package services contains the domain services of the legends import
// pipeline: reference resolution and the streaming import orchestrator.
package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/ersonp/legends-core/internal/domain/builders"
	"github.com/ersonp/legends-core/internal/domain/entities"
	"github.com/ersonp/legends-core/internal/domain/ports"
	"github.com/ersonp/legends-core/internal/infrastructure/sanitize"
	"github.com/ersonp/legends-core/internal/infrastructure/xmlstream"
)

// Input is one export document to import.
type Input struct {
	Reader io.Reader
	Kind   builders.DocKind
	Name   string
}

// ImportOptions controls batching and queue limits.
type ImportOptions struct {
	BatchSize     int // rows per insert batch
	MaxPending    int // cap on records awaiting reference resolution
	ProgressEvery int // log progress every N records, 0 disables
}

// DefaultBatchSize is the number of rows committed per insert batch.
const DefaultBatchSize = 1000

// Report summarizes an import run.
type Report struct {
	WorldName    *string
	WorldAltName *string
	Counts       map[string]int64
	// Written counts rows accepted by the store. A site present in both
	// exports is written once per document and merged into one row, so
	// Written can exceed the sum of the final table counts.
	Written int64
	Malformed    int
	Dangling     int
	Violations   int
	Truncated    bool
	TruncatedAt  int64
	Diagnostics  []entities.Diagnostic
}

// ImportService streams export documents into the store. Parsing runs in its
// own goroutine; resolution and batched writes happen on the caller's.
type ImportService struct {
	store ports.Store
	log   *slog.Logger
	opts  ImportOptions
}

// NewImportService creates an import service writing to store.
func NewImportService(store ports.Store, log *slog.Logger, opts ImportOptions) *ImportService {
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if log == nil {
		log = slog.Default()
	}
	return &ImportService{store: store, log: log, opts: opts}
}

// parsed is one unit of parser output: a finished record or a malformed-record
// diagnostic, never both.
type parsed struct {
	res  *builders.Result
	diag *entities.Diagnostic
}

// Run imports the given documents in order into a freshly cleared store.
// A truncated document stops the run after committing everything parsed so
// far; the report flags the partial import. Diagnostics never abort the run.
func (s *ImportService) Run(ctx context.Context, inputs []Input) (*Report, error) {
	if err := s.store.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensuring schema: %w", err)
	}
	if err := s.store.Clear(ctx); err != nil {
		return nil, fmt.Errorf("clearing tables: %w", err)
	}

	report := &Report{}
	resolver := NewResolver(s.opts.MaxPending)
	batches := newBatcher(s.store, s.opts.BatchSize)
	world := &entities.World{}

	for _, in := range inputs {
		if err := s.runInput(ctx, in, resolver, batches, world, report); err != nil {
			var trunc *xmlstream.TruncatedError
			if errors.As(err, &trunc) {
				report.Truncated = true
				report.TruncatedAt = trunc.Offset
				s.log.Warn("document truncated, stopping after commit",
					"file", in.Name, "offset", trunc.Offset)
				break
			}
			return nil, fmt.Errorf("importing %s: %w", in.Name, err)
		}
	}

	ready, diags := resolver.Flush()
	s.record(report, diags)
	for _, res := range ready {
		if err := batches.add(ctx, res, report); err != nil {
			return nil, err
		}
	}
	if err := batches.flushAll(ctx, report); err != nil {
		return nil, err
	}

	if world.Name != nil || world.AltName != nil {
		if err := s.store.WriteWorld(ctx, world); err != nil {
			return nil, fmt.Errorf("writing world record: %w", err)
		}
		report.WorldName = world.Name
		report.WorldAltName = world.AltName
	}

	counts, err := s.store.Counts(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting rows: %w", err)
	}
	report.Counts = counts
	return report, nil
}

// runInput parses one document on a goroutine and drains its records through
// the resolver into the batcher.
func (s *ImportService) runInput(ctx context.Context, in Input, resolver *Resolver, batches *batcher, world *entities.World, report *Report) error {
	s.log.Info("importing document", "file", in.Name, "kind", string(in.Kind))

	out := make(chan parsed, 256)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		errc <- s.parse(ctx, in, out, world)
	}()

	var n int
	for p := range out {
		if p.diag != nil {
			s.record(report, []entities.Diagnostic{*p.diag})
			continue
		}
		ready, diags := resolver.Process(p.res)
		s.record(report, diags)
		for _, res := range ready {
			if err := batches.add(ctx, res, report); err != nil {
				// unblock the parser before returning
				go func() {
					for range out {
					}
				}()
				return err
			}
		}
		n++
		if s.opts.ProgressEvery > 0 && n%s.opts.ProgressEvery == 0 {
			s.log.Info("import progress", "file", in.Name,
				"records", n, "pending", resolver.Pending())
		}
	}
	if err := <-errc; err != nil {
		return err
	}
	s.log.Info("document done", "file", in.Name, "records", n)
	return nil
}

// parse tokenizes one document and emits finished records. Prologue name
// fields of the plus export are captured into the world record.
func (s *ImportService) parse(ctx context.Context, in Input, out chan<- parsed, world *entities.World) error {
	tok := xmlstream.NewTokenizer(sanitize.NewReader(in.Reader))

	var cur builders.Builder
	var prologue string
	for {
		ev, err := tok.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		switch ev.Kind {
		case xmlstream.StartElement:
			switch {
			case cur != nil:
				cur.Open(ev.Name)
			default:
				// records match by tag name wherever their category wrapper
				// nests them
				if b := builders.ForTag(ev.Name, in.Kind); b != nil {
					cur = b
					cur.Open(ev.Name)
				} else if in.Kind == builders.DocPlus && tok.Depth() == 2 {
					prologue = ev.Name
				}
			}
		case xmlstream.Text:
			switch {
			case cur != nil:
				cur.Text(ev.Text)
			case prologue == "name" && world.Name == nil:
				v := ev.Text
				world.Name = &v
			case prologue == "altname" && world.AltName == nil:
				v := ev.Text
				world.AltName = &v
			}
		case xmlstream.EndElement:
			prologue = ""
			if cur == nil {
				continue
			}
			res, diag, done := cur.Close(ev.Name)
			if !done {
				continue
			}
			cur = nil
			p := parsed{res: res, diag: diag}
			select {
			case out <- p:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

// record tallies diagnostics into the report.
func (s *ImportService) record(report *Report, diags []entities.Diagnostic) {
	for _, d := range diags {
		switch d.Kind {
		case entities.DiagMalformedRecord:
			report.Malformed++
		case entities.DiagDanglingReference:
			report.Dangling++
		case entities.DiagConstraintViolation:
			report.Violations++
		}
		s.log.Debug("import diagnostic", "diag", d.String())
		report.Diagnostics = append(report.Diagnostics, d)
	}
}

// writeOrder lists every table a batch can target, parents before children,
// so the final flush commits in a stable order.
var writeOrder = []string{
	entities.TableRegions,
	entities.TableUndergroundRegions,
	entities.TableLandmasses,
	entities.TableMountainPeaks,
	entities.TableSites,
	entities.TableStructures,
	entities.TableSiteProperties,
	entities.TableEntities,
	entities.TableEntityPositions,
	entities.TablePositionAssignments,
	entities.TableHistoricalFigures,
	entities.TableHFEntityLinks,
	entities.TableHFSiteLinks,
	entities.TableHFRelationships,
	entities.TableArtifacts,
	entities.TableHistoricalEvents,
	entities.TableWrittenContent,
	entities.TableWrittenStyles,
	entities.TableWrittenReferences,
}

// batcher stages rows per table and writes a table's stage once it reaches
// the batch size.
type batcher struct {
	store ports.Store
	size  int
	stage map[string][]any
}

func newBatcher(store ports.Store, size int) *batcher {
	return &batcher{store: store, size: size, stage: make(map[string][]any)}
}

// add stages a result's primary row and child rows, flushing any table that
// reached the batch size.
func (b *batcher) add(ctx context.Context, res *builders.Result, report *Report) error {
	if err := b.stageRow(ctx, res.Table, res.Row, report); err != nil {
		return err
	}
	for _, c := range res.Children {
		if err := b.stageRow(ctx, c.Table, c.Row, report); err != nil {
			return err
		}
	}
	return nil
}

func (b *batcher) stageRow(ctx context.Context, table string, row any, report *Report) error {
	b.stage[table] = append(b.stage[table], row)
	if len(b.stage[table]) >= b.size {
		return b.flush(ctx, table, report)
	}
	return nil
}

func (b *batcher) flush(ctx context.Context, table string, report *Report) error {
	rows := b.stage[table]
	if len(rows) == 0 {
		return nil
	}
	b.stage[table] = nil
	written, diags, err := b.store.WriteBatch(ctx, table, rows)
	if err != nil {
		return fmt.Errorf("writing %s batch: %w", table, err)
	}
	report.Written += int64(written)
	for _, d := range diags {
		switch d.Kind {
		case entities.DiagMalformedRecord:
			report.Malformed++
		case entities.DiagDanglingReference:
			report.Dangling++
		case entities.DiagConstraintViolation:
			report.Violations++
		}
		report.Diagnostics = append(report.Diagnostics, d)
	}
	return nil
}

// flushAll commits every staged table in writeOrder.
func (b *batcher) flushAll(ctx context.Context, report *Report) error {
	for _, table := range writeOrder {
		if err := b.flush(ctx, table, report); err != nil {
			return err
		}
	}
	return nil
}
