package services

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	apperrors "taxonomy/internal/errors"
	"taxonomy/internal/hierarchy"
	"taxonomy/internal/logger"
	"taxonomy/internal/models"
)

// Snapshot is an immutable build of the hierarchy. A new one is published
// on every refresh; callers never mutate it.
type Snapshot struct {
	Forest     *hierarchy.Forest
	Generation uint64
	FetchedAt  time.Time
	// Stale is set when the fetch failed and the forest is empty.
	Stale bool
}

// appErrorer is implemented by transport errors that carry a store error code.
type appErrorer interface {
	AppError() *apperrors.AppError
}

// hierarchyService fetches categories from a CategorySource and keeps the
// latest hierarchy snapshot.
type hierarchyService struct {
	source CategorySource
	gen    atomic.Uint64
	cur    atomic.Pointer[Snapshot]
	log    *zap.SugaredLogger
	tracer trace.Tracer
	now    func() time.Time
}

// NewHierarchyService creates a new HierarchyServicer over source.
func NewHierarchyService(source CategorySource) HierarchyServicer {
	return newHierarchyService(source)
}

func newHierarchyService(source CategorySource) *hierarchyService {
	return &hierarchyService{
		source: source,
		log:    logger.Named("hierarchy"),
		tracer: otel.Tracer("taxonomy/hierarchy"),
		now:    time.Now,
	}
}

// Refresh fetches the flat and tree feeds concurrently and publishes a new
// snapshot. A result whose generation is older than the published one is
// discarded, so a slow refresh never overwrites a newer one. On failure an
// empty snapshot is published and STORE_UNAVAILABLE is returned.
func (s *hierarchyService) Refresh(ctx context.Context) (*Snapshot, error) {
	ctx, span := s.tracer.Start(ctx, "hierarchy.Refresh")
	defer span.End()

	gen := s.gen.Add(1)
	span.SetAttributes(attribute.Int64("hierarchy.generation", int64(gen)))

	var flat, tree []models.Category
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		flat, err = s.source.ListCategories(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		tree, err = s.source.GetTree(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		s.log.Errorw("category fetch failed", "generation", gen, "error", err)
		s.publish(&Snapshot{Forest: hierarchy.Build(nil), Generation: gen, FetchedAt: s.now(), Stale: true})
		return nil, apperrors.Wrap(apperrors.ErrStoreUnavailable, err)
	}

	forest := hierarchy.Build(tree)
	if forest.Len() == 0 && len(flat) > 0 {
		s.log.Warnw("tree feed empty, building from flat feed", "flat_count", len(flat))
		forest = hierarchy.Build(flat)
	}
	s.report(gen, forest, len(flat))
	span.SetAttributes(
		attribute.Int("hierarchy.nodes", forest.Len()),
		attribute.Bool("hierarchy.nested", forest.Nested),
	)

	snap := &Snapshot{Forest: forest, Generation: gen, FetchedAt: s.now()}
	if !s.publish(snap) {
		s.log.Debugw("discarding stale refresh", "generation", gen)
		return s.cur.Load(), nil
	}
	return snap, nil
}

// Current returns the published snapshot. It refreshes first when nothing
// has been published yet or the last fetch failed.
func (s *hierarchyService) Current(ctx context.Context) (*Snapshot, error) {
	if snap := s.cur.Load(); snap != nil && !snap.Stale {
		return snap, nil
	}
	return s.Refresh(ctx)
}

// CheckParent runs the cycle guard against the current snapshot.
func (s *hierarchyService) CheckParent(ctx context.Context, nodeID, parentID string) (hierarchy.Verdict, error) {
	snap, err := s.Current(ctx)
	if err != nil {
		return hierarchy.Verdict{}, err
	}
	return snap.Forest.CheckParent(nodeID, parentID), nil
}

// Reparent moves nodeID under parentID ("" makes it a root). The cycle guard
// runs first and a rejected move is never sent to the store.
func (s *hierarchyService) Reparent(ctx context.Context, nodeID, parentID string) (*models.Category, error) {
	ctx, span := s.tracer.Start(ctx, "hierarchy.Reparent", trace.WithAttributes(
		attribute.String("category.id", nodeID),
		attribute.String("category.parent_id", parentID),
	))
	defer span.End()

	snap, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}
	node, ok := snap.Forest.Node(nodeID)
	if !ok {
		return nil, apperrors.ErrCategoryNotFound
	}

	if v := snap.Forest.CheckParent(nodeID, parentID); !v.Valid {
		span.SetStatus(codes.Error, string(v.Reason))
		s.log.Infow("parent change rejected", "id", nodeID, "parent_id", parentID, "reason", v.Reason)
		return nil, apperrors.WithMessage(apperrors.ErrInvalidParent, v.Message)
	}

	record := node.Category
	record.Children = nil
	record.ParentID = nil
	if parentID != hierarchy.NoParent {
		p := parentID
		record.ParentID = &p
	}

	updated, err := s.source.UpdateCategory(ctx, record)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
		return nil, storeError(err)
	}

	if _, err := s.Refresh(ctx); err != nil {
		s.log.Warnw("refresh after parent change failed", "id", nodeID, "error", err)
	}
	return updated, nil
}

// Ancestors returns the store's ancestor chain for id, root first.
func (s *hierarchyService) Ancestors(ctx context.Context, id string) ([]models.Category, error) {
	out, err := s.source.GetAncestors(ctx, id)
	if err != nil {
		return nil, storeError(err)
	}
	return out, nil
}

func (s *hierarchyService) publish(snap *Snapshot) bool {
	for {
		cur := s.cur.Load()
		if cur != nil && cur.Generation > snap.Generation {
			return false
		}
		if s.cur.CompareAndSwap(cur, snap) {
			return true
		}
	}
}

func (s *hierarchyService) report(gen uint64, f *hierarchy.Forest, flatCount int) {
	if len(f.Orphans) > 0 {
		s.log.Warnw("categories with unknown parent placed at root", "generation", gen, "ids", f.Orphans)
	}
	if len(f.CycleBreaks) > 0 {
		s.log.Errorw("cycle in category feed broken for display", "generation", gen, "ids", f.CycleBreaks)
	}
	if len(f.Duplicates) > 0 {
		s.log.Warnw("duplicate category ids dropped", "generation", gen, "ids", f.Duplicates)
	}
	if flatCount != f.Len() {
		s.log.Warnw("flat and tree feeds disagree", "generation", gen, "flat_count", flatCount, "tree_count", f.Len())
	}
}

// storeError keeps AppErrors and store rejections intact and reports
// anything else as STORE_UNAVAILABLE.
func storeError(err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	var rejected appErrorer
	if errors.As(err, &rejected) {
		return rejected.AppError()
	}
	return apperrors.Wrap(apperrors.ErrStoreUnavailable, err)
}
