package services

import (
	"context"
	"time"

	"tastebase-backend/application/ports"
	"tastebase-backend/domain/revalidation"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// defaultMaxConcurrency bounds the invalidation fan-out per request.
const defaultMaxConcurrency = 8

// RevalidationService resolves a domain event to its invalidation targets and
// fans the invalidations out to the render cache. Each request is stateless:
// no queue, no retry state. Callers re-trigger the whole (idempotent) request
// on failure instead.
type RevalidationService struct {
	cache          ports.RenderCache
	recipes        ports.RecipeReader
	logger         *zap.Logger
	maxConcurrency int
}

// NewRevalidationService creates a new revalidation service. recipes may be
// nil; event enrichment is then skipped and the policy's broad sets apply.
func NewRevalidationService(
	cache ports.RenderCache,
	recipes ports.RecipeReader,
	logger *zap.Logger,
) *RevalidationService {
	return &RevalidationService{
		cache:          cache,
		recipes:        recipes,
		logger:         logger,
		maxConcurrency: defaultMaxConcurrency,
	}
}

// Summary aggregates the per-target outcomes of one revalidation request.
type Summary struct {
	OperationID string                            `json:"operation_id"`
	Event       string                            `json:"event"`
	Results     []revalidation.InvalidationResult `json:"results"`
	Succeeded   int                               `json:"succeeded"`
	Failed      int                               `json:"failed"`
	StartedAt   time.Time                         `json:"started_at"`
	Duration    time.Duration                     `json:"-"`
}

// Targets returns the full target set this summary covers.
func (s *Summary) Targets() []revalidation.InvalidationTarget {
	targets := make([]revalidation.InvalidationTarget, len(s.Results))
	for i, res := range s.Results {
		targets[i] = res.Target
	}
	return targets
}

// Revalidate resolves the event's targets and invalidates each one. Targets
// are independent, so a failure on one never stops the others; failures are
// collected into the summary instead. The method itself never returns an
// error — callers inspect Summary.Failed.
func (s *RevalidationService) Revalidate(ctx context.Context, event revalidation.DomainEvent) *Summary {
	started := time.Now()
	event = s.enrich(ctx, event)
	targets := revalidation.ResolveTargets(event)

	summary := &Summary{
		OperationID: uuid.New().String(),
		Event:       event.EventName(),
		Results:     make([]revalidation.InvalidationResult, len(targets)),
		StartedAt:   started,
	}

	// Once an invalidation is issued it runs to completion even if the caller
	// goes away: a finished invalidation is always safe, an abandoned one can
	// leave a stale page behind.
	fanoutCtx := context.WithoutCancel(ctx)

	g := new(errgroup.Group)
	g.SetLimit(s.maxConcurrency)
	for i, target := range targets {
		g.Go(func() error {
			summary.Results[i] = s.invalidateOne(fanoutCtx, target)
			return nil
		})
	}
	g.Wait()

	for _, res := range summary.Results {
		if res.Success {
			summary.Succeeded++
		} else {
			summary.Failed++
		}
	}
	summary.Duration = time.Since(started)

	s.logger.Info("Revalidation completed",
		zap.String("operationID", summary.OperationID),
		zap.String("event", summary.Event),
		zap.Int("targets", len(targets)),
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("failed", summary.Failed),
		zap.Duration("duration", summary.Duration),
	)

	return summary
}

// invalidateOne issues a single cache invalidation and records the outcome.
func (s *RevalidationService) invalidateOne(ctx context.Context, target revalidation.InvalidationTarget) revalidation.InvalidationResult {
	var err error
	switch target.Kind {
	case revalidation.TargetPath:
		err = s.cache.InvalidatePath(ctx, target.Value)
	case revalidation.TargetTag:
		err = s.cache.InvalidateTag(ctx, target.Value)
	}

	result := revalidation.InvalidationResult{
		Target:    target,
		Success:   err == nil,
		Timestamp: time.Now(),
	}
	if err != nil {
		result.Error = err.Error()
		// Logged per target so an operator can replay the exact miss.
		s.logger.Error("Cache invalidation failed",
			zap.String("kind", string(target.Kind)),
			zap.String("value", target.Value),
			zap.Error(err),
		)
	}
	return result
}

// enrich fills in event fields the trigger omitted, when the data repository
// can recover them. A recipe update reported without its category would skip
// the category page; looking the recipe up closes that gap. Lookup failures
// degrade to the un-enriched event — over-invalidation is handled by the
// policy's base set, and a repository hiccup must never fail the request.
func (s *RevalidationService) enrich(ctx context.Context, event revalidation.DomainEvent) revalidation.DomainEvent {
	updated, ok := event.(revalidation.RecipeUpdated)
	if !ok || updated.Slug == "" || updated.Category != "" || s.recipes == nil {
		return event
	}

	recipe, err := s.recipes.GetRecipeBySlug(ctx, updated.Slug)
	if err != nil {
		s.logger.Warn("Recipe lookup for enrichment failed",
			zap.String("slug", updated.Slug),
			zap.Error(err),
		)
		return event
	}
	if recipe == nil || recipe.Category == "" {
		return event
	}

	updated.Category = recipe.Category
	return updated
}
