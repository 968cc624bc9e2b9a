package ports

import (
	"context"
	"errors"
	"time"
)

// ErrNotCached is returned by RenderCache.GetPage when no live entry exists
// for a path.
var ErrNotCached = errors.New("page not cached")

// Recipe is the read-model slice of a recipe record the revalidation layer
// needs: just enough to scope which pages a change affects.
type Recipe struct {
	Slug      string
	Title     string
	Category  string
	UpdatedAt time.Time
}

// RecipeReader provides read access to recipe and category records. The
// revalidation core uses it only to determine which paths and tags a change
// touches; all mutation goes through the CMS, not through this service.
type RecipeReader interface {
	// GetRecipeBySlug returns the recipe with the given slug, or nil if no
	// such recipe exists.
	GetRecipeBySlug(ctx context.Context, slug string) (*Recipe, error)

	// ListCategorySlugs returns the slugs of all categories with at least one
	// recipe.
	ListCategorySlugs(ctx context.Context) ([]string, error)
}

// RenderCache is the render/data cache the site serves pages from. Entries are
// keyed by path, optionally labelled with tags, and expire on a TTL.
// Invalidation is idempotent: invalidating an absent path or tag is a no-op,
// so callers may re-issue invalidations freely.
type RenderCache interface {
	// InvalidatePath drops the cached render for one route.
	InvalidatePath(ctx context.Context, path string) error

	// InvalidateTag drops every cached entry labelled with tag.
	InvalidateTag(ctx context.Context, tag string) error

	// GetPage returns the cached render for path, or ErrNotCached.
	GetPage(ctx context.Context, path string) ([]byte, error)

	// SetPage stores a rendered page under path, labelled with tags, expiring
	// after ttl.
	SetPage(ctx context.Context, path string, body []byte, tags []string, ttl time.Duration) error
}
