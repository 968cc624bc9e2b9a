package revalidation

import "time"

// TargetKind distinguishes the two invalidation mechanisms the render cache
// supports: dropping the cached render of one route, or dropping every cached
// entry labelled with a tag.
type TargetKind string

const (
	TargetPath TargetKind = "path"
	TargetTag  TargetKind = "tag"
)

// InvalidationTarget identifies one cache entry set to invalidate. Paths begin
// with "/", tags are lowercase identifiers such as "recipes" or "latest-recipes".
type InvalidationTarget struct {
	Kind  TargetKind `json:"kind"`
	Value string     `json:"value"`
}

// PathTarget builds a path-kind target.
func PathTarget(path string) InvalidationTarget {
	return InvalidationTarget{Kind: TargetPath, Value: path}
}

// TagTarget builds a tag-kind target.
func TagTarget(tag string) InvalidationTarget {
	return InvalidationTarget{Kind: TargetTag, Value: tag}
}

// DomainEvent is the closed set of content changes that can trigger
// revalidation. Events are constructed per request, consumed synchronously and
// discarded; nothing here is ever persisted.
type DomainEvent interface {
	// EventName identifies the variant in logs and summaries.
	EventName() string
	isDomainEvent()
}

// NewRecipe signals that a recipe was published.
type NewRecipe struct {
	Category string
}

// RecipeUpdated signals that an existing recipe changed. Slug and Category are
// both optional; the policy degrades to a broader target set when they are
// missing rather than failing.
type RecipeUpdated struct {
	Slug     string
	Category string
}

// RecipeDeleted signals that a recipe was removed.
type RecipeDeleted struct {
	Category string
}

// CustomRequest carries an explicit caller-supplied target set. An empty
// request is a valid no-op, not an error.
type CustomRequest struct {
	Paths []string
	Tags  []string
}

// DefaultSweep invalidates the fixed site-wide target list.
type DefaultSweep struct{}

func (NewRecipe) EventName() string     { return "new_recipe" }
func (RecipeUpdated) EventName() string { return "recipe_updated" }
func (RecipeDeleted) EventName() string { return "recipe_deleted" }
func (CustomRequest) EventName() string { return "custom_request" }
func (DefaultSweep) EventName() string  { return "default_sweep" }

func (NewRecipe) isDomainEvent()     {}
func (RecipeUpdated) isDomainEvent() {}
func (RecipeDeleted) isDomainEvent() {}
func (CustomRequest) isDomainEvent() {}
func (DefaultSweep) isDomainEvent()  {}

// InvalidationResult records the outcome of one invalidation call. Results are
// aggregated into a per-request summary and returned to the caller; they are
// never stored.
type InvalidationResult struct {
	Target    InvalidationTarget `json:"target"`
	Success   bool               `json:"success"`
	Error     string             `json:"error,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
}
