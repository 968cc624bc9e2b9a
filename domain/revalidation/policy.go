package revalidation

import (
	"regexp"
	"strings"
)

// Tags and paths touched by any recipe create/update/delete. Listing pages
// render slices of the recipe collection, so every recipe change dirties them.
var (
	recipeChangeTags  = []string{"recipes", "latest-recipes", "all-recipes", "trending-recipes"}
	recipeChangePaths = []string{"/", "/recipes", "/explore"}
)

// Fixed target list for DefaultSweep.
var (
	sweepPaths = []string{"/", "/recipes", "/categories", "/explore", "/api/recipe", "/api/categories"}
	sweepTags  = []string{"recipes", "categories", "trending"}
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	nonSlugChars  = regexp.MustCompile(`[^a-z0-9-]`)
)

// ResolveTargets maps a domain event to the set of cache targets it dirties.
// Pure and deterministic: no I/O, never fails. Malformed events degrade to a
// broad set rather than erroring; a stale page is a bug, an extra re-render is
// not. Every event except an explicitly empty CustomRequest yields a non-empty
// set.
func ResolveTargets(event DomainEvent) []InvalidationTarget {
	switch e := event.(type) {
	case NewRecipe:
		return recipeChangeTargets("", e.Category)
	case RecipeUpdated:
		return recipeChangeTargets(e.Slug, e.Category)
	case RecipeDeleted:
		// A deletion shifts listings, trending and category pages the same way
		// a publish does. Scoping it more precisely is not worth a stale page,
		// so it invalidates the same broad set.
		return recipeChangeTargets("", e.Category)
	case CustomRequest:
		targets := make([]InvalidationTarget, 0, len(e.Paths)+len(e.Tags))
		for _, p := range e.Paths {
			targets = append(targets, PathTarget(p))
		}
		for _, t := range e.Tags {
			targets = append(targets, TagTarget(t))
		}
		return targets
	case DefaultSweep:
		targets := make([]InvalidationTarget, 0, len(sweepPaths)+len(sweepTags))
		for _, p := range sweepPaths {
			targets = append(targets, PathTarget(p))
		}
		for _, t := range sweepTags {
			targets = append(targets, TagTarget(t))
		}
		return targets
	default:
		// Unknown event type: over-invalidate the recipe collection.
		return []InvalidationTarget{TagTarget("recipes"), TagTarget("all-recipes")}
	}
}

// recipeChangeTargets is the shared set for recipe create/update/delete.
// Ordering: collection tags, the recipe's own page, its category page, then
// the listing routes. Order is cosmetic; the fan-out is commutative.
func recipeChangeTargets(slug, category string) []InvalidationTarget {
	targets := make([]InvalidationTarget, 0, len(recipeChangeTags)+len(recipeChangePaths)+3)
	for _, tag := range recipeChangeTags {
		targets = append(targets, TagTarget(tag))
	}
	if slug != "" {
		targets = append(targets, PathTarget("/recipes/"+slug))
	}
	if category != "" {
		targets = append(targets, TagTarget("categories"))
		targets = append(targets, PathTarget("/categories/"+SlugifyCategory(category)))
	}
	for _, path := range recipeChangePaths {
		targets = append(targets, PathTarget(path))
	}
	return targets
}

// SlugifyCategory normalizes a category name to the slug form used by the
// category page routes: lowercase, whitespace runs collapsed to single
// hyphens, everything outside [a-z0-9-] stripped. This must stay in lockstep
// with the site's routing or the invalidated path will miss the rendered
// route.
func SlugifyCategory(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = whitespaceRun.ReplaceAllString(slug, "-")
	return nonSlugChars.ReplaceAllString(slug, "")
}

// SplitTargets partitions a target set back into paths and tags, preserving
// order. Used by response envelopes that report the two lists separately.
func SplitTargets(targets []InvalidationTarget) (paths, tags []string) {
	for _, t := range targets {
		switch t.Kind {
		case TargetPath:
			paths = append(paths, t.Value)
		case TargetTag:
			tags = append(tags, t.Value)
		}
	}
	return paths, tags
}
