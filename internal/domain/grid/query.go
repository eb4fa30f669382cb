package grid

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Romer4ig/image-moderation/internal/utils/platformerrors"
)

const (
	DefaultPerPage = 100
	MaxPerPage     = 500
	MinPerPage     = 1
)

// SortField orders the collection rows.
type SortField string

const (
	SortByID               SortField = "id"
	SortByName             SortField = "name"
	SortByCreatedAt        SortField = "created_at"
	SortByType             SortField = "type"
	SortByLastGenerationAt SortField = "last_generation_at"
)

// SortOrder is the direction of SortField.
type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// AdvancedFilter narrows collections by their prompt fields.
type AdvancedFilter string

const (
	AdvancedNone          AdvancedFilter = ""
	AdvancedEmptyPositive AdvancedFilter = "empty_positive"
	AdvancedHasComment    AdvancedFilter = "has_comment"
	// AdvancedNoDynamic keeps collections whose positive prompt has no
	// wildcard ("__name__") or dynamic ("{a|b}") syntax.
	AdvancedNoDynamic AdvancedFilter = "no_dynamic"
)

// StatusFilter narrows collections by their state against the visible projects.
type StatusFilter string

const (
	StatusFilterNone StatusFilter = ""
	// StatusFilterNotSelected keeps collections lacking a selection for at
	// least one visible project.
	StatusFilterNotSelected StatusFilter = "not_selected"
	// StatusFilterNotGenerated keeps collections with no generation for any
	// visible project.
	StatusFilterNotGenerated StatusFilter = "not_generated"
)

// RawQuery holds the grid parameters as received. VisibleProjectIDs is nil
// when the parameter was absent.
type RawQuery struct {
	VisibleProjectIDs *string
	Search            string
	Type              string
	Advanced          string
	Sort              string
	Order             string
	StatusFilter      string
	Page              string
	PerPage           string
}

// Query is a validated grid request.
type Query struct {
	// ExplicitProjects is true when the caller restricted the visible projects.
	ExplicitProjects  bool
	VisibleProjectIDs []string
	Search            string
	Type              string
	Advanced          AdvancedFilter
	Sort              SortField
	Order             SortOrder
	StatusFilter      StatusFilter
	Page              int
	PerPage           int
}

// Offset is the number of rows before the requested page.
func (q Query) Offset() int {
	return (q.Page - 1) * q.PerPage
}

// ParseQuery validates raw grid parameters. Unknown enum values and
// non-integer paging values are rejected; page sizes are clamped.
func ParseQuery(ctx context.Context, raw RawQuery) (Query, error) {
	q := Query{
		Search: strings.TrimSpace(raw.Search),
		Type:   strings.TrimSpace(raw.Type),
		Sort:   SortByID,
		Order:  OrderAsc,
	}

	if raw.VisibleProjectIDs != nil {
		q.ExplicitProjects = true
		q.VisibleProjectIDs = SplitIDs(*raw.VisibleProjectIDs)
	}

	switch v := AdvancedFilter(strings.ToLower(strings.TrimSpace(raw.Advanced))); v {
	case AdvancedNone, AdvancedEmptyPositive, AdvancedHasComment, AdvancedNoDynamic:
		q.Advanced = v
	default:
		return q, invalid(ctx, "advanced", raw.Advanced)
	}

	switch v := SortField(strings.ToLower(strings.TrimSpace(raw.Sort))); v {
	case "":
	case SortByID, SortByName, SortByCreatedAt, SortByType, SortByLastGenerationAt:
		q.Sort = v
	default:
		return q, invalid(ctx, "sort", raw.Sort)
	}

	switch strings.ToLower(strings.TrimSpace(raw.Order)) {
	case "", "asc", "ascending":
		q.Order = OrderAsc
	case "desc", "descending":
		q.Order = OrderDesc
	default:
		return q, invalid(ctx, "order", raw.Order)
	}

	switch v := StatusFilter(strings.ToLower(strings.TrimSpace(raw.StatusFilter))); v {
	case StatusFilterNone, StatusFilterNotSelected, StatusFilterNotGenerated:
		q.StatusFilter = v
	default:
		return q, invalid(ctx, "generation_status_filter", raw.StatusFilter)
	}

	page, err := parseInt(raw.Page, 1)
	if err != nil {
		return q, invalid(ctx, "page", raw.Page)
	}
	q.Page = max(page, 1)

	perPage, err := parseInt(raw.PerPage, DefaultPerPage)
	if err != nil {
		return q, invalid(ctx, "per_page", raw.PerPage)
	}
	q.PerPage = ClampPerPage(perPage)

	return q, nil
}

// ClampPerPage bounds a page size to [MinPerPage, MaxPerPage].
func ClampPerPage(perPage int) int {
	return min(max(perPage, MinPerPage), MaxPerPage)
}

// SplitIDs parses a comma separated id list, dropping blanks and duplicates.
func SplitIDs(raw string) []string {
	ids := []string{}
	seen := map[string]struct{}{}
	for _, part := range strings.Split(raw, ",") {
		id := strings.TrimSpace(part)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

func parseInt(raw string, fallback int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}

func invalid(ctx context.Context, param, value string) error {
	return platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
		fmt.Sprintf("Invalid %s parameter: %q", param, value), nil, "grid-invalid-"+strings.ReplaceAll(param, "_", "-"),
		map[string]any{"parameter": param})
}
