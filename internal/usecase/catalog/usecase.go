package catalog

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"library-borrowing/internal/domain/errs"
	"library-borrowing/internal/domain/resource"
	"library-borrowing/internal/logger"
)

// Usecase serves catalog reads and attaches category details to resources.
type Usecase struct {
	repo resource.Repository
	log  *slog.Logger
}

func NewUsecase(r resource.Repository, l *slog.Logger) *Usecase {
	if l == nil {
		l = logger.WithService("catalog")
	}
	return &Usecase{repo: r, log: l}
}

// Enrich attaches details in place with one batch lookup per category present.
// A resource with no detail row is left without one. A category whose lookup
// fails is logged and skipped; the others still attach.
func (u *Usecase) Enrich(ctx context.Context, resources []resource.Resource) {
	ids := make(map[resource.Category][]int64, len(resource.Categories))
	for i := range resources {
		c := resources[i].Category
		ids[c] = append(ids[c], resources[i].ID)
	}

	for _, c := range resource.Categories {
		if len(ids[c]) == 0 {
			continue
		}
		details, err := u.repo.ListDetails(ctx, c, ids[c])
		if err != nil {
			u.log.Warn("detail lookup failed; resources left without details",
				"category", c, "count", len(ids[c]), "err", err)
			continue
		}
		byID := make(map[int64]resource.Detail, len(details))
		for _, d := range details {
			if d != nil {
				byID[d.ForResource()] = d
			}
		}
		for i := range resources {
			if d, ok := byID[resources[i].ID]; ok {
				resources[i].Attach(d)
			}
		}
	}
}

// EnrichOne loads the detail for a single resource.
func (u *Usecase) EnrichOne(ctx context.Context, r *resource.Resource) error {
	if r == nil {
		return nil
	}
	details, err := u.repo.ListDetails(ctx, r.Category, []int64{r.ID})
	if err != nil {
		return storeErr("list details", err)
	}
	for _, d := range details {
		if r.Attach(d) {
			break
		}
	}
	return nil
}

// ListResources returns the filtered catalog with details attached.
func (u *Usecase) ListResources(ctx context.Context, f resource.Filter) ([]resource.Resource, error) {
	out, err := u.ListResourcesBasic(ctx, f)
	if err != nil {
		return nil, err
	}
	u.Enrich(ctx, out)
	return out, nil
}

// ListResourcesBasic is ListResources without the detail lookups.
func (u *Usecase) ListResourcesBasic(ctx context.Context, f resource.Filter) ([]resource.Resource, error) {
	if f.Category != "" {
		c, ok := resource.ParseCategory(string(f.Category))
		if !ok {
			return nil, &errs.ValidationError{Field: "category", Message: "must be one of book, periodical, media"}
		}
		f.Category = c
	}
	f.TitleContains = strings.TrimSpace(f.TitleContains)

	out, err := u.repo.List(ctx, f)
	if err != nil {
		return nil, storeErr("list resources", err)
	}
	return out, nil
}

// SearchResources matches titles containing query, case-insensitively.
func (u *Usecase) SearchResources(ctx context.Context, query string) ([]resource.Resource, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, &errs.ValidationError{Field: "q", Message: "must not be empty"}
	}
	return u.ListResources(ctx, resource.Filter{TitleContains: q})
}

func (u *Usecase) GetResource(ctx context.Context, id int64) (*resource.Resource, error) {
	if id <= 0 {
		return nil, &errs.ValidationError{Field: "resource_id", Message: "must be a positive integer"}
	}
	r, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr("get resource", err)
	}
	if err := u.EnrichOne(ctx, r); err != nil {
		u.log.Warn("detail lookup failed", "resource_id", id, "err", err)
	}
	return r, nil
}

func storeErr(op string, err error) error {
	if errors.Is(err, errs.ErrNotFound) || errs.IsStoreError(err) {
		return err
	}
	return &errs.StoreError{Message: op + ": " + err.Error(), Err: err}
}
