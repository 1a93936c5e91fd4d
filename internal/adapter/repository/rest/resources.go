package rest

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"library-borrowing/internal/domain/errs"
	"library-borrowing/internal/domain/resource"
)

const (
	tableResources   = "library_resources"
	tableBooks       = "books"
	tablePeriodicals = "periodicals"
	tableMedia       = "media_resources"
)

var detailTables = map[resource.Category]string{
	resource.CategoryBook:       tableBooks,
	resource.CategoryPeriodical: tablePeriodicals,
	resource.CategoryMedia:      tableMedia,
}

type resourceRow struct {
	ResourceID      int64      `json:"resource_id"`
	Title           string     `json:"title"`
	AccessionNumber string     `json:"accession_number"`
	Category        string     `json:"category"`
	Status          string     `json:"status"`
	CoverImage      *string    `json:"cover_image"`
	CreatedAt       *Timestamp `json:"created_at"`
	UpdatedAt       *Timestamp `json:"updated_at"`
}

func (r resourceRow) toDomain() resource.Resource {
	out := resource.Resource{
		ID:              r.ResourceID,
		Title:           r.Title,
		AccessionNumber: r.AccessionNumber,
		Category:        resource.Category(r.Category),
		Status:          resource.Status(r.Status),
		CoverImageURL:   r.CoverImage,
	}
	if c, ok := resource.ParseCategory(r.Category); ok {
		out.Category = c
	}
	if r.CreatedAt != nil {
		out.CreatedAt = r.CreatedAt.Time()
	}
	if r.UpdatedAt != nil {
		out.UpdatedAt = r.UpdatedAt.Time()
	}
	return out
}

type bookRow struct {
	ResourceID      int64      `json:"resource_id"`
	Author          string     `json:"author"`
	ISBN            string     `json:"isbn"`
	Publisher       string     `json:"publisher"`
	Edition         string     `json:"edition"`
	PublicationDate *Timestamp `json:"publication_date"`
}

type periodicalRow struct {
	ResourceID      int64      `json:"resource_id"`
	ISSN            string     `json:"issn"`
	Volume          string     `json:"volume"`
	Issue           string     `json:"issue"`
	PublicationDate *Timestamp `json:"publication_date"`
}

type mediaRow struct {
	ResourceID int64  `json:"resource_id"`
	Format     string `json:"format"`
	Runtime    *int   `json:"runtime"`
	MediaType  string `json:"media_type"`
}

type ResourceRepo struct{ c *Client }

func (r *ResourceRepo) GetByID(ctx context.Context, id int64) (*resource.Resource, error) {
	var rows []resourceRow
	q := url.Values{"resource_id": {eq(id)}, "select": {"*"}}
	if err := r.c.get(ctx, tableResources, q, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errs.ErrNotFound
	}
	out := rows[0].toDomain()
	return &out, nil
}

func (r *ResourceRepo) List(ctx context.Context, f resource.Filter) ([]resource.Resource, error) {
	q := url.Values{"select": {"*"}, "order": {"resource_id.asc"}}
	if f.Category != "" {
		q.Set("category", eq(f.Category))
	}
	if f.Status != "" {
		q.Set("status", eq(f.Status))
	}
	if f.TitleContains != "" {
		q.Set("title", ilikeContains(f.TitleContains))
	}

	var rows []resourceRow
	if err := r.c.get(ctx, tableResources, q, &rows); err != nil {
		return nil, err
	}
	out := make([]resource.Resource, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *ResourceRepo) UpdateStatus(ctx context.Context, id int64, status resource.Status) error {
	var rows []resourceRow
	q := url.Values{"resource_id": {eq(id)}}
	body := map[string]string{"status": string(status)}
	if err := r.c.do(ctx, http.MethodPatch, tableResources, q, body, &rows); err != nil {
		return err
	}
	if len(rows) == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *ResourceRepo) ListDetails(ctx context.Context, c resource.Category, ids []int64) ([]resource.Detail, error) {
	table, ok := detailTables[c]
	if !ok {
		return nil, &errs.ValidationError{Field: "category", Message: "unknown category " + strconv.Quote(string(c))}
	}
	if len(ids) == 0 {
		return nil, nil
	}
	q := url.Values{"resource_id": {in(ids)}, "select": {"*"}}

	switch c {
	case resource.CategoryBook:
		var rows []bookRow
		if err := r.c.get(ctx, table, q, &rows); err != nil {
			return nil, err
		}
		out := make([]resource.Detail, 0, len(rows))
		for _, b := range rows {
			out = append(out, &resource.BookDetail{
				ResourceID: b.ResourceID, Author: b.Author, ISBN: b.ISBN, Publisher: b.Publisher,
				Edition: b.Edition, PublicationDate: b.PublicationDate.TimePtr(),
			})
		}
		return out, nil
	case resource.CategoryPeriodical:
		var rows []periodicalRow
		if err := r.c.get(ctx, table, q, &rows); err != nil {
			return nil, err
		}
		out := make([]resource.Detail, 0, len(rows))
		for _, p := range rows {
			out = append(out, &resource.PeriodicalDetail{
				ResourceID: p.ResourceID, ISSN: p.ISSN, Volume: p.Volume, Issue: p.Issue,
				PublicationDate: p.PublicationDate.TimePtr(),
			})
		}
		return out, nil
	default:
		var rows []mediaRow
		if err := r.c.get(ctx, table, q, &rows); err != nil {
			return nil, err
		}
		out := make([]resource.Detail, 0, len(rows))
		for _, m := range rows {
			out = append(out, &resource.MediaDetail{
				ResourceID: m.ResourceID, Format: m.Format, Runtime: m.Runtime, MediaType: m.MediaType,
			})
		}
		return out, nil
	}
}
