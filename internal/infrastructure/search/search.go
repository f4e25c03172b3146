// Package search keeps a full-text index of bootcamps in Elasticsearch.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/bootcamp-directory/internal/domain/entity"
)

const requestTimeout = 3 * time.Second

// Index is the bootcamp search index.
type Index interface {
	Index(ctx context.Context, b *entity.Bootcamp) error
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, q string, size int) ([]map[string]any, error)
}

// Noop is used when Elasticsearch is not configured; searches return nothing.
type Noop struct{}

func (Noop) Index(context.Context, *entity.Bootcamp) error { return nil }
func (Noop) Delete(context.Context, string) error          { return nil }
func (Noop) Search(context.Context, string, int) ([]map[string]any, error) {
	return []map[string]any{}, nil
}

type ESIndex struct {
	es     *elasticsearch.Client
	index  string
	logger logrus.FieldLogger
}

func NewESIndex(es *elasticsearch.Client, index string, logger logrus.FieldLogger) *ESIndex {
	return &ESIndex{es: es, index: index, logger: logger}
}

type document struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Slug        string   `json:"slug"`
	Description string   `json:"description"`
	Careers     []string `json:"careers"`
	City        string   `json:"city"`
	State       string   `json:"state"`
	AverageCost *float64 `json:"averageCost,omitempty"`
	CreatedAt   string   `json:"createdAt"`
}

func (x *ESIndex) Index(ctx context.Context, b *entity.Bootcamp) error {
	body, err := json.Marshal(document{
		ID:          b.ID,
		Name:        b.Name,
		Slug:        b.Slug,
		Description: b.Description,
		Careers:     b.Careers,
		City:        b.Location.City,
		State:       b.Location.State,
		AverageCost: b.AverageCost,
		CreatedAt:   b.CreatedAt.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: x.index, DocumentID: b.ID, Body: bytes.NewReader(body), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es index %s: %s", b.ID, res.Status())
	}
	return nil
}

func (x *ESIndex) Delete(ctx context.Context, id string) error {
	req := esapi.DeleteRequest{Index: x.index, DocumentID: id}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("es delete %s: %s", id, res.Status())
	}
	return nil
}

// Search runs a multi_match over name, description and careers.
func (x *ESIndex) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"name^3", "description", "careers^2", "city", "state"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := x.es.Search(x.es.Search.WithContext(c), x.es.Search.WithIndex(x.index), x.es.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("es search: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		if h.Source == nil {
			h.Source = map[string]any{}
		}
		h.Source["id"] = h.ID
		out = append(out, h.Source)
	}
	return out, nil
}
