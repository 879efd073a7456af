package search

import (
	"context"
	"fmt"

	"go-catalog-admin/internal/model"

	"github.com/olivere/elastic/v7"
)

const productMapping = `{
  "mappings": {
    "properties": {
      "id":          {"type": "keyword"},
      "name":        {"type": "text"},
      "slug":        {"type": "keyword"},
      "category":    {"type": "keyword"},
      "description": {"type": "text"},
      "price":       {"type": "double"},
      "on_sale":     {"type": "boolean"},
      "total_stock": {"type": "integer"},
      "sizes":       {"type": "keyword"},
      "colors":      {"type": "keyword"},
      "skus":        {"type": "keyword"}
    }
  }
}`

type Elastic struct {
	client *elastic.Client
	index  string
}

// NewElastic connects to url and creates the index when it is missing.
func NewElastic(ctx context.Context, url, index string) (*Elastic, error) {
	client, err := elastic.NewClient(
		elastic.SetURL(url),
		elastic.SetSniff(false),
		elastic.SetHealthcheck(false),
	)
	if err != nil {
		return nil, fmt.Errorf("connect elasticsearch: %w", err)
	}

	exists, err := client.IndexExists(index).Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("check index %s: %w", index, err)
	}
	if !exists {
		if _, err := client.CreateIndex(index).BodyString(productMapping).Do(ctx); err != nil {
			return nil, fmt.Errorf("create index %s: %w", index, err)
		}
	}
	return &Elastic{client: client, index: index}, nil
}

func (e *Elastic) Index(ctx context.Context, p *model.Product) error {
	_, err := e.client.Index().
		Index(e.index).
		Id(p.ID.String()).
		BodyJson(NewDocument(p)).
		Do(ctx)
	return err
}

func (e *Elastic) Delete(ctx context.Context, id string) error {
	_, err := e.client.Delete().Index(e.index).Id(id).Do(ctx)
	if elastic.IsNotFound(err) {
		return nil
	}
	return err
}

func (e *Elastic) Search(ctx context.Context, query string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 50
	}
	q := elastic.NewMultiMatchQuery(query, "name^3", "category^2", "description", "skus", "colors", "sizes").
		Type("best_fields").
		Fuzziness("AUTO")

	res, err := e.client.Search().
		Index(e.index).
		Query(q).
		Size(limit).
		Do(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		ids = append(ids, hit.Id)
	}
	return ids, nil
}
