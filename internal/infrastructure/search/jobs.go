// Package search keeps a keyword index of job postings in Elasticsearch.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/job-portal/internal/domain/entity"
)

const requestTimeout = 3 * time.Second

type JobIndex struct {
	es     *elasticsearch.Client
	index  string
	logger *logrus.Logger
}

func NewJobIndex(es *elasticsearch.Client, index string, logger *logrus.Logger) *JobIndex {
	return &JobIndex{es: es, index: index, logger: logger}
}

func jobDocument(j *entity.Job) map[string]any {
	return map[string]any{
		"id":           j.ID,
		"title":        j.Title,
		"description":  j.Description,
		"requirements": j.Requirements,
		"location":     j.Location,
		"job_type":     j.JobType,
		"company_name": j.CompanyName,
		"salary":       j.Salary,
		"created_by":   j.CreatedBy,
		"created_at":   j.CreatedAt.Format(time.RFC3339Nano),
	}
}

// IndexJob upserts the posting. Failures are logged and returned; callers
// treat the index as best effort.
func (x *JobIndex) IndexJob(ctx context.Context, j *entity.Job) error {
	b, err := json.Marshal(jobDocument(j))
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: x.index, DocumentID: j.ID, Body: bytes.NewReader(b), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.es)
	if err != nil {
		if x.logger != nil {
			x.logger.WithError(err).WithField("job_id", j.ID).Warn("es index failed")
		}
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		if x.logger != nil {
			x.logger.WithField("status", res.Status()).WithField("job_id", j.ID).Warn("es index response error")
		}
		return fmt.Errorf("es index: %s", res.Status())
	}
	return nil
}

func searchQuery(keyword string, size int) map[string]any {
	return map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     keyword,
				"fields":    []string{"title^3", "description", "requirements", "company_name", "location"},
				"fuzziness": "AUTO",
			},
		},
		"_source": false,
		"size":    size,
	}
}

// SearchJobIDs returns ids of postings matching keyword, best match first.
func (x *JobIndex) SearchJobIDs(ctx context.Context, keyword string, size int) ([]string, error) {
	if size <= 0 || size > 500 {
		size = 100
	}
	b, err := json.Marshal(searchQuery(keyword, size))
	if err != nil {
		return nil, err
	}

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := x.es.Search(x.es.Search.WithContext(c), x.es.Search.WithIndex(x.index), x.es.Search.WithBody(bytes.NewReader(b)))
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
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	out := make([]string, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.ID)
	}
	return out, nil
}
