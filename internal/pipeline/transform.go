package pipeline

import (
	"context"

	"github.com/couchcryptid/cdl-history-service/internal/domain"
	"github.com/couchcryptid/cdl-history-service/internal/history"
	"github.com/couchcryptid/cdl-history-service/internal/observability"
)

// HistoryTransformer implements Transformer by running each request through
// the history service.
type HistoryTransformer struct {
	service *history.Service
	metrics *observability.Metrics
}

// NewTransformer creates a HistoryTransformer.
func NewTransformer(service *history.Service, metrics *observability.Metrics) *HistoryTransformer {
	return &HistoryTransformer{service: service, metrics: metrics}
}

func (t *HistoryTransformer) Transform(ctx context.Context, raw domain.RawRequest) (domain.HistoryReport, error) {
	req, err := domain.ParseHistoryRequest(raw)
	if err != nil {
		return domain.HistoryReport{}, err
	}
	t.metrics.HistoryQueries.WithLabelValues("kafka").Inc()
	return t.service.QueryHistory(ctx, req)
}
