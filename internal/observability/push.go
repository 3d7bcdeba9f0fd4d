package observability

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus/push"
)

// PushJob is the Pushgateway job name for rendering runs.
const PushJob = "windrose_etl"

// Push sends the run's metrics to a Pushgateway. The process exits after a
// run, so metrics are pushed rather than scraped.
func Push(ctx context.Context, url, station string, m *Metrics) error {
	err := push.New(url, PushJob).
		Gatherer(m.Gatherer()).
		Grouping("station", station).
		PushContext(ctx)
	if err != nil {
		return fmt.Errorf("push metrics: %w", err)
	}
	return nil
}
