// Package metrics records OpenCensus measurements about the facade's own dispatch
// activity: how many unified operations reached each provider, and how many provider
// failures were absorbed. Exporter registration is left to the host application.
package metrics

import (
	"context"
	"sync"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/tag"

	"github.com/mohitsharma90015656/unified-analytics/internal/basictypes"
)

var (
	dispatchMeasure = stats.Int64( //nolint:gochecknoglobals
		"unified_analytics/dispatches",
		"Number of unified operations dispatched to a provider adapter",
		stats.UnitDimensionless,
	)
	failureMeasure = stats.Int64( //nolint:gochecknoglobals
		"unified_analytics/absorbed_failures",
		"Number of provider operation failures absorbed by the facade",
		stats.UnitDimensionless,
	)

	providerTagKey  = tag.MustNewKey("provider")  //nolint:gochecknoglobals
	operationTagKey = tag.MustNewKey("operation") //nolint:gochecknoglobals

	registerPublicViewsOnce sync.Once //nolint:gochecknoglobals
	errRegisterPublicViews  error     //nolint:gochecknoglobals
)

func getPublicViews() []*view.View {
	return []*view.View{
		{
			Measure:     dispatchMeasure,
			Aggregation: view.Count(),
			TagKeys:     []tag.Key{providerTagKey, operationTagKey},
		},
		{
			Measure:     failureMeasure,
			Aggregation: view.Count(),
			TagKeys:     []tag.Key{providerTagKey, operationTagKey},
		},
	}
}

// Manager owns the view registration and creates per-provider recorders. Registration
// happens once per process no matter how many instances are created.
type Manager struct {
	loggers ldlog.Loggers
}

// NewManager creates a Manager, registering the facade's views if needed.
func NewManager(loggers ldlog.Loggers) (*Manager, error) {
	registerPublicViewsOnce.Do(func() {
		errRegisterPublicViews = view.Register(getPublicViews()...)
	})
	if errRegisterPublicViews != nil {
		return nil, errRegisterPublicViews
	}
	return &Manager{loggers: loggers}, nil
}

// ForProvider returns a recorder whose measurements are tagged with the provider name.
func (m *Manager) ForProvider(provider basictypes.ProviderKind) *ProviderMetrics {
	ctx, err := tag.New(context.Background(), tag.Insert(providerTagKey, string(provider)))
	if err != nil {
		m.loggers.Warnf("Unable to create metrics context for provider %s: %s", provider, err)
		return nil
	}
	return &ProviderMetrics{ctx: ctx}
}

// ProviderMetrics records measurements for one provider. A nil receiver is valid and
// records nothing, so callers never need to branch on whether metrics are enabled.
type ProviderMetrics struct {
	ctx context.Context
}

// RecordDispatch counts one unified operation delivered to this provider's adapter.
func (p *ProviderMetrics) RecordDispatch(operation string) {
	if p == nil {
		return
	}
	_ = stats.RecordWithTags(p.ctx,
		[]tag.Mutator{tag.Upsert(operationTagKey, operation)},
		dispatchMeasure.M(1))
}

// RecordFailure counts one provider failure that was absorbed rather than surfaced.
func (p *ProviderMetrics) RecordFailure(operation string) {
	if p == nil {
		return
	}
	_ = stats.RecordWithTags(p.ctx,
		[]tag.Mutator{tag.Upsert(operationTagKey, operation)},
		failureMeasure.M(1))
}
