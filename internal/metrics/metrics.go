// Package metrics exposes Prometheus collectors fed by the engine's
// lifecycle hooks.
package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/quentel/fitflow/pkg/domain"
)

// Collector tracks workflow execution metrics.
type Collector struct {
	stepsTotal   *prometheus.CounterVec
	stepDuration *prometheus.HistogramVec
	pausesTotal  prometheus.Counter
	resumesTotal prometheus.Counter
}

// New registers the collectors with reg and returns the Collector.
func New(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		stepsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fitflow",
			Name:      "steps_total",
			Help:      "Workflow steps executed, by step and outcome.",
		}, []string{"step", "outcome"}),
		stepDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "fitflow",
			Name:      "step_duration_seconds",
			Help:      "Wall-clock duration of workflow steps.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
		}, []string{"step"}),
		pausesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "fitflow",
			Name:      "pauses_total",
			Help:      "Sessions suspended at the approval point.",
		}),
		resumesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "fitflow",
			Name:      "resumes_total",
			Help:      "Resume calls that advanced a paused session.",
		}),
	}
}

// Hooks returns lifecycle hooks that feed the collectors. Combine with
// other hooks via Merge when logging hooks are also installed.
func (c *Collector) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStepLeave: func(_ context.Context, ev *domain.StepEvent) {
			outcome := "ok"
			if ev.Err != "" {
				outcome = "error"
			}
			c.stepsTotal.WithLabelValues(ev.StepID, outcome).Inc()
			c.stepDuration.WithLabelValues(ev.StepID).Observe(ev.Duration.Seconds())
		},
		OnPause: func(_ context.Context, _ *domain.StepEvent) {
			c.pausesTotal.Inc()
		},
		OnResume: func(_ context.Context, _ *domain.StepEvent) {
			c.resumesTotal.Inc()
		},
	}
}

// Merge chains two hook sets; both sides run for every event.
func Merge(a, b domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStepEnter: chain(a.OnStepEnter, b.OnStepEnter),
		OnStepLeave: chain(a.OnStepLeave, b.OnStepLeave),
		OnPause:     chain(a.OnPause, b.OnPause),
		OnResume:    chain(a.OnResume, b.OnResume),
	}
}

func chain(fns ...func(context.Context, *domain.StepEvent)) func(context.Context, *domain.StepEvent) {
	return func(ctx context.Context, ev *domain.StepEvent) {
		for _, fn := range fns {
			if fn != nil {
				fn(ctx, ev)
			}
		}
	}
}
