package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	Updates = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "order_bot",
		Name:      "updates_total",
		Help:      "Telegram updates received, by kind.",
	}, []string{"kind"})

	OrdersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "order_bot",
		Name:      "orders_created_total",
		Help:      "Orders persisted after confirmation.",
	})

	OrdersCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "order_bot",
		Name:      "orders_cancelled_total",
		Help:      "Drafts dropped by the user.",
	})

	HandlerFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "order_bot",
		Name:      "handler_failures_total",
		Help:      "Conversation steps aborted by a storage error, by state.",
	}, []string{"state"})

	Dispatch = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "order_bot",
		Name:      "dispatch_total",
		Help:      "Order delivery attempts, by channel and result.",
	}, []string{"channel", "result"})

	DispatchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "order_bot",
		Name:      "dispatch_duration_seconds",
		Help:      "Time spent delivering an order to one channel.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"channel"})
)

func Result(ok bool) string {
	if ok {
		return "ok"
	}
	return "failed"
}
