// Package metrics defines and registers all custom Prometheus metrics for the
// booking calendar API. It is the single source of truth for metric names,
// labels, and help strings. Metrics register themselves with the default
// registry via promauto at package load.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "kalender"

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "failure", or "throttled"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, labelled by result.",
	},
	[]string{"result"},
)

// BookingsCreatedTotal counts successfully created bookings.
// Label:
//   - party: display name of the booking party
var BookingsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bookings_created_total",
		Help:      "Total number of bookings created, by party.",
	},
	[]string{"party"},
)

// BookingConflictsTotal counts mutations rejected because the requested date
// range overlapped an existing booking.
// Label:
//   - operation: "create" or "update"
var BookingConflictsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "booking_conflicts_total",
		Help:      "Total number of booking mutations rejected due to date overlap.",
	},
	[]string{"operation"},
)

// BookingsDeletedTotal counts permanently removed bookings.
var BookingsDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bookings_deleted_total",
		Help:      "Total number of bookings deleted.",
	},
)
