package metrics

import (
	"context"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"crewbase/internal/db"
)

// Signup method labels.
const (
	MethodPassword = "password"
	MethodInvite   = "invite"
	MethodSocial   = "social"
)

var (
	usersDesc = prometheus.NewDesc(
		"crewbase_users_total",
		"Total number of user accounts",
		nil, nil,
	)
	organizationsDesc = prometheus.NewDesc(
		"crewbase_organizations_total",
		"Total number of organizations",
		nil, nil,
	)
	pendingInvitesDesc = prometheus.NewDesc(
		"crewbase_pending_invites",
		"Number of pending organization invites",
		nil, nil,
	)

	signupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crewbase_signups_total",
			Help: "Successful signups by method",
		},
		[]string{"method"},
	)
	invitesRedeemed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "crewbase_invites_redeemed_total",
			Help: "Invites consumed by a successful signup or claim",
		},
	)
)

// StatsCollector is a custom Prometheus collector that reads account counts
// from the database on each scrape.
type StatsCollector struct {
	db *db.DB
}

// Describe sends the metric descriptors to the channel.
func (c *StatsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- usersDesc
	ch <- organizationsDesc
	ch <- pendingInvitesDesc
}

// Collect queries the database for current counts and emits them as gauges.
func (c *StatsCollector) Collect(ch chan<- prometheus.Metric) {
	ctx := context.Background()

	users, err := c.db.CountUsers(ctx)
	if err != nil {
		slog.Error("failed to collect user count", "error", err)
		return
	}
	orgs, err := c.db.CountOrganizations(ctx)
	if err != nil {
		slog.Error("failed to collect organization count", "error", err)
		return
	}
	invites, err := c.db.CountAllInvites(ctx)
	if err != nil {
		slog.Error("failed to collect invite count", "error", err)
		return
	}

	ch <- prometheus.MustNewConstMetric(usersDesc, prometheus.GaugeValue, float64(users))
	ch <- prometheus.MustNewConstMetric(organizationsDesc, prometheus.GaugeValue, float64(orgs))
	ch <- prometheus.MustNewConstMetric(pendingInvitesDesc, prometheus.GaugeValue, float64(invites))
}

var initOnce sync.Once

// Init registers the collectors. Must be called once at startup.
func Init(database *db.DB) {
	initOnce.Do(func() {
		prometheus.MustRegister(signupsTotal, invitesRedeemed)
		prometheus.MustRegister(&StatsCollector{db: database})
	})
}

// RecordSignup counts a successful signup by method.
func RecordSignup(method string) {
	signupsTotal.WithLabelValues(method).Inc()
}

// RecordInviteRedeemed counts a consumed invite.
func RecordInviteRedeemed() {
	invitesRedeemed.Inc()
}
