// Package metrics exposes Prometheus counters for the statistics engine.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "crease"

var registry = prometheus.NewRegistry()

var (
	MatchesSynced = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "matches_synced_total",
		Help:      "Finished matches whose player stats were aggregated.",
	})
	PlayersUpdated = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "players_updated_total",
		Help:      "Per-player career records written during stats syncs.",
	})
	PlayersSkipped = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "players_skipped_total",
		Help:      "Lineup entries skipped because the player record was missing.",
	})
	StandingsComputed = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "standings_computed_total",
		Help:      "Group standings calculations served.",
	})
	KnockoutsSeeded = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "knockouts_seeded_total",
		Help:      "Knockout seeding batches applied.",
	})
	ChampionsRecorded = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "champions_recorded_total",
		Help:      "Tournament champion records written.",
	})
)

// Handler serves the engine's metric registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
