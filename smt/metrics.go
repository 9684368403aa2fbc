package smt

import "github.com/prometheus/client_golang/prometheus"

var (
	operations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Help:      "Number of tree operations by type",
			Name:      "operations_total",
			Namespace: "smt",
		},
		[]string{"op"},
	)
	hashComputations = prometheus.NewCounter(
		prometheus.CounterOpts{
			Help:      "Number of calls to the compression function",
			Name:      "hash_computations_total",
			Namespace: "smt",
		},
	)
	hashCacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Help:      "Number of inner node hashes served from the cache",
			Name:      "hash_cache_hits_total",
			Namespace: "smt",
		},
	)
	proofCacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Help:      "Number of proofs served from the proof cache",
			Name:      "proof_cache_hits_total",
			Namespace: "smt",
		},
	)
)

func init() {
	prometheus.MustRegister(
		operations,
		hashComputations,
		hashCacheHits,
		proofCacheHits,
	)
}

func (t *Tree) observeOp(op string) {
	if t.metrics {
		operations.WithLabelValues(op).Inc()
	}
}

func (t *Tree) observeHash() {
	if t.metrics {
		hashComputations.Inc()
	}
}

func (t *Tree) observeCacheHit() {
	if t.metrics {
		hashCacheHits.Inc()
	}
}

func (t *Tree) observeProofCacheHit() {
	if t.metrics {
		proofCacheHits.Inc()
	}
}
