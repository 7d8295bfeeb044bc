// ABOUTME: Finds the cheapest ordering of distinct keys that visits each key once
// ABOUTME: Dispatches to exact Held-Karp for small sets and greedy + 2-opt for larger ones

// Package solver orders a set of Camelot keys so the summed harmonic distance
// between neighbours is minimal (an open shortest Hamiltonian path).
package solver

import "harmonic-sorter/playlist"

const (
	// MaxExactKeys is the largest key set solved exactly. The DP table grows
	// as 2^n * n so this is a hard ceiling.
	MaxExactKeys = 20

	// DefaultMaxTwoOptPasses bounds the 2-opt improvement loop
	DefaultMaxTwoOptPasses = 1000
)

// Matrix holds pairwise distances, dist[i][j]. It must be symmetric.
type Matrix [][]int

// DistanceMatrix builds the pairwise harmonic distance matrix for keys
func DistanceMatrix(keys []playlist.CamelotKey) Matrix {
	n := len(keys)
	dist := make(Matrix, n)

	for i := range keys {
		dist[i] = make([]int, n)
		for j := range keys {
			dist[i][j] = playlist.Distance(&keys[i], &keys[j])
		}
	}

	return dist
}

// PathCost sums the distance of consecutive nodes along path
func PathCost(dist Matrix, path []int) int {
	cost := 0
	for i := 1; i < len(path); i++ {
		cost += dist[path[i-1]][path[i]]
	}

	return cost
}

// Solver picks a strategy by key count. The zero value is not usable; use New.
type Solver struct {
	exactLimit int
	maxPasses  int
	debugf     func(format string, args ...interface{})
}

// Option configures a Solver
type Option func(*Solver)

// WithExactLimit sets the largest key count solved exactly.
// Values above MaxExactKeys are clamped to it.
func WithExactLimit(n int) Option {
	return func(s *Solver) {
		s.exactLimit = min(max(n, 0), MaxExactKeys)
	}
}

// WithMaxPasses sets the 2-opt pass bound (values < 1 use the default)
func WithMaxPasses(n int) Option {
	return func(s *Solver) {
		if n >= 1 {
			s.maxPasses = n
		}
	}
}

// WithDebugf routes solver diagnostics to a logger
func WithDebugf(debugf func(format string, args ...interface{})) Option {
	return func(s *Solver) {
		if debugf != nil {
			s.debugf = debugf
		}
	}
}

// New creates a Solver with the given options applied over the defaults
func New(opts ...Option) *Solver {
	s := &Solver{
		exactLimit: MaxExactKeys,
		maxPasses:  DefaultMaxTwoOptPasses,
		debugf:     func(string, ...interface{}) {},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

var defaultSolver = New()

// Solve orders keys with the default solver
func Solve(keys []playlist.CamelotKey) []playlist.CamelotKey {
	return defaultSolver.Solve(keys)
}

// Solve returns a permutation of keys with minimal (or, above the exact
// limit, locally minimal) total distance between consecutive keys.
// The input slice is not modified.
func (s *Solver) Solve(keys []playlist.CamelotKey) []playlist.CamelotKey {
	n := len(keys)
	if n <= 2 {
		return append([]playlist.CamelotKey(nil), keys...)
	}

	dist := DistanceMatrix(keys)

	var order []int

	if n <= s.exactLimit {
		var err error

		order, err = HeldKarp(dist)
		if err != nil {
			// Unreachable while exactLimit <= MaxExactKeys
			s.debugf("[SOLVER] exact solve failed for %d keys: %v", n, err)
			order = nil
		}
	}

	if order == nil {
		var converged bool

		order, converged = GreedyTwoOpt(dist, s.maxPasses)
		if !converged {
			s.debugf("[2-OPT] Hit max passes (%d) for %d keys - returning best path so far", s.maxPasses, n)
		}
	}

	s.debugf("[SOLVER] %d keys, path cost %d", n, PathCost(dist, order))

	path := make([]playlist.CamelotKey, n)
	for i, idx := range order {
		path[i] = keys[idx]
	}

	return path
}
