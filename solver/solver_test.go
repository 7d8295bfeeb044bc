// ABOUTME: Tests for the key path solver
// ABOUTME: Checks exact optimality against brute force, known playlists and the heuristic fallback

package solver

import (
	"errors"
	"math/rand/v2"
	"slices"
	"testing"

	"harmonic-sorter/playlist"
)

func parseKeys(t *testing.T, codes ...string) []playlist.CamelotKey {
	t.Helper()

	keys := make([]playlist.CamelotKey, len(codes))
	for i, code := range codes {
		k, err := playlist.ParseCamelotKey(code)
		if err != nil {
			t.Fatalf("ParseCamelotKey(%s) failed: %v", code, err)
		}
		keys[i] = *k
	}

	return keys
}

func keyPathCost(keys []playlist.CamelotKey) int {
	total := 0
	for i := 1; i < len(keys); i++ {
		total += playlist.Distance(&keys[i-1], &keys[i])
	}

	return total
}

// assertPermutation fails unless got holds exactly the keys of want
func assertPermutation(t *testing.T, got, want []playlist.CamelotKey) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("path has %d keys, want %d", len(got), len(want))
	}

	seen := make(map[playlist.CamelotKey]int)
	for _, k := range want {
		seen[k]++
	}

	for _, k := range got {
		seen[k]--
	}

	for k, count := range seen {
		if count != 0 {
			t.Errorf("key %s count off by %d", k, count)
		}
	}
}

// bruteForceCost enumerates every permutation and returns the cheapest cost
func bruteForceCost(dist Matrix) int {
	n := len(dist)
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}

	best := -1

	var permute func(k int)
	permute = func(k int) {
		if k == n {
			if c := PathCost(dist, perm); best == -1 || c < best {
				best = c
			}
			return
		}

		for i := k; i < n; i++ {
			perm[k], perm[i] = perm[i], perm[k]
			permute(k + 1)
			perm[k], perm[i] = perm[i], perm[k]
		}
	}

	permute(0)

	return best
}

// TestSolveTrivial checks empty, single and pair inputs
func TestSolveTrivial(t *testing.T) {
	if got := Solve(nil); len(got) != 0 {
		t.Errorf("Solve(nil) = %v, want empty", got)
	}

	single := parseKeys(t, "8A")
	if got := Solve(single); !slices.Equal(got, single) {
		t.Errorf("Solve(8A) = %v, want %v", got, single)
	}

	pair := parseKeys(t, "9A", "8A")
	if got := Solve(pair); !slices.Equal(got, pair) {
		t.Errorf("Solve(9A, 8A) = %v, want input order", got)
	}
}

// TestSolveSmall checks known optimal costs
func TestSolveSmall(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want int
	}{
		{"adjacent", []string{"8A", "9A", "10A"}, 2},
		{"wrap-around", []string{"12A", "1A", "2A"}, 2},
		{"cross-ring", []string{"8A", "8B", "9B", "10B"}, 3},
		{"one ring", []string{"1A", "2A", "3A", "4A", "5A"}, 4},
		{"scattered", []string{"10A", "2A", "8A", "1B"}, 8},
		{"golden", []string{"2A", "3A", "4A", "5B", "6A", "7A", "8A", "8B", "9B", "10A", "10B", "11A", "11B"}, 14},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keys := parseKeys(t, tt.keys...)
			got := Solve(keys)

			assertPermutation(t, got, keys)

			if cost := keyPathCost(got); cost != tt.want {
				t.Errorf("Solve(%v) cost = %d, want %d (path %v)", tt.keys, cost, tt.want, got)
			}
		})
	}
}

// TestSolveOrderIndependent checks the optimum does not depend on input order
func TestSolveOrderIndependent(t *testing.T) {
	a := Solve(parseKeys(t, "8A", "3A", "11B", "5B", "10A"))
	b := Solve(parseKeys(t, "10A", "5B", "8A", "11B", "3A"))

	if keyPathCost(a) != keyPathCost(b) {
		t.Errorf("cost differs by input order: %d vs %d", keyPathCost(a), keyPathCost(b))
	}
}

// TestSolveDoesNotMutate checks the input slice is left as given
func TestSolveDoesNotMutate(t *testing.T) {
	keys := parseKeys(t, "1A", "7B", "2A", "8B", "3A")
	before := slices.Clone(keys)

	Solve(keys)

	if !slices.Equal(keys, before) {
		t.Errorf("input changed: %v, want %v", keys, before)
	}
}

// TestHeldKarpMatchesBruteForce compares against exhaustive search on random subsets
func TestHeldKarpMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 7))
	all := playlist.AllKeys()

	for trial := 0; trial < 60; trial++ {
		n := 1 + trial%8
		rng.Shuffle(len(all), func(i, j int) { all[i], all[j] = all[j], all[i] })
		keys := slices.Clone(all[:n])

		dist := DistanceMatrix(keys)

		path, err := HeldKarp(dist)
		if err != nil {
			t.Fatalf("HeldKarp failed: %v", err)
		}

		if len(path) != n {
			t.Fatalf("HeldKarp returned %d nodes, want %d", len(path), n)
		}

		sorted := slices.Sorted(slices.Values(path))
		for i, node := range sorted {
			if node != i {
				t.Fatalf("HeldKarp path %v is not a permutation", path)
			}
		}

		if got, want := PathCost(dist, path), bruteForceCost(dist); got != want {
			t.Errorf("keys %v: HeldKarp cost %d, brute force %d", keys, got, want)
		}
	}
}

// TestHeldKarpTooManyKeys checks the exact branch refuses oversized input
func TestHeldKarpTooManyKeys(t *testing.T) {
	dist := DistanceMatrix(playlist.AllKeys()[:MaxExactKeys+1])

	if _, err := HeldKarp(dist); !errors.Is(err, ErrTooManyKeys) {
		t.Errorf("HeldKarp(%d keys) error = %v, want ErrTooManyKeys", MaxExactKeys+1, err)
	}
}

// TestHeldKarpAtLimit runs the exact solver at its ceiling
func TestHeldKarpAtLimit(t *testing.T) {
	if testing.Short() {
		t.Skip("allocates the full DP table")
	}

	keys := playlist.AllKeys()[:MaxExactKeys] // 1A..10B

	path := Solve(keys)
	assertPermutation(t, path, keys)

	// 1A 1B 2B 2A 3A 3B ... zig-zags every step at distance 1
	if cost := keyPathCost(path); cost != MaxExactKeys-1 {
		t.Errorf("cost = %d, want %d", cost, MaxExactKeys-1)
	}
}

// TestSolveFallback checks the heuristic branch above the exact limit
func TestSolveFallback(t *testing.T) {
	keys := playlist.AllKeys()

	var logged []string
	s := New(WithDebugf(func(format string, args ...interface{}) {
		logged = append(logged, format)
	}))

	path := s.Solve(keys)
	assertPermutation(t, path, keys)

	// Every step costs at least 1 between distinct keys
	cost := keyPathCost(path)
	if cost < len(keys)-1 {
		t.Errorf("cost = %d, below lower bound %d", cost, len(keys)-1)
	}

	dist := DistanceMatrix(keys)
	greedyBest := -1
	for start := range keys {
		if c := PathCost(dist, nearestNeighbour(dist, start)); greedyBest == -1 || c < greedyBest {
			greedyBest = c
		}
	}

	if cost > greedyBest {
		t.Errorf("2-opt made the path worse: %d > greedy %d", cost, greedyBest)
	}

	if len(logged) == 0 {
		t.Error("expected solver diagnostics through debugf")
	}
}

// TestExactLimitOption checks a lowered exact limit routes to the heuristic
func TestExactLimitOption(t *testing.T) {
	keys := parseKeys(t, "8A", "9A", "10A", "11A")

	s := New(WithExactLimit(2))
	path := s.Solve(keys)

	assertPermutation(t, path, keys)

	if cost := keyPathCost(path); cost != 3 {
		t.Errorf("cost = %d, want 3", cost)
	}

	if s := New(WithExactLimit(50)); s.exactLimit != MaxExactKeys {
		t.Errorf("exactLimit = %d, want clamp to %d", s.exactLimit, MaxExactKeys)
	}
}

// TestTwoOptImprove checks a crossed path gets untangled
func TestTwoOptImprove(t *testing.T) {
	keys := parseKeys(t, "1A", "2A", "3A", "4A", "5A", "6A")
	dist := DistanceMatrix(keys)

	path := []int{0, 3, 2, 1, 4, 5}
	if converged := twoOptImprove(dist, path, DefaultMaxTwoOptPasses); !converged {
		t.Error("twoOptImprove did not converge")
	}

	if cost := PathCost(dist, path); cost != 5 {
		t.Errorf("cost after 2-opt = %d, want 5 (path %v)", cost, path)
	}
}

// TestTwoOptPassBound checks the pass bound is honoured
func TestTwoOptPassBound(t *testing.T) {
	keys := parseKeys(t, "1A", "7A", "2A", "8A", "3A", "9A", "4A", "10A")
	dist := DistanceMatrix(keys)

	path := []int{0, 1, 2, 3, 4, 5, 6, 7}
	before := PathCost(dist, path)

	converged := twoOptImprove(dist, path, 1)

	if PathCost(dist, path) > before {
		t.Errorf("cost increased to %d from %d", PathCost(dist, path), before)
	}

	if converged {
		t.Error("single pass that improved should not report convergence")
	}
}
