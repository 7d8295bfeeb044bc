// ABOUTME: Exact open shortest Hamiltonian path via Held-Karp bitmask dynamic programming
// ABOUTME: Uses flat cost and parent tables indexed by mask*n+node

package solver

import (
	"errors"
	"fmt"
	"math"
)

// ErrTooManyKeys is returned when an exact solve is asked for more than MaxExactKeys nodes
var ErrTooManyKeys = errors.New("too many keys for exact solve")

const unreachable = math.MaxInt32

// HeldKarp returns the node order of a minimum-cost path visiting every node
// exactly once, with free start and end. Ties keep the first minimum found.
func HeldKarp(dist Matrix) ([]int, error) {
	n := len(dist)
	if n > MaxExactKeys {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyKeys, n, MaxExactKeys)
	}

	if n == 0 {
		return []int{}, nil
	}

	full := 1<<n - 1
	size := (full + 1) * n

	// cost[mask*n+last] = cheapest path covering mask that ends at last
	cost := make([]int32, size)
	parent := make([]int8, size)

	for i := range cost {
		cost[i] = unreachable
		parent[i] = -1
	}

	for i := 0; i < n; i++ {
		cost[(1<<i)*n+i] = 0
	}

	for mask := 1; mask <= full; mask++ {
		for last := 0; last < n; last++ {
			if mask&(1<<last) == 0 {
				continue
			}

			current := cost[mask*n+last]
			if current == unreachable {
				continue
			}

			for next := 0; next < n; next++ {
				if mask&(1<<next) != 0 {
					continue
				}

				nextMask := mask | 1<<next
				candidate := current + int32(dist[last][next])

				if candidate < cost[nextMask*n+next] {
					cost[nextMask*n+next] = candidate
					parent[nextMask*n+next] = int8(last)
				}
			}
		}
	}

	bestEnd := 0
	for last := 1; last < n; last++ {
		if cost[full*n+last] < cost[full*n+bestEnd] {
			bestEnd = last
		}
	}

	// Walk parents back from the best end
	path := make([]int, n)
	mask := full
	node := bestEnd

	for pos := n - 1; pos >= 0; pos-- {
		path[pos] = node
		prev := int(parent[mask*n+node])
		mask &^= 1 << node
		node = prev
	}

	return path, nil
}
