// ABOUTME: Heuristic path search for key sets too large to solve exactly
// ABOUTME: Nearest-neighbour construction from every start, refined by bounded 2-opt reversals

package solver

// GreedyTwoOpt builds a nearest-neighbour path from each possible start,
// keeps the cheapest, and improves it with 2-opt segment reversals for at most
// maxPasses passes. The second result is false when the pass bound was hit
// before a pass without improvement.
func GreedyTwoOpt(dist Matrix, maxPasses int) ([]int, bool) {
	n := len(dist)
	if n == 0 {
		return []int{}, true
	}

	var best []int
	bestCost := 0

	for start := 0; start < n; start++ {
		path := nearestNeighbour(dist, start)
		if c := PathCost(dist, path); best == nil || c < bestCost {
			best, bestCost = path, c
		}
	}

	converged := twoOptImprove(dist, best, maxPasses)

	return best, converged
}

// nearestNeighbour walks from start, always stepping to the closest unvisited
// node (first found on ties)
func nearestNeighbour(dist Matrix, start int) []int {
	n := len(dist)
	visited := make([]bool, n)
	path := make([]int, 0, n)

	current := start
	visited[current] = true
	path = append(path, current)

	for len(path) < n {
		next := -1
		for candidate := 0; candidate < n; candidate++ {
			if visited[candidate] {
				continue
			}

			if next == -1 || dist[current][candidate] < dist[current][next] {
				next = candidate
			}
		}

		visited[next] = true
		path = append(path, next)
		current = next
	}

	return path
}

// twoOptImprove reverses segments of path in place while that lowers its cost.
// Only the two boundary edges of a reversed segment change because dist is symmetric.
func twoOptImprove(dist Matrix, path []int, maxPasses int) bool {
	n := len(path)

	// Don't look bits: positions that recently failed to improve
	dontLook := make([]bool, n)

	improved := true
	passes := 0

	for improved && passes < maxPasses {
		improved = false
		passes++

		for i := 0; i < n-1; i++ {
			if dontLook[i] {
				continue
			}

			positionImproved := false

			for j := i + 1; j < n; j++ {
				if reversalGain(dist, path, i, j) <= 0 {
					continue
				}

				reverseSegment(path, i, j)

				improved = true
				positionImproved = true
				clear(dontLook)
			}

			if !positionImproved {
				dontLook[i] = true
			}
		}
	}

	return !improved
}

// reversalGain is how much cheaper path gets if path[i..j] is reversed
func reversalGain(dist Matrix, path []int, i, j int) int {
	n := len(path)
	before, after := 0, 0

	if i > 0 {
		before += dist[path[i-1]][path[i]]
		after += dist[path[i-1]][path[j]]
	}

	if j < n-1 {
		before += dist[path[j]][path[j+1]]
		after += dist[path[i]][path[j+1]]
	}

	return before - after
}

// reverseSegment reverses path[start:end+1] in place
func reverseSegment(path []int, start, end int) {
	for start < end {
		path[start], path[end] = path[end], path[start]
		start++
		end--
	}
}
