package route

import "sort"

const (
	// reorderMinWaypoints and reorderMaxWaypoints bound the set sizes where
	// reordering pays off; outside the band the input order is kept.
	reorderMinWaypoints = 4
	reorderMaxWaypoints = 8

	// reorderSkipThreshold is the size above which reordering is skipped
	// entirely.
	reorderSkipThreshold = 12
)

// GreedyReorder improves the visiting order of interior waypoints to reduce
// backtracking. The first and last waypoints stay fixed; the interior is
// sorted by ascending distance from the start. This is a single-pass greedy
// heuristic, not a travelling-salesman solve, and makes no optimality
// guarantee.
//
// Sets larger than 12 waypoints, and sets outside the 4..8 band, are
// returned in their original order.
func GreedyReorder(waypoints []Waypoint) []Waypoint {
	n := len(waypoints)
	if n > reorderSkipThreshold || n < reorderMinWaypoints || n > reorderMaxWaypoints {
		out := make([]Waypoint, n)
		copy(out, waypoints)
		return out
	}

	start := waypoints[0]
	end := waypoints[n-1]

	interior := make([]Waypoint, n-2)
	copy(interior, waypoints[1:n-1])

	sort.SliceStable(interior, func(i, j int) bool {
		return start.DistanceTo(interior[i]) < start.DistanceTo(interior[j])
	})

	out := make([]Waypoint, 0, n)
	out = append(out, start)
	out = append(out, interior...)
	out = append(out, end)
	return out
}
