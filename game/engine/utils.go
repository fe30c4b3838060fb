package engine

// ManhattanDistance calculates the Manhattan distance between two positions
func ManhattanDistance(from, to Position) int {
	return abs(from.X-to.X) + abs(from.Y-to.Y)
}

// Walkable reports whether p is on the grid and not blocking
func Walkable(view View, p Position) bool {
	sq := view.Square(p)
	return sq != nil && !sq.Blocking()
}

// Neighbors returns the walkable positions one step from p, in Directions order
func Neighbors(view View, p Position) []Position {
	out := make([]Position, 0, len(Directions))
	for _, d := range Directions {
		if n := p.Step(d); Walkable(view, n) {
			out = append(out, n)
		}
	}
	return out
}

// Reachable returns every position an entity standing on from could walk
// to, from included. It ignores occupants.
func Reachable(view View, from Position) map[Position]bool {
	seen := map[Position]bool{from: true}
	queue := []Position{from}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		for _, n := range Neighbors(view, p) {
			if !seen[n] {
				seen[n] = true
				queue = append(queue, n)
			}
		}
	}
	return seen
}

// ShortestPath returns the steps from `from` to the nearest walkable square
// accepted by goal, ending on that square. It returns nil when no such square
// is reachable. Occupants are ignored.
func ShortestPath(view View, from Position, goal func(sq *Square) bool) []Position {
	prev := map[Position]Position{from: from}
	queue := []Position{from}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]

		if p != from && goal(view.Square(p)) {
			var path []Position
			for ; p != from; p = prev[p] {
				path = append(path, p)
			}
			for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
				path[i], path[j] = path[j], path[i]
			}
			return path
		}

		for _, n := range Neighbors(view, p) {
			if _, seen := prev[n]; !seen {
				prev[n] = p
				queue = append(queue, n)
			}
		}
	}
	return nil
}

// CountKind counts the squares of a given kind
func CountKind(w *World, kind string) int {
	count := 0
	for _, sq := range w.squares {
		if sq.traits.Kind == kind {
			count++
		}
	}
	return count
}

// abs returns the absolute value of x
func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
