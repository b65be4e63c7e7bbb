package hexgrid

import "container/heap"

// FindPath returns the shortest walkable route from start to goal, both
// inclusive, using A* over terrain only (units and reservations are transient
// and ignored). Returns nil when the goal is unreachable.
func (g *Grid) FindPath(start, goal TilePos) []TilePos {
	if !g.InBounds(start) || !g.InBounds(goal) {
		return nil
	}
	pq := &pathQueue{}
	heap.Init(pq)
	heap.Push(pq, &pathNode{pos: start})
	costSoFar := map[TilePos]int{start: 0}
	seq := 0

	for pq.Len() > 0 {
		current := heap.Pop(pq).(*pathNode)
		if current.pos == goal {
			return current.route()
		}
		for _, n := range g.Neighbors(current.pos) {
			if n != goal && !g.walkable(n) {
				continue
			}
			cost := costSoFar[current.pos] + 1
			if prev, ok := costSoFar[n]; ok && cost >= prev {
				continue
			}
			costSoFar[n] = cost
			seq++
			heap.Push(pq, &pathNode{pos: n, priority: cost + Distance(n, goal), seq: seq, parent: current})
		}
	}
	return nil
}

func (g *Grid) walkable(p TilePos) bool {
	t := g.TileAt(p)
	return t != nil && t.Kind == TileGround && t.Building.IsNil()
}

type pathNode struct {
	pos      TilePos
	priority int
	seq      int // insertion order keeps equal-priority pops deterministic
	parent   *pathNode
}

func (n *pathNode) route() []TilePos {
	var rev []TilePos
	for cur := n; cur != nil; cur = cur.parent {
		rev = append(rev, cur.pos)
	}
	out := make([]TilePos, len(rev))
	for i, p := range rev {
		out[len(rev)-1-i] = p
	}
	return out
}

type pathQueue []*pathNode

func (pq pathQueue) Len() int { return len(pq) }
func (pq pathQueue) Less(i, j int) bool {
	if pq[i].priority != pq[j].priority {
		return pq[i].priority < pq[j].priority
	}
	return pq[i].seq < pq[j].seq
}
func (pq pathQueue) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }
func (pq *pathQueue) Push(x any)   { *pq = append(*pq, x.(*pathNode)) }
func (pq *pathQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}
