package repost

import "sort"

// graph is an undirected similarity graph over job indexes. Nodes are
// positions in the caller's slice; nothing points back into JobRecords.
type graph struct {
	adj map[int][]int
}

func newGraph() *graph {
	return &graph{adj: make(map[int][]int)}
}

func (g *graph) addEdge(a, b int) {
	if a == b {
		return
	}
	g.adj[a] = append(g.adj[a], b)
	g.adj[b] = append(g.adj[b], a)
}

func (g *graph) degree(n int) int { return len(g.adj[n]) }

// components returns the connected components among nodes with at least
// one edge, each sorted, in order of their smallest node.
func (g *graph) components() [][]int {
	nodes := make([]int, 0, len(g.adj))
	for n := range g.adj {
		nodes = append(nodes, n)
	}
	sort.Ints(nodes)

	seen := make(map[int]bool, len(nodes))
	var out [][]int
	for _, start := range nodes {
		if seen[start] || g.degree(start) == 0 {
			continue
		}
		seen[start] = true
		queue := []int{start}
		var comp []int
		for len(queue) > 0 {
			n := queue[0]
			queue = queue[1:]
			comp = append(comp, n)
			for _, m := range g.adj[n] {
				if !seen[m] {
					seen[m] = true
					queue = append(queue, m)
				}
			}
		}
		sort.Ints(comp)
		out = append(out, comp)
	}
	return out
}
