// Package toposort produces a dependency-respecting linear order over
// the nodes of a graph, following output-port connections downstream.
//
// The ordering is computed in two phases: a breadth-first expansion from
// the start nodes builds a forward adjacency map (each node visited at
// most once as a source of edges), then a depth-first postorder
// traversal accumulates nodes and the result is reversed into a forward
// topological order. The traversal uses an explicit stack, so depth is
// bounded by available memory rather than goroutine stack growth.
//
// [Sort] reproduces best-effort behavior on cyclic input: nodes are
// marked visited on first discovery, so traversal always terminates, but
// the resulting order is not a valid topological order for the cyclic
// component. Use [SortStrict] to reject cycles up front.
package toposort

import (
	"errors"
	"fmt"
	"slices"

	"github.com/nodeflowhq/nodeflow/pkg/model"
)

// ErrCycle is returned by [SortStrict] when the reachable subgraph
// contains a directed cycle.
var ErrCycle = errors.New("graph contains a cycle")

// Sort returns the nodes reachable from the start set in an order where
// every connection's source precedes its target (for acyclic input).
//
// When startIDs is empty, the start set is computed from candidateIDs:
// every candidate with no connected input port is a root. Degenerate
// inputs short-circuit: no starts and no rootless candidates yields an
// empty result, and a start set in which no node has any connected
// output port is returned verbatim, as it is already trivially sorted.
//
// Unknown node IDs, and connection entries referencing nodes or ports
// absent from the graph, are precondition violations and return an
// error.
func Sort(g *model.Graph, startIDs, candidateIDs []string) ([]*model.Node, error) {
	starts, err := startSet(g, startIDs, candidateIDs)
	if err != nil {
		return nil, err
	}
	if len(starts) == 0 {
		return nil, nil
	}

	anyOutput := false
	for _, n := range starts {
		if hasConnectedOutput(n) {
			anyOutput = true
			break
		}
	}
	if !anyOutput {
		return starts, nil
	}

	adj, err := buildAdjacency(g, starts)
	if err != nil {
		return nil, err
	}

	order := postorder(starts, adj)
	slices.Reverse(order)

	nodes := make([]*model.Node, len(order))
	for i, id := range order {
		n, _ := g.Node(id)
		nodes[i] = n
	}
	return nodes, nil
}

// SortStrict is [Sort] with cycle detection: if the subgraph reachable
// from the start set contains a directed cycle, it returns ErrCycle
// instead of a best-effort order.
func SortStrict(g *model.Graph, startIDs, candidateIDs []string) ([]*model.Node, error) {
	starts, err := startSet(g, startIDs, candidateIDs)
	if err != nil {
		return nil, err
	}
	if len(starts) == 0 {
		return nil, nil
	}
	adj, err := buildAdjacency(g, starts)
	if err != nil {
		return nil, err
	}
	if hasCycle(starts, adj) {
		return nil, ErrCycle
	}
	return Sort(g, startIDs, candidateIDs)
}

// startSet resolves the explicit start IDs, or computes the root set
// (candidates with no connected input port) when none are given.
func startSet(g *model.Graph, startIDs, candidateIDs []string) ([]*model.Node, error) {
	ids := startIDs
	if len(ids) == 0 {
		for _, id := range candidateIDs {
			n, ok := g.Node(id)
			if !ok {
				return nil, errUnknown(id)
			}
			if !hasConnectedInput(n) {
				ids = append(ids, id)
			}
		}
	}

	starts := make([]*model.Node, 0, len(ids))
	for _, id := range ids {
		n, ok := g.Node(id)
		if !ok {
			return nil, errUnknown(id)
		}
		starts = append(starts, n)
	}
	return starts, nil
}

// buildAdjacency expands breadth-first from the start nodes, recording
// for each discovered node its distinct downstream nodes. Each node is
// expanded at most once as a source; nodes may still appear any number
// of times as targets.
func buildAdjacency(g *model.Graph, starts []*model.Node) (map[string][]string, error) {
	adj := make(map[string][]string)
	for _, start := range starts {
		if _, seen := adj[start.ID]; seen {
			continue
		}
		targets, err := downstream(g, start)
		if err != nil {
			return nil, err
		}
		adj[start.ID] = targets

		frontier := targets
		for len(frontier) > 0 {
			var next []string
			for _, id := range frontier {
				if _, seen := adj[id]; seen {
					continue
				}
				n, _ := g.Node(id)
				targets, err := downstream(g, n)
				if err != nil {
					return nil, err
				}
				adj[id] = targets
				next = append(next, targets...)
			}
			frontier = next
		}
	}
	return adj, nil
}

// downstream returns the distinct node IDs connected to n's output
// ports, in deterministic order (ports in declaration order, peers in
// connection-set order).
func downstream(g *model.Graph, n *model.Node) ([]string, error) {
	var ids []string
	seen := make(map[string]bool)
	for _, p := range n.Outputs {
		peers, err := g.ConnectedPorts(p)
		if err != nil {
			return nil, err
		}
		for _, peer := range peers {
			if !seen[peer.NodeID] {
				seen[peer.NodeID] = true
				ids = append(ids, peer.NodeID)
			}
		}
	}
	return ids, nil
}

// postorder runs an iterative depth-first traversal from each unvisited
// start node, marking nodes visited on first discovery and appending
// each node when its expansion completes. Discovery-time marking keeps
// the traversal finite on cyclic input.
func postorder(starts []*model.Node, adj map[string][]string) []string {
	type frame struct {
		id   string
		next int
	}

	visited := make(map[string]bool, len(adj))
	var order []string

	for _, start := range starts {
		if visited[start.ID] {
			continue
		}
		visited[start.ID] = true
		stack := []frame{{id: start.ID}}
		for len(stack) > 0 {
			f := &stack[len(stack)-1]
			children := adj[f.id]
			if f.next < len(children) {
				child := children[f.next]
				f.next++
				if !visited[child] {
					visited[child] = true
					stack = append(stack, frame{id: child})
				}
				continue
			}
			order = append(order, f.id)
			stack = stack[:len(stack)-1]
		}
	}
	return order
}

// hasCycle detects a directed cycle in the reachable subgraph using
// iterative white/gray/black coloring.
func hasCycle(starts []*model.Node, adj map[string][]string) bool {
	const (
		white = iota
		gray
		black
	)

	type frame struct {
		id   string
		next int
	}

	color := make(map[string]int, len(adj))
	for _, start := range starts {
		if color[start.ID] != white {
			continue
		}
		color[start.ID] = gray
		stack := []frame{{id: start.ID}}
		for len(stack) > 0 {
			f := &stack[len(stack)-1]
			children := adj[f.id]
			if f.next < len(children) {
				child := children[f.next]
				f.next++
				switch color[child] {
				case white:
					color[child] = gray
					stack = append(stack, frame{id: child})
				case gray:
					return true
				}
				continue
			}
			color[f.id] = black
			stack = stack[:len(stack)-1]
		}
	}
	return false
}

func hasConnectedInput(n *model.Node) bool {
	for _, p := range n.Inputs {
		if p.ConnectionCount() > 0 {
			return true
		}
	}
	return false
}

func hasConnectedOutput(n *model.Node) bool {
	for _, p := range n.Outputs {
		if p.ConnectionCount() > 0 {
			return true
		}
	}
	return false
}

func errUnknown(id string) error {
	return fmt.Errorf("%w: %s", model.ErrUnknownNode, id)
}
