// Package model implements the in-memory node graph: nodes, their typed
// ports, named properties, and the symmetric connection relation between
// ports.
//
// # Structure
//
// A [Graph] owns nodes keyed by stable string IDs. Each [Node] owns an
// ordered list of input and output [Port] values. Ports reference their
// owning node by ID rather than by pointer, so the graph is a flat arena
// with no reference cycles; use [Graph.NodeOf] to resolve a port back to
// its node.
//
// A connection between two ports has no object identity of its own. It
// exists purely as a symmetric relation recorded in both endpoints'
// connection sets: port P lists port Q under Q's node ID if and only if
// Q lists P under P's node ID. [Graph.Connect] and [Graph.Disconnect]
// always update both endpoints in a single call, so the relation can
// never be observed half-applied.
//
// # Mutation contract
//
// Mutating operations perform existence checks only; operating on a node
// or port absent from the graph returns an error, since it indicates a
// caller holding stale references. Disconnecting an already-disconnected
// pair is an explicit no-op.
//
// The graph is not safe for concurrent use. Hosts with multiple writers
// must serialize access externally; see the command and history packages
// for the undoable mutation path.
package model
