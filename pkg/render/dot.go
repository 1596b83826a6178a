// Package render exports a graph as a Graphviz node-link diagram.
//
// [ToDOT] emits DOT text describing nodes (with their visible ports) and
// the connection relation; [RenderSVG] rasterizes DOT to SVG in-process
// using [github.com/goccy/go-graphviz], so no external Graphviz
// installation is required.
package render

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/nodeflowhq/nodeflow/pkg/model"
)

// ToDOT converts a graph to Graphviz DOT format. Each node is rendered
// as a record with its input ports on top and output ports below; each
// connection becomes one directed edge from the output side to the input
// side. Hidden ports are omitted from the record but their edges are
// kept, matching how an editor draws pipes to collapsed ports.
//
// Output is deterministic: nodes sorted by ID, edges in port
// declaration order.
func ToDOT(g *model.Graph) (string, error) {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=record, style=\"rounded,filled\", fillcolor=white, fontsize=12];\n")
	if g.PipeStyle() == model.PipeStraight {
		buf.WriteString("  splines=line;\n")
	} else if g.PipeStyle() == model.PipeAngled {
		buf.WriteString("  splines=ortho;\n")
	}
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		fmt.Fprintf(&buf, "  %q [label=%q];\n", n.ID, nodeLabel(n))
	}

	buf.WriteString("\n")
	for _, n := range g.Nodes() {
		for _, p := range n.Outputs {
			peers, err := g.ConnectedPorts(p)
			if err != nil {
				return "", fmt.Errorf("node %s port %s: %w", n.ID, p.Name, err)
			}
			for _, peer := range peers {
				fmt.Fprintf(&buf, "  %q -> %q [taillabel=%q, headlabel=%q];\n",
					n.ID, peer.NodeID, p.Name, peer.Name)
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

func nodeLabel(n *model.Node) string {
	name := n.Name
	if name == "" {
		name = n.ID
	}
	var ins, outs []string
	for _, p := range n.Inputs {
		if p.Visible {
			ins = append(ins, p.Name)
		}
	}
	for _, p := range n.Outputs {
		if p.Visible {
			outs = append(outs, p.Name)
		}
	}

	parts := []string{name}
	if len(ins) > 0 {
		parts = append(parts, "in: "+strings.Join(ins, ", "))
	}
	if len(outs) > 0 {
		parts = append(parts, "out: "+strings.Join(outs, ", "))
	}
	return strings.Join(parts, "\\n")
}
