package pipeline

import (
	"strings"
)

// NodeKind classifies a graph node.
type NodeKind string

const (
	KindRunnable NodeKind = "runnable"
	KindInput    NodeKind = "input"
	KindOutput   NodeKind = "output"
)

// Node is one vertex of a pipeline graph. In and Out carry the stage's
// declared shapes when the Runnable implements Typed.
type Node struct {
	ID    int      `json:"id"`
	Label string   `json:"label"`
	Kind  NodeKind `json:"kind"`
	In    string   `json:"in,omitempty"`
	Out   string   `json:"out,omitempty"`
}

// Edge is a directed connection between two nodes.
type Edge struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Graph is the static structure of a composed pipeline. It is built by
// walking the composition, not by running it, so it can be rendered before
// any invocation.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

type graphBuilder struct {
	g      Graph
	nextID int
}

func (b *graphBuilder) addNode(label string, kind NodeKind) int {
	id := b.nextID
	b.nextID++
	b.g.Nodes = append(b.g.Nodes, Node{ID: id, Label: label, Kind: kind})
	return id
}

func (b *graphBuilder) addEdge(from, to int) {
	b.g.Edges = append(b.g.Edges, Edge{From: from, To: to})
}

// addRunnable adds a stage node, copying declared shapes when present.
// Node IDs double as indices into Nodes because they are assigned in
// append order.
func (b *graphBuilder) addRunnable(r Runnable) int {
	id := b.addNode(r.Label(), KindRunnable)
	if tr, ok := r.(Typed); ok {
		b.g.Nodes[id].In = tr.InputShape()
		b.g.Nodes[id].Out = tr.OutputShape()
	}
	return id
}

// walk adds r's subgraph and returns its entry and exit node IDs.
func (b *graphBuilder) walk(r Runnable) (entry, exit int) {
	switch v := r.(type) {
	case *seq:
		if len(v.stages) == 0 {
			id := b.addRunnable(v)
			return id, id
		}
		entry, exit = b.walk(v.stages[0])
		for _, stage := range v.stages[1:] {
			sEntry, sExit := b.walk(stage)
			b.addEdge(exit, sEntry)
			exit = sExit
		}
		return entry, exit
	case *join:
		// Synthetic fan-out and fan-in markers keep the branch structure
		// visible even when a branch is a single node.
		in := b.addNode("join:input", KindInput)
		out := b.addNode("join:output", KindOutput)
		for _, name := range v.names {
			bEntry, bExit := b.walk(v.branches[name])
			b.addEdge(in, bEntry)
			b.addEdge(bExit, out)
		}
		return in, out
	default:
		id := b.addRunnable(r)
		return id, id
	}
}

// BuildGraph derives the node and edge structure of a composed runnable.
// Node IDs are assigned in a deterministic walk order, so equal compositions
// produce equal graphs.
func BuildGraph(r Runnable) Graph {
	b := &graphBuilder{}
	b.walk(r)
	if b.g.Nodes == nil {
		b.g.Nodes = []Node{}
	}
	if b.g.Edges == nil {
		b.g.Edges = []Edge{}
	}
	return b.g
}

// Render draws the graph as ASCII art. Stages flow top to bottom with arrows
// between them; join branches are indented between fan-out and fan-in
// markers. The output is stable across runs.
func (g Graph) Render() string {
	if len(g.Nodes) == 0 {
		return ""
	}

	succ := make(map[int][]int, len(g.Edges))
	for _, e := range g.Edges {
		succ[e.From] = append(succ[e.From], e.To)
	}
	nodes := make(map[int]Node, len(g.Nodes))
	for _, n := range g.Nodes {
		nodes[n.ID] = n
	}

	var sb strings.Builder

	// draw renders the chain starting at id and halts at stop. stop is the
	// fan-in marker when drawing a branch, noStop at the top level.
	const noStop = -1
	var draw func(id, stop int, indent string)
	draw = func(id, stop int, indent string) {
		first := true
		for id != stop {
			if !first {
				sb.WriteString(indent + "  |\n" + indent + "  v\n")
			}
			first = false

			n := nodes[id]
			if n.Kind == KindInput {
				// The matching output marker is allocated right after the
				// input marker, so it is always id+1.
				out := id + 1
				sb.WriteString(indent + "==[ fan out ]==\n")
				for _, entry := range succ[id] {
					draw(entry, out, indent+"    ")
				}
				sb.WriteString(indent + "==[ fan in  ]==\n")
				if len(succ[out]) == 0 {
					return
				}
				id = succ[out][0]
				continue
			}

			for _, line := range boxLines(n.Label) {
				sb.WriteString(indent + line + "\n")
			}
			if len(succ[id]) == 0 {
				return
			}
			id = succ[id][0]
		}
	}

	draw(g.Nodes[0].ID, noStop, "")
	return sb.String()
}

func boxLines(label string) []string {
	inner := " " + label + " "
	bar := "+" + strings.Repeat("-", len(inner)) + "+"
	return []string{bar, "|" + inner + "|", bar}
}
