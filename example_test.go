package graphgo_test

import (
	"fmt"
	"log"
	"os"

	"github.com/hupe1980/graphgo"
)

// Example demonstrates linking nodes in a durable store and reading the
// graph back after reopening it.
func Example() {
	dir, err := os.MkdirTemp("", "graphgo-example")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)

	store, err := graphgo.Open(dir)
	if err != nil {
		log.Fatal(err)
	}

	g := store.Graph()
	root, _ := g.RootNode()
	alice, _ := g.CreateNode()
	if err := alice.Set("name", "alice"); err != nil {
		log.Fatal(err)
	}
	friend, _ := g.Relationship("friend")
	if _, err := root.Link(alice, friend); err != nil {
		log.Fatal(err)
	}
	_ = store.Close()

	store, err = graphgo.Open(dir)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	g = store.Graph()
	root, _ = g.RootNode()
	friend, _ = g.Relationship("friend")
	edges, _ := root.OutgoingEdges(friend)
	for _, e := range edges {
		name, _ := e.End().Get("name")
		fmt.Println(e.Start().ID(), "->", e.End().ID(), name)
	}
	// Output: 0 -> 1 alice
}

// Example_memory demonstrates the in-memory backend and self-loops.
func Example_memory() {
	store := graphgo.NewMemory()
	defer store.Close()

	g := store.Graph()
	n, _ := g.CreateNode()
	self, _ := g.Relationship("self")
	_, _ = n.Link(n, self)

	out, _ := n.OutgoingEdges(self)
	in, _ := n.IncomingEdges(self)
	fmt.Println(len(out), len(in), out[0].ID() == in[0].ID())
	// Output: 1 1 true
}

// Example_metrics demonstrates collecting operation counters.
func Example_metrics() {
	mc := &graphgo.BasicMetricsCollector{}
	store := graphgo.NewMemory(graphgo.WithMetricsCollector(mc))
	defer store.Close()

	g := store.Graph()
	a, _ := g.CreateNode()
	b, _ := g.CreateNode()
	r, _ := g.Relationship("r")
	_, _ = a.Link(b, r)
	_, _ = a.OutgoingEdges(r)

	stats := mc.GetStats()
	fmt.Println(stats.CreateNodeCount, stats.LinkCount, stats.QueryCount, stats.QueryResults)
	// Output: 2 1 1 1
}
