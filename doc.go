/*
Package weft is a capability-checked dataflow pipeline engine.

A pipeline is a directed graph of nodes that transform a shared data record.
Each node declares which regions of the record it requires to already have
been touched and which it produces. The engine schedules nodes in dependency
order, verifies before a node runs that the cumulative effects of its
ancestors satisfy its requirements, and shares results safely when a node's
output fans out to several consumers.

# Concept

Declarations are written once per node implementation as capability templates
and resolved per instance against the node's configuration: a template field
like "neighbors[key]" expands over the instance's "key" parameter, including
fan-out over collection values. Because requirements are checked against
declarations rather than data, a pipeline can be validated before anything
runs.

# Usage

Register node definitions once, then load and run pipeline documents:

	package main

	import (
		"context"
		"log"

		"github.com/aretw0/weft"
	)

	func main() {
		eng := weft.New() // weft.WithParallelism(4), weft.WithLogger(...), ...
		registerNodes(eng.Registry())

		graph, err := eng.Load("pipeline.yaml")
		if err != nil {
			log.Fatal(err)
		}
		if err := graph.Validate(); err != nil {
			log.Fatal(err)
		}
		if err := eng.Run(context.Background(), graph); err != nil {
			log.Fatal(err)
		}
	}

Graphs can also be wired directly with pipeline.NewNode and Node.ConnectTo
when no external document is involved.
*/
package weft
