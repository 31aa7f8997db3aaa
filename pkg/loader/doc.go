/*
Package loader materializes a pipeline graph from an external document.

A document (YAML or JSON, typically exported from a designer UI) lists node
instances (id, registry reference, parameter values) and edge descriptors of
the form "source-target-slot". The loader resolves each reference against a
registry, validates and applies parameters, wires the edges, and returns a
runnable graph.
*/
package loader
