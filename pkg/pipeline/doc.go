/*
Package pipeline implements the dataflow graph: nodes, wiring, and the
ready-batch scheduler.

A Node is a unit of computation with declared input/output arity, a
capability declaration (effects it produces, requirements it expects
upstream), a configuration map, and a single cached result. A Graph owns all
nodes and drives execution: a node becomes ready once every predecessor has
completed, ready nodes run in batches, and each node runs at most once per
run. Before a node runs, the cumulative effects of its ancestors are checked
against its resolved requirements.

Results fan out safely: a node with more than one successor hands each
consumer an independent deep copy, while a single-successor node shares the
live value.
*/
package pipeline
