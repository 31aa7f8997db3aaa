/*
Package capability models what a pipeline node touches on the shared data record.

An Interaction maps each named region of the record (row annotations, column
annotations, layers, ...) to a set of field identifiers. Declared on a node, it
states either an effect (fields the node produces) or a requirement (fields
that must already exist upstream). A List is a disjunction of Interactions:
alternative ways the same declaration can be satisfied.

# Key Concepts

  - Interaction: per-region field sets with a pointwise partial order.
  - List: OR-of-AND algebra with a Cartesian Product and a positional Sum.
  - Param/Resolve: bracketed placeholders inside field names that are expanded
    against a node's runtime configuration before the graph runs.
*/
package capability
