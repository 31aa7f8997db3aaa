/*
Package registry manages the catalog of available node definitions.

Node implementations self-register a Definition: name, arity, capability
template, parameter schema, and a factory for the runner. The pipeline loader
resolves document references against the registry instead of scanning source
trees, and the registry can render the whole catalog as a JSON manifest for a
designer UI.
*/
package registry
