/*
Package domain contains the core contracts shared across the weft engine.

It defines the result payload contract, node status, the error taxonomy, and
the lifecycle events emitted during a run. This package is kept free of
execution logic and I/O so that the scheduler, loaders, and metric collectors
can all depend on it without cycles.

# Key Entities

  - Payload: the opaque, clonable value a node produces.
  - Status: the node lifecycle (pending, ready, completed).
  - ExecutionError, RequirementsNotMetError, WiringError: the failure taxonomy.
  - LifecycleHooks: observability callbacks for hosts and metric collectors.
*/
package domain
