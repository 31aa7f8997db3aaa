/*
Package observability exposes pipeline runs as Prometheus metrics.

Metrics plugs into the engine through domain.LifecycleHooks, so the scheduler
stays unaware of the metric backend. Hosts that do not want metrics simply
never attach the hooks.
*/
package observability
