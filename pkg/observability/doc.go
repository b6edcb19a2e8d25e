/*
Package observability turns engine lifecycle events into Prometheus metrics
and structured log lines.

Both are exposed as domain.LifecycleHooks so they can be merged and passed to
interviewer.WithLifecycleHooks:

	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)
	hooks := metrics.Hooks().Merge(observability.LoggingHooks(logger))
	eng, _ := interviewer.New(profile, gen, input, sink, interviewer.WithLifecycleHooks(hooks))
*/
package observability
