package types

// Prometheus metric names and label keys. Collectors and dashboards use
// these constants so names stay stable across releases.
const (
	MetricHTTPRequestsTotal   = "http_requests_total"
	MetricHTTPRequestDuration = "http_request_duration_seconds"
	MetricDecisionsTotal      = "enforcement_decisions_total"
	MetricCatalogRefreshTotal = "catalog_refresh_total"
	MetricCatalogTenants      = "catalog_tenants"

	LabelMethod   = "method"
	LabelEndpoint = "endpoint"
	LabelStatus   = "status"
	LabelModule   = "module"
	LabelOutcome  = "outcome"
	LabelSource   = "source"
	LabelResult   = "result"

	OutcomeAllowed = "allowed"
	OutcomeDenied  = "denied"
)
