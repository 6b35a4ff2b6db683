package provider

import "net/http"

// deploymentTransport is an http.RoundTripper that injects the
// Azure-style authentication headers on every request: "api-key" in
// place of a bearer token, and "x-ms-model-mesh-model-name" to select
// the deployment behind a model-mesh endpoint.
type deploymentTransport struct {
	inner      http.RoundTripper
	apiKey     string
	deployment string
}

// newDeploymentTransport creates a deploymentTransport. If inner is
// nil, http.DefaultTransport is used.
func newDeploymentTransport(apiKey, deployment string, inner http.RoundTripper) *deploymentTransport {
	if inner == nil {
		inner = http.DefaultTransport
	}
	return &deploymentTransport{
		inner:      inner,
		apiKey:     apiKey,
		deployment: deployment,
	}
}

// RoundTrip implements http.RoundTripper. The request is cloned before
// mutation as required by the RoundTripper contract.
func (t *deploymentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.Header.Set("api-key", t.apiKey)
	if t.deployment != "" {
		clone.Header.Set("x-ms-model-mesh-model-name", t.deployment)
	}
	return t.inner.RoundTrip(clone)
}
