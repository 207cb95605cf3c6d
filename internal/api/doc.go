// Package api provides the HTTP surface of the Haven history service.
//
// It exposes a single read-only query endpoint plus a health probe:
//
//	GET /api/history/query/{entity_id}?start={RFC3339}&end={RFC3339}
//	GET /api/history/health
//
// The server follows the same lifecycle pattern as the other
// infrastructure components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// Authentication belongs to the host platform: a bearer-token middleware
// can be injected via Deps.Auth and the server mounts it in front of the
// query route. The service itself neither issues nor validates tokens.
//
// Thread Safety: All methods are safe for concurrent use from multiple
// goroutines; request handling holds no cross-request state.
package api
