// Package pweb boots a batteries-included web application around the phttp dispatch
// pipeline: environment-driven configuration, zap logging, OpenTelemetry tracing,
// prometheus request metrics, an instrumented outbound HTTP client and an h2c-capable
// server, wired together with fx for lifecycle management.
//
// A minimal application provides an environment type and a router constructor:
//
//	type Env struct{ pweb.BaseEnvironment }
//
//	func main() {
//	    pweb.NewApp[Env](func() phttp.Router { return myRoutes() }).Run()
//	}
//
// The router constructor may request any dependency provided through [WithFx], for
// example a database pool or the instrumented [requests.Builder].
package pweb
