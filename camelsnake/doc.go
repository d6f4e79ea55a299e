// Package camelsnake provides middleware that lets clients speak camelCase
// JSON while the application behind it speaks snake_case.
//
// Request bodies with a JSON Content-Type have every object key converted to
// snake_case before the inner handler sees them; JSON responses have their
// keys converted back to camelCase. Values are never touched, and the
// Content-Length of every rewritten body is kept in step with its bytes.
//
// # Basic Usage
//
//	rw := camelsnake.NewBuilder().
//		SkipPaths("/health", "/metrics").
//		MaxBodyBytes(1 << 20).
//		Build()
//
//	http.ListenAndServe(":8080", rw.Middleware(mux))
//
// # Opting Out
//
// A request is forwarded untouched when its path is listed in SkipPaths or
// when the configured Bypass predicate returns true. KeepCaseRoutes builds a
// predicate from chi route patterns.
//
// # Configuration
//
// The library supports both programmatic configuration via the builder pattern
// and declarative configuration via structs that can be loaded from JSON/YAML.
//
// # Envelopes
//
// Rewriter.Wrap works on Request and Response envelopes instead of net/http
// types, for hosts with their own transport.
//
// # grpc-gateway Integration
//
// CreateGatewayMux returns a gateway mux that marshals proto field names
// together with the handler to serve:
//
//	mux, handler := camelsnake.CreateGatewayMux(rw)
//	pb.RegisterTaskServiceHandler(ctx, mux, conn)
//	http.ListenAndServe(":8080", handler)
package camelsnake
