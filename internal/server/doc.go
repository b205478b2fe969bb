// Package server provides HTTP routing, middleware, and the OAuth redirect
// callback used during login.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Callback Handler
//
// [CallbackHandler] receives the authorization redirect on /callback. It
// validates the state parameter (CSRF protection) and sends the one-time
// authorization code through a channel; token exchange is the session
// manager's job, keeping this handler free of credential handling.
//
// A redirect without a code (the user clicked "cancel", or the provider
// reported an error) produces an explicit error result and error page.
// The handler only processes one callback to prevent replay.
//
// # Usage
//
// During login a temporary HTTP server starts on the configured address,
// handles the single callback, and shuts down once the result is delivered.
package server
