// Package server provides HTTP routing, middleware, the media file server and the OAuth callback handler.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
// [Logging] and [Recover] are the middleware used by "sangeet serve".
//
// [BasicRouter] registers method patterns such as "GET /media/{kind}/{name}" on an [http.ServeMux], which answers 405 for
// known paths requested with another method. [Start] and [Stop] run a server in the background for the CLI.
//
// # Media Handler
//
// [MediaHandler] serves objects written by the local object storage at /media/{kind}/{name}. Only the known asset
// kinds are exposed and names may not contain path separators.
//
// # OAuth Callback Handler
//
// [OAuthHandler] implements the OAuth2 authorization code callback flow for "sangeet auth login".
//
// The handler validates the state parameter (CSRF protection), exchanges the authorization code for tokens,
// and sends the result through a channel. It only processes one callback to prevent replay attacks.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
