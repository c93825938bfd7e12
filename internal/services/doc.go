// Package services is the typed client of the hobby hub REST backend.
//
// # Clients
//
// Every resource group (auth, profile, habits, notes, projects, gallery, calendar) gets its own [Client] from the
// one factory [NewClient], parameterised by the group path. [NewHub] wires all of them to a shared session,
// [Refresher] and rate limiter.
//
// # Token Contract
//
// A request carries "Authorization: Bearer <access>" whenever the session holds an access token and no
// Authorization header otherwise. On a 401 the request is marked retried and, if a refresh token is stored:
//   - the refresh token is exchanged at POST /auth/refresh/ by the [Refresher], which never goes through a [Client]
//   - on success the new access token is persisted and the request is sent once more with it
//   - on failure both tokens are purged, the [session.Navigator] is sent to the login route and the refresh error is returned
//
// A retried request that fails again, and every non-401 error, is returned unchanged. Concurrent refreshes of the
// same refresh token are coalesced with [singleflight.Group].
//
// # Resources
//
// [Resource] gives each collection list/get/create/update/patch/delete plus detail and list actions.
// Request bodies are JSON, except uploads which are multipart [Form]s; both are buffered so a retry replays the same bytes.
//
// # Error Handling
//
// Non-2xx responses are [*APIError], whose [APIError.Message] yields the backend's "error" or "detail" text.
// They unwrap to the shared sentinels:
//   - [shared.ErrUnauthorized] : 401
//   - [shared.ErrNotFound] : 404
//   - [shared.ErrServiceUnavailable] : 502, 503, 504
//   - [shared.ErrAPIRequest] : anything else, and transport failures
//
// A failed refresh wraps [shared.ErrRefreshFailed].
package services
