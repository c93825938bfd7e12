// Package session owns the credential pair (access token + refresh token) shared by every API client.
//
// A [Session] is a single owned value passed by reference to the networking layer. Reads are served from memory;
// writes go through to a [Backend] so the pair survives restarts. The sqlite-backed implementation lives in
// repositories.TokenRepository; [MemoryBackend] keeps everything in process.
//
// The access token is never inspected locally to decide whether it is still valid. Expiry is only learned from a
// 401 response, which the services package answers with a single refresh-and-retry.
//
// [Guard] is the route guard: a binary present/absent check that sends unauthenticated callers to the login route.
package session
