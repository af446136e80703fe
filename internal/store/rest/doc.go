// Package rest provides a store.Client for a PostgREST-compatible API, the
// interface a hosted Supabase project exposes under /rest/v1.
//
// # Requests
//
// Every collection maps to a table endpoint:
//
//   - Select: GET /rest/v1/{table}?select=*&user_id=eq.U&status=eq.active&order=created_at.desc&limit=5
//   - Insert: POST /rest/v1/{table} with a JSON object body
//   - Update: PATCH /rest/v1/{table}?id=eq.ID with a JSON object body
//   - Delete: DELETE /rest/v1/{table}?id=eq.ID
//
// Writes send "Prefer: return=representation" so the server echoes the
// affected rows. An update or delete that echoes no rows is reported as a
// *store.NotFoundError.
//
// # Authentication
//
// The configured API key goes in the apikey header. The Authorization bearer
// is the signed-in user's access token when a TokenFunc is configured and
// returns one, otherwise the API key itself. Row level security on the server
// is what scopes rows to the user; the client still sends the user_id filter
// so that the same query works against the local backends.
//
// # Errors
//
// Status codes of 400 and above become *store.StoreError carrying the status
// and the PostgREST message. Transport and decode failures are wrapped the
// same way with Status left at zero.
//
// # Thread Safety
//
// The Client is safe for concurrent use.
package rest
