// Package social manages linked social accounts.
//
// A connection moves Disconnected -> Pending -> Connected -> Disconnected.
// Connect records a PendingAuthorization and returns the provider URL to
// open. The provider redirects back to the registered redirect URL, where
// CompleteAuthorization (pure) works out which network answered and
// HandleRedirectCallback persists the outcome. Pinterest issues a code that
// CompletePinterestHandshake exchanges for a token as a confidential client.
//
// Flags and tokens are plain kv entries:
//
//	vitrinex_social_connected_<network>  "true"
//	vitrinex_social_token_<network>      bearer token
//	vitrinex_social_code_pinterest       code awaiting exchange
//	vitrinex_social_pending              PendingAuthorization JSON
package social
