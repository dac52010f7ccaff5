// Package services implements the podcast directory collaborator used by the terminal UI and CLI.
//
// # Directory Interface
//
// [Directory] is the read-only view of a podcast directory: searching shows by term and listing a show's
// episodes. [PodcastIndex] implements it over the Podcast Index REST API.
//
// # Transport
//
// [APIService] performs raw GET requests against a base URL, signing each one with the configured
// [Signer]. Responses are returned undecoded so callers (and the `podx api get` command) can inspect them.
//
// # Authentication
//
// Podcast Index requests carry X-Auth-Key, X-Auth-Date and an Authorization header holding the hex
// SHA-1 of key, secret and date concatenated. Missing credentials surface as [shared.ErrMissingCredentials].
//
// # Caching
//
// Successful responses are stored in a [cache.Store] keyed by path and query, so repeated searches and
// detail loads inside the TTL are served locally.
//
// # Error Handling
//
//   - [shared.ErrMissingCredentials] : no API key or secret configured
//   - [shared.ErrAPIRequest] : transport failure or non-2xx status
//   - [shared.ErrInvalidInput] : malformed response body
package services
