// Package apiclient is the authenticated REST client used by every butcherdesk
// view.
//
// # Overview
//
// AuthenticatedClient wraps an HTTP transport (any Doer, *http.Client by
// default) and a credentials.Store. Each outgoing request gets
// "Authorization: Bearer <access>" when an access token is stored. A 401 on a
// request that has not been retried yet, with a refresh token available,
// starts the refresh flow:
//
//   - the first such request becomes the refresher: it calls
//     POST <base>/auth/token/refresh/ once, stores the new access token with the
//     unchanged refresh token, releases every queued request and replays itself;
//   - requests hitting 401 while that refresh is in flight are queued and
//     replayed, in arrival order, with the single new token;
//   - if the refresh is rejected, stored credentials are cleared and the
//     refresher and every queued request fail with the same *Error of kind
//     KindRefreshFailed.
//
// A request is replayed at most once. Any other failure surfaces as an *Error
// of kind KindRequestFailed. Callers never see the intermediate 401.
//
// # Error Handling
//
// Match failures with errors.Is against ErrRequestFailed, ErrRefreshFailed
// or credentials.ErrStorageUnavailable, or use errors.As to get the *Error
// with status code and body.
//
// # Concurrency
//
// AuthenticatedClient is safe for concurrent use. The refresh flag and the
// pending queue are guarded by a mutex, so at most one refresh call is ever
// outstanding per client.
package apiclient
