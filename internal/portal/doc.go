// Package portal implements the HTTP session client for the Kyocera Solar
// monitoring portal.
//
// # Overview
//
// The portal has no public API; this client mirrors what a browser does:
//
//  1. GET /login, lift the csrf-token meta tag and the sign-in form's hidden
//     fields.
//  2. POST the credentials; the session lives in cookies from then on.
//  3. GET the site's signage page once to prime JS-driven cookies and refresh
//     the CSRF token.
//  4. GET /organizations/{org}/sites/{site}/realtime for the JSON snapshot.
//
// # Session ownership
//
// The Client owns the session exclusively: the cookie jar, the CSRF token and
// the on-disk cache file never leave this package. Cookies are cached in
// ~/.cache/kyosol/session.json for up to 30 minutes so repeated invocations
// and watch-mode polls skip the login handshake. -force-login disables both
// loading and writing the cache.
//
// # Error taxonomy
//
//   - AuthError: credentials rejected, or the portal signalled an expired
//     session (HTTP 401/403, or an HTML body where JSON was expected). The
//     client never re-logins by itself; the poll controller owns that
//     decision.
//   - NetworkError: transport failure after up to three attempts with
//     exponential backoff (1s, 2s, 4s).
//   - DataError: response arrived but could not be decoded, or the result
//     envelope was not "ok".
//
// Use IsAuth, IsNetwork and IsData to classify a returned error.
package portal
