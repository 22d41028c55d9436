// Package auth provides the session validation middleware.
//
// The middleware reads the session cookie, loads the session data from the
// store and places the authenticated user into fiber locals. It does not
// decide what the user may see; that is the scope middleware's job, which
// runs after this one and resolves the user's role assignments into one
// effective organizational scope per request.
package auth
