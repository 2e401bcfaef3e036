// Package session tracks the single authenticated user of a running journal.
//
// # Overview
//
// A Manager moves between two states, anonymous and authenticated. Login,
// LoginWithToken and Register authenticate; Logout and a successful
// DeleteAccount return to anonymous. ChangePassword keeps the identity.
//
// Remember-me tokens are opaque strings mapped to usernames for the lifetime
// of the Manager. A user may hold several valid tokens at once; they are
// forgotten when the account is deleted.
//
// Observers registered with Subscribe are called synchronously after every
// transition, outside the Manager's lock. A panicking observer is recovered
// and logged.
package session
