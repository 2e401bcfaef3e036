// Package users persists journal accounts in the Users table of the auth
// database. Usernames are unique and compared case-sensitively. Timestamps
// are stored as YYYY-MM-DD hh:mm:ss text.
package users
