// Package models defines the journal's data types: users, journal entries and
// the statistics derived from them.
package models
