// Package services holds the journal's business logic on top of the
// repositories: the entry store, the credential store and the backup
// service.
//
// # Error contract
//
// Reads never fail outright. They return a Result whose Value is the empty
// rendering (nil, an empty slice, zero) when storage failed, with the cause
// in Err. A missing row is not a failure: Value is empty and Err is nil.
// Writes return their errors to the caller.
//
// Every failure is logged with the operation name and the identifying key.
//
// # Repositories
//
// Stores build repositories per call from the current database handle,
// because Backup closes and reopens the underlying file.
package services
