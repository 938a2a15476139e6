// Package transfer moves records across the application boundary:
// backup/restore of both collections and bulk import of to-dos from
// JSON or CSV. Format errors are rejected wholesale before anything is
// written, so a bad file never leaves the store partially applied.
package transfer
