// Package core runs merchant imports against the database.
//
// It is independent of any transport: the CLI and the HTTP server both go
// through [Service].
//
// # Import Types
//
// Import types are registered at init time using [Register]. Each
// [ImportDefinition] knows its default file, its required columns, and how
// to build a fresh step chain for one run:
//
//	core.Register(core.ImportDefinition{
//	    Info:      core.ImportInfo{Type: "merchant", FileName: "merchant.csv"},
//	    NewRunner: newMerchantRunner,
//	})
//
// # Runs
//
// A run executes inside one transaction:
//
//  1. Acquire a slot from the [ImportLimiter]
//  2. Begin a transaction; bind the store queries to it
//  3. Process rows in input order, each under its own savepoint
//  4. Commit (or roll back for a dry run)
//  5. Flush deferred publish events, after the commit
//
// Failed rows never abort the run unless StopOnError is set; they are
// reported with a support code from [MapError].
package core
