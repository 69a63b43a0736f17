// Package dataimport provides the step framework used to map CSV rows into
// merchant records.
//
// An import run is a linear chain of steps applied to one typed row at a
// time, in input order:
//
//	Record (header -> cell) -> parse -> R -> Step[R] ... Step[R]
//
// Steps that hold run-scoped state (queued events, caches) may implement
// [AfterExecuteHook]; the [Importer] calls it exactly once after the last row.
//
// # Id Resolution
//
// [Resolver] turns a natural key on the row (merchant key, merchant
// reference) into the internal numeric id, memoising every successful lookup
// in a private [IDCache]. A cache lives exactly as long as the step that owns
// it: construct one resolver per run and never share it. Misses are not
// cached, so a key that was missing stays missing for the whole run.
//
// # Errors
//
// Only two error kinds originate here:
//
//   - [InvalidDataError]: a required field is empty or absent (errors.Is ErrInvalidData)
//   - [EntityNotFoundError]: a natural key did not resolve (errors.Is ErrEntityNotFound)
//
// Both abort the current row only. Whether the run continues is decided by
// the [Importer] configuration, never by the step.
package dataimport
