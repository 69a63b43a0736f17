// Package imports registers every merchant import type with the core
// registry. Import it for its side effects.
package imports

// Each file registers its import type from init().
