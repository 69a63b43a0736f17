package core

import (
	"context"

	"github.com/JonMunkholm/MerchantImport/internal/dataimport"
	"github.com/JonMunkholm/MerchantImport/internal/event"
	"github.com/JonMunkholm/MerchantImport/internal/store"
)

// ImportInfo describes an import type.
type ImportInfo struct {
	Type            string   `json:"type"`            // "merchant", "merchant-store", ...
	Label           string   `json:"label"`           // display name
	FileName        string   `json:"fileName"`        // default file under the data dir
	RequiredColumns []string `json:"requiredColumns"` // header columns that must be present
}

// Runner is one import run. *dataimport.Importer satisfies it.
type Runner interface {
	RunID() string
	Run(ctx context.Context, src dataimport.Source) (*dataimport.Report, error)
	Finish(ctx context.Context) error
}

// RunEnv is what an import definition gets to build its steps for one run.
type RunEnv struct {
	Queries        *store.Queries
	MerchantEvents event.Sink
	URLEvents      event.Sink
	Options        []dataimport.Option
}

// NewRunnerFunc builds fresh steps bound to env.
type NewRunnerFunc func(env RunEnv) Runner

// ImportDefinition contains everything needed to run an import type.
type ImportDefinition struct {
	Info      ImportInfo
	NewRunner NewRunnerFunc
}

// ImportOptions tunes a single run.
type ImportOptions struct {
	FileName    string
	DryRun      bool
	StopOnError bool
}
