package lexicon

import (
	"context"
	"fmt"

	"github.com/rajasatyajit/grievance-insights/config"
	"github.com/rajasatyajit/grievance-insights/internal/logger"
)

// Load builds the Set selected by cfg. db is only consulted for the postgres
// source and may be nil otherwise.
func Load(ctx context.Context, cfg config.LexiconConfig, db Database) (*Set, error) {
	var (
		set *Set
		err error
	)

	switch cfg.Source {
	case "", config.LexiconSourceBuiltin:
		set = Default()
	case config.LexiconSourceFile:
		set, err = LoadFile(cfg.Path)
	case config.LexiconSourcePostgres:
		if db == nil {
			return nil, fmt.Errorf("lexicon source %q requires a database", cfg.Source)
		}
		set, err = NewPostgresSource(db).Load(ctx)
	default:
		return nil, fmt.Errorf("unknown lexicon source %q", cfg.Source)
	}
	if err != nil {
		return nil, err
	}

	logger.Info("Lexicon ready",
		"source", cfg.Source,
		"categories", len(set.Categories())-1,
		"fingerprint", set.Fingerprint()[:12],
	)
	return set, nil
}
