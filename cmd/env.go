package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/visibility-cli/internal/cost"
	"github.com/sells-group/visibility-cli/internal/provider"
	"github.com/sells-group/visibility-cli/internal/querygen"
	"github.com/sells-group/visibility-cli/internal/report"
	"github.com/sells-group/visibility-cli/internal/store"
)

// env holds the wired subsystems a command needs.
type env struct {
	Store     store.Store
	Registry  *provider.Registry
	Assembler *report.Assembler
}

// initEnv opens the store, builds the provider registry from config, and
// wires the report assembler.
func initEnv(ctx context.Context) (*env, error) {
	st, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DatabaseURL)
	if err != nil {
		return nil, eris.Wrap(err, "open store")
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	if cfg.Report.TemplatesFile != "" {
		if err := querygen.LoadTemplates(cfg.Report.TemplatesFile); err != nil {
			st.Close()
			return nil, eris.Wrap(err, "load template pack")
		}
	}

	calc := cost.NewCalculator(cfg.Pricing)
	reg, err := provider.BuildRegistry(ctx, cfg.Providers, calc)
	if err != nil {
		st.Close()
		return nil, eris.Wrap(err, "build providers")
	}

	return &env{
		Store:     st,
		Registry:  reg,
		Assembler: report.NewAssembler(reg, cfg.Report, st),
	}, nil
}

func (e *env) Close() {
	_ = e.Store.Close()
}
