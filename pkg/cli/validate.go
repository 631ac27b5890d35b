package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/factbase/pkg/cli/config"
	"github.com/secmon-lab/factbase/pkg/utils/logging"
	"github.com/secmon-lab/factbase/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

func cmdValidate() *cli.Command {
	var appCfg config.AppConfig
	var repoCfg config.Repository
	var checkDB bool

	var flags []cli.Flag
	flags = append(flags, appCfg.Flags()...)
	flags = append(flags, &cli.BoolFlag{
		Name:        "check-db",
		Usage:       "Also open the configured repository and count stored facts",
		Sources:     cli.EnvVars("FACTBASE_CHECK_DB"),
		Destination: &checkDB,
	})
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate the configuration file and optionally the repository",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			w := c.Root().Writer
			ok := color.New(color.FgGreen, color.Bold)
			ng := color.New(color.FgRed, color.Bold)

			// Step 1: Load and validate the configuration file
			cfg, err := appCfg.Configure()
			if err != nil {
				_, _ = ng.Fprintln(w, "✗ configuration is invalid")
				return goerr.Wrap(err, "configuration validation failed")
			}

			source := appCfg.Path()
			if source == "" {
				source = "(defaults)"
			}
			_, _ = ok.Fprint(w, "✓ ")
			_, _ = fmt.Fprintf(w, "configuration %s: service=%q debug=%v\n", source, cfg.Service.Name, cfg.Service.Debug)

			// Step 2: Optionally open the repository and read every fact
			if !checkDB {
				logging.Default().Debug("Skipping repository check")
				return nil
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				_, _ = ng.Fprintln(w, "✗ repository cannot be opened")
				return goerr.Wrap(err, "repository check failed")
			}
			defer safe.Close(ctx, repo, "repository")

			facts, err := repo.Fact().List(ctx)
			if err != nil {
				_, _ = ng.Fprintln(w, "✗ repository cannot be read")
				return goerr.Wrap(err, "failed to list facts", goerr.V(config.BackendKey, repoCfg.Backend()))
			}

			_, _ = ok.Fprint(w, "✓ ")
			_, _ = fmt.Fprintf(w, "repository %s: %d fact(s)\n", repoCfg.Backend(), len(facts))
			return nil
		},
	}
}
