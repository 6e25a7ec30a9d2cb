// Package cli implements the testbed command line.
package cli

import (
	"fmt"
	"os"

	"github.com/arthur-debert/testbed/internal/version"
	"github.com/arthur-debert/testbed/pkg/config"
	"github.com/arthur-debert/testbed/pkg/deploy"
	"github.com/arthur-debert/testbed/pkg/errors"
	"github.com/arthur-debert/testbed/pkg/fileops"
	"github.com/arthur-debert/testbed/pkg/logging"
	"github.com/arthur-debert/testbed/pkg/ui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// app holds global flag values and the dependencies built from them.
// Configuration is loaded on first use so that version, docs and
// completion work without it.
type app struct {
	verbosity  int
	configFile string
	resources  string
	work       string
	output     string

	cfg      *config.Config
	deployer *deploy.Deployer
}

func (a *app) config() (*config.Config, error) {
	if a.cfg != nil {
		return a.cfg, nil
	}

	overrides := map[string]interface{}{}
	if a.resources != "" {
		overrides["roots.resources"] = a.resources
	}
	if a.work != "" {
		overrides["roots.work"] = a.work
	}

	cfg, err := config.Load(config.LoadOptions{
		ConfigFile: a.configFile,
		Overrides:  overrides,
	})
	if err != nil {
		return nil, err
	}
	if a.verbosity == 0 && cfg.Logging.Verbosity > 0 {
		logging.SetupLogger(cfg.Logging.Verbosity)
	}
	a.cfg = cfg
	return cfg, nil
}

func (a *app) getDeployer() (*deploy.Deployer, error) {
	if a.deployer != nil {
		return a.deployer, nil
	}

	cfg, err := a.config()
	if err != nil {
		return nil, err
	}
	roots, err := cfg.ResolveRoots()
	if err != nil {
		return nil, err
	}
	ops, err := fileops.New(fileops.WithPolicy(cfg.Policy()))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, MsgErrBuildDeployer)
	}

	log.Debug().
		Str("resources", roots.ResourceRoot).
		Str("work", roots.WorkRoot).
		Str("strategy", ops.Strategy().Name()).
		Msg("Roots resolved")

	a.deployer = deploy.New(roots, ops)
	return a.deployer, nil
}

func (a *app) renderer(cmd *cobra.Command) (ui.Renderer, error) {
	format, err := ui.ParseFormat(a.output)
	if err != nil {
		return nil, err
	}
	return ui.NewRenderer(format, cmd.OutOrStdout())
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	a := &app{}

	rootCmd := &cobra.Command{
		Use:     "testbed",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Resolved(),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logging.SetupLogger(a.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
			_, err := ui.ParseFormat(a.output)
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errors.New(errors.ErrArgumentRequired, MsgErrNoCommand)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.CountVarP(&a.verbosity, "verbose", "v", MsgFlagVerbose)
	flags.StringVar(&a.configFile, "config", "", MsgFlagConfig)
	flags.StringVar(&a.resources, "resources", "", MsgFlagResources)
	flags.StringVar(&a.work, "work", "", MsgFlagWork)
	flags.StringVarP(&a.output, "output", "o", "auto", MsgFlagOutput)

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "COMMANDS:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})
	rootCmd.SetUsageTemplate(MsgUsageTemplate)
	rootCmd.SetHelpCommandGroupID("misc")
	rootCmd.SetCompletionCommandGroupID("misc")

	rootCmd.AddCommand(newDeployCmd(a))
	rootCmd.AddCommand(newMkdirCmd(a))
	rootCmd.AddCommand(newRmCmd(a))
	rootCmd.AddCommand(newScratchCmd(a))
	rootCmd.AddCommand(newConfigCmd(a))
	rootCmd.AddCommand(newDocsCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// Execute runs the root command and reports any error on stderr.
// It returns the process exit code.
func Execute() int {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		r, rerr := ui.NewRenderer(ui.FormatAuto, os.Stderr)
		if rerr == nil {
			_ = r.RenderError(err)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}
