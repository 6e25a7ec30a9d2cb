package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/arthur-debert/testbed/internal/version"
	"github.com/arthur-debert/testbed/pkg/config"
	"github.com/arthur-debert/testbed/pkg/errors"
	"github.com/arthur-debert/testbed/pkg/scratch"
	"github.com/arthur-debert/testbed/pkg/ui"
	"github.com/spf13/cobra"
)

func newDeployCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "deploy <source> [output-directory]",
		Short:   MsgDeployShort,
		Long:    MsgDeployLong,
		Example: MsgDeployExample,
		GroupID: "core",
		Args:    cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.getDeployer()
			if err != nil {
				return err
			}

			output := ""
			if len(args) > 1 {
				output = args[1]
			}
			res, err := d.Item(args[0], output)
			if err != nil {
				return err
			}

			r, err := a.renderer(cmd)
			if err != nil {
				return err
			}
			return r.RenderResult(MsgDeployed, []ui.Field{
				{Label: "Target", Value: res.Target},
				{Label: "Copied", Value: strconv.Itoa(res.Copied)},
				{Label: "Skipped", Value: strconv.Itoa(res.Skipped)},
			})
		},
	}
}

func newMkdirCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "mkdir <path>",
		Short:   MsgMkdirShort,
		GroupID: "core",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.getDeployer()
			if err != nil {
				return err
			}
			target, err := d.Roots().ResolveWork(args[0])
			if err != nil {
				return err
			}
			if err := d.CreateDirectory(args[0]); err != nil {
				return err
			}

			r, err := a.renderer(cmd)
			if err != nil {
				return err
			}
			return r.RenderMessage(fmt.Sprintf(MsgCreatedFormat, target))
		},
	}
}

func newRmCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <path>",
		Short:   MsgRmShort,
		GroupID: "core",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.getDeployer()
			if err != nil {
				return err
			}
			target, err := d.Roots().ResolveWork(args[0])
			if err != nil {
				return err
			}
			r, err := a.renderer(cmd)
			if err != nil {
				return err
			}

			if !d.Exists(args[0]) {
				return r.RenderMessage(fmt.Sprintf(MsgNothingDeleted, target))
			}
			if d.Ops().DirExists(target) {
				err = d.DeleteDirectory(args[0])
			} else {
				err = d.DeleteFile(args[0])
			}
			if err != nil {
				return err
			}
			return r.RenderMessage(fmt.Sprintf(MsgDeletedFormat, target))
		},
	}
}

func newScratchCmd(a *app) *cobra.Command {
	var (
		fullName string
		options  string
		items    []string
	)

	cmd := &cobra.Command{
		Use:     "scratch <name>",
		Short:   MsgScratchShort,
		Long:    MsgScratchLong,
		Example: MsgScratchExample,
		GroupID: "core",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := scratch.ParseOptions(options)
			if err != nil {
				return err
			}
			d, err := a.getDeployer()
			if err != nil {
				return err
			}

			env := scratch.Env{Deployer: d, Allocator: scratch.NewNameAllocator()}
			sp, err := scratch.Open(env, scratch.NewIdentity(args[0], fullName), opts)
			if err != nil {
				return err
			}
			defer func() { _ = sp.Close() }()

			copied := 0
			for _, item := range items {
				res, err := sp.DeployItem(item)
				if err != nil {
					return err
				}
				copied += res.Copied
			}

			r, err := a.renderer(cmd)
			if err != nil {
				return err
			}
			return r.RenderResult(MsgScratchReady, []ui.Field{
				{Label: "Name", Value: sp.RelativePath},
				{Label: "Path", Value: sp.Path},
				{Label: "Options", Value: opts.String()},
				{Label: "Copied", Value: strconv.Itoa(copied)},
			})
		},
	}

	cmd.Flags().StringVar(&fullName, "full-name", "", MsgFlagFullName)
	cmd.Flags().StringVar(&options, "options", "", MsgFlagOptions)
	cmd.Flags().StringArrayVar(&items, "deploy", nil, MsgFlagDeploy)
	return cmd
}

func newConfigCmd(a *app) *cobra.Command {
	var (
		format   string
		template bool
	)

	cmd := &cobra.Command{
		Use:     "config",
		Short:   MsgConfigShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if template {
				_, err := io.WriteString(cmd.OutOrStdout(), config.GenerateConfigContent())
				return err
			}

			cfg, err := a.config()
			if err != nil {
				return err
			}
			out, err := config.Encode(cfg, format)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}

	cmd.Flags().StringVar(&format, "format", config.FormatTOML, MsgFlagFormat)
	cmd.Flags().BoolVar(&template, "template", false, MsgFlagTemplate)
	return cmd
}

func newDocsCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "docs [topic]",
		Short:     MsgDocsShort,
		GroupID:   "misc",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: Topics(),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				fmt.Fprintln(out, MsgTopicsHeader)
				for _, topic := range Topics() {
					fmt.Fprintf(out, MsgTopicItem, topic)
				}
				return nil
			}

			content, ok := TopicContent(args[0])
			if !ok {
				return errors.Newf(errors.ErrInvalidOption, MsgErrUnknownTopic, args[0]).
					WithDetail("topics", Topics())
			}
			_, err := io.WriteString(out, NewGlamourRenderer().Render(content))
			return err
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}
