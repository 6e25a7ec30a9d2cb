package cli

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Prepare test fixtures and scratch directories"
	MsgDeployShort     = "Copy a resource into the work root"
	MsgMkdirShort      = "Create a directory under the work root"
	MsgRmShort         = "Delete a file or directory tree under the work root"
	MsgScratchShort    = "Allocate a scratch directory for a test"
	MsgConfigShort     = "Print the effective configuration"
	MsgDocsShort       = "Show documentation topics"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"

	// Status messages
	MsgDeployed       = "Deployed"
	MsgScratchReady   = "Scratch directory"
	MsgCreatedFormat  = "Created %s"
	MsgDeletedFormat  = "Deleted %s"
	MsgNothingDeleted = "Nothing to delete at %s"
	MsgTopicsHeader   = "Available topics:"
	MsgTopicItem      = "  %s\n"

	// Error messages
	MsgErrNoCommand     = "no command specified"
	MsgErrUnknownTopic  = "unknown topic %q"
	MsgErrBuildDeployer = "failed to prepare file operations"

	// Flag descriptions
	MsgFlagVerbose   = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig    = "Configuration file (toml or yaml)"
	MsgFlagResources = "Resource root (overrides roots.resources)"
	MsgFlagWork      = "Work root (overrides roots.work)"
	MsgFlagOutput    = "Output format: auto, term, text or json"
	MsgFlagFormat    = "Configuration format: toml or yaml"
	MsgFlagTemplate  = "Print a commented template instead of the effective values"
	MsgFlagOptions   = "Scratch options joined with |, e.g. CreateOnMissing|KeepCurrentDir"
	MsgFlagFullName  = "Fully qualified test name used to disambiguate collisions"
	MsgFlagDeploy    = "Resource to deploy into the scratch directory (repeatable)"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/deploy-long.txt
	msgDeployLongRaw string
	MsgDeployLong    = strings.TrimSpace(msgDeployLongRaw)

	//go:embed msgs/deploy-example.txt
	msgDeployExampleRaw string
	MsgDeployExample    = strings.TrimRight(msgDeployExampleRaw, "\n")

	//go:embed msgs/scratch-long.txt
	msgScratchLongRaw string
	MsgScratchLong    = strings.TrimSpace(msgScratchLongRaw)

	//go:embed msgs/scratch-example.txt
	msgScratchExampleRaw string
	MsgScratchExample    = strings.TrimRight(msgScratchExampleRaw, "\n")

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)
