package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/movekit-lab/movekit/command"
	"github.com/movekit-lab/movekit/command/digest"
	"github.com/movekit-lab/movekit/command/inspect"
	"github.com/movekit-lab/movekit/command/version"
)

type RootCommand struct {
	baseCmd *cobra.Command
}

func NewRootCommand() *RootCommand {
	rootCommand := &RootCommand{
		baseCmd: &cobra.Command{
			Use:   "movekit",
			Short: "movekit is a client-side builder for programmable transaction blocks on Move chains",
		},
	}

	command.RegisterJSONOutputFlag(rootCommand.baseCmd)

	rootCommand.registerSubCommands()

	return rootCommand
}

func (rc *RootCommand) registerSubCommands() {
	rc.baseCmd.AddCommand(
		version.GetCommand(),
		inspect.GetCommand(),
		digest.GetCommand(),
	)
}

func (rc *RootCommand) Execute() {
	if err := rc.baseCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
