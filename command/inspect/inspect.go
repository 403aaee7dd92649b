package inspect

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/movekit-lab/movekit/command"
	"github.com/movekit-lab/movekit/txbuild"
)

type params struct {
	kindOnly bool
	fromFile string
}

var inspectParams params

func GetCommand() *cobra.Command {
	inspectCmd := &cobra.Command{
		Use:   "inspect [base64-transaction-bytes]",
		Short: "Decodes canonical transaction bytes and prints the tag-keyed JSON form",
		Args:  cobra.MaximumNArgs(1),
		Run:   runCommand,
	}

	inspectCmd.Flags().BoolVar(
		&inspectParams.kindOnly,
		"kind",
		false,
		"treat the bytes as a bare transaction kind without sender or gas",
	)

	inspectCmd.Flags().StringVar(
		&inspectParams.fromFile,
		"file",
		"",
		"read the base64 bytes from a file instead of the argument",
	)

	return inspectCmd
}

func runCommand(cmd *cobra.Command, args []string) {
	outputter := command.InitializeOutputter(cmd)
	defer outputter.WriteOutput()

	raw, err := readInput(args)
	if err != nil {
		outputter.SetError(err)

		return
	}

	data, err := decodeBuilder(raw)
	if err != nil {
		outputter.SetError(err)

		return
	}

	snapshot, err := data.Snapshot()
	if err != nil {
		outputter.SetError(err)

		return
	}

	outputter.SetCommandResult(&InspectResult{State: snapshot})
}

func readInput(args []string) ([]byte, error) {
	var encoded string

	switch {
	case inspectParams.fromFile != "":
		buf, err := os.ReadFile(inspectParams.fromFile)
		if err != nil {
			return nil, fmt.Errorf("read input file: %w", err)
		}

		encoded = string(buf)
	case len(args) == 1:
		encoded = args[0]
	default:
		return nil, fmt.Errorf("transaction bytes are required, as an argument or via --file")
	}

	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return nil, fmt.Errorf("invalid base64 input: %w", err)
	}

	return raw, nil
}

func decodeBuilder(raw []byte) (*txbuild.BlockData, error) {
	if inspectParams.kindOnly {
		return txbuild.FromKindBytes(raw)
	}

	return txbuild.FromBytes(raw)
}
