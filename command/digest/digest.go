package digest

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/movekit-lab/movekit/command"
	"github.com/movekit-lab/movekit/types"
)

func GetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "digest [base64-transaction-bytes]",
		Short: "Derives the digest of canonical transaction bytes",
		Args:  cobra.ExactArgs(1),
		Run:   runCommand,
	}
}

func runCommand(cmd *cobra.Command, args []string) {
	outputter := command.InitializeOutputter(cmd)
	defer outputter.WriteOutput()

	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(args[0]))
	if err != nil {
		outputter.SetError(fmt.Errorf("invalid base64 input: %w", err))

		return
	}

	// reject bytes that do not parse as transaction data
	if _, err := types.DecodeTransactionData(raw); err != nil {
		outputter.SetError(err)

		return
	}

	outputter.SetCommandResult(&DigestResult{Digest: types.TransactionDigest(raw)})
}
