package digest

import (
	"fmt"

	"github.com/movekit-lab/movekit/command"
)

type DigestResult struct {
	Digest string `json:"digest"`
}

func (r *DigestResult) GetOutput() string {
	return command.FormatKV([]string{
		fmt.Sprintf("Digest|%s", r.Digest),
	})
}
