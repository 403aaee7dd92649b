package inspect

import (
	"github.com/goccy/go-json"

	"github.com/movekit-lab/movekit/types"
)

type InspectResult struct {
	State *types.TransactionState `json:"state"`
}

func (r *InspectResult) GetOutput() string {
	raw, err := json.MarshalIndent(r.State, "", "  ")
	if err != nil {
		return err.Error()
	}

	return string(raw)
}
