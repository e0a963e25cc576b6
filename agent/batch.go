package agent

import (
	"encoding/json"
	"fmt"

	"pagepilot/command"
)

// ExecuteBatch validates and runs every proposed command in order. The
// returned list is index-aligned with items and always the same length: a
// malformed or failing item is recorded in place and never stops its
// siblings.
func (e *Executor) ExecuteBatch(items []json.RawMessage) []Result {
	results := make([]Result, 0, len(items))
	for i, raw := range items {
		results = append(results, e.executeItem(i+1, raw))
	}
	return results
}

func (e *Executor) executeItem(index int, raw json.RawMessage) Result {
	var proposed command.Proposed
	if err := json.Unmarshal(raw, &proposed); err != nil {
		return Failure(KindInvalidModelResponse,
			fmt.Sprintf("command %d: cannot decode proposed command %s: %v", index, string(raw), err))
	}

	cmd, err := proposed.Validate()
	if err != nil {
		return Failure(KindCommandValidation,
			fmt.Sprintf("command %d: %v (proposed: %s)", index, err, string(raw)))
	}

	message, execErr := e.Execute(cmd)
	if execErr != nil {
		return Failure(execErr.Kind,
			fmt.Sprintf("command %d (%s): %s", index, cmd.String(), execErr.Message))
	}
	return Success(fmt.Sprintf("command %d (%s): %s", index, cmd.String(), message))
}
