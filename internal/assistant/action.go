package assistant

import (
	"log/slog"

	"github.com/sozercan/dealer-assistant/internal/inventory"
	"github.com/sozercan/dealer-assistant/internal/llm"
	"github.com/sozercan/dealer-assistant/internal/tools"
)

// Action is what the model decided to do with a turn: Reply or Search.
type Action interface {
	isAction()
}

// Reply answers the user directly.
type Reply struct {
	Text string
}

// Search runs an inventory search and answers with the listing.
type Search struct {
	CallID   string
	Criteria inventory.Criteria
}

func (Reply) isAction()  {}
func (Search) isAction() {}

// decide turns a model response into an Action. The first get_cars call
// wins; calls to tools we never offered are ignored and the turn falls back
// to the model's text.
func decide(resp *llm.Response) (Action, error) {
	for _, call := range resp.ToolCalls {
		if call.Name != tools.SearchInventoryName {
			slog.Warn("Ignoring call to unknown tool", "tool", call.Name)
			continue
		}

		criteria, err := tools.ParseSearchArgs(call.Arguments)
		if err != nil {
			return nil, err
		}
		criteria.RelaxFilters = true
		return Search{CallID: call.ID, Criteria: criteria}, nil
	}
	return Reply{Text: resp.Content}, nil
}
