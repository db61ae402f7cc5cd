package store

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/stefanpenner/prism/pkg/tracker"
)

//go:embed addtree_schema.json
var addtreeSchema string

var compileSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	return jsonschema.CompileString("addtree_schema.json", addtreeSchema)
})

// deliverablePayload mirrors the external addtree wire shape.
type deliverablePayload struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Actions     []actionPayload `json:"actions,omitempty"`
}

type actionPayload struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	DueDate     string `json:"due_date,omitempty"`
}

// ParseDeliverables validates an addtree JSON payload against the
// embedded schema and converts it into importer specs. Due dates are
// parsed with the given layouts (nil means the default layouts).
func ParseDeliverables(data []byte, dateLayouts []string) ([]tracker.DeliverableSpec, error) {
	schema, err := compileSchema()
	if err != nil {
		return nil, fmt.Errorf("compiling addtree schema: %w", err)
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &tracker.ValidationError{Field: "payload", Msg: "not valid JSON: " + err.Error()}
	}
	if err := schema.Validate(raw); err != nil {
		return nil, &tracker.ValidationError{Field: "payload", Msg: err.Error()}
	}

	var payload []deliverablePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, &tracker.ValidationError{Field: "payload", Msg: err.Error()}
	}

	specs := make([]tracker.DeliverableSpec, 0, len(payload))
	for _, d := range payload {
		spec := tracker.DeliverableSpec{Name: d.Name, Description: d.Description}
		for _, a := range d.Actions {
			as := tracker.ActionSpec{Name: a.Name, Description: a.Description}
			if a.DueDate != "" {
				due, err := tracker.ParseDate(a.DueDate, dateLayouts)
				if err != nil {
					return nil, err
				}
				as.DueDate = &due
			}
			spec.Actions = append(spec.Actions, as)
		}
		specs = append(specs, spec)
	}
	return specs, nil
}
