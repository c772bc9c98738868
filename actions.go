package ruleengine

import (
	"encoding/json"
	"fmt"
)

// Action is a side-effect descriptor a rule emits for the host to apply
// asynchronously. The engine never applies an action itself.
//
// Only the fields relevant to Kind are populated; the rest hold their
// zero value. MarshalJSON flattens this into the wire shape described in
// the external-interfaces contract.
type Action struct {
	Kind ActionKind
	Name string // custom action name; only set when Kind == ActionCustom

	Severity string
	Reason   string
	Metadata map[string]Value

	CaseID  *string
	Comment string

	Channel  string
	Template string
	Params   map[string]Value

	Score float64

	Decision string
}

// buildAction constructs the Action variant matching kind from a
// positional argument list already in call order. Missing arguments
// default per-field: strings to "", Float to 0.0, Object to empty.
func buildAction(kind ActionKind, name string, args []Value) Action {
	switch kind {
	case ActionCreateCase:
		return Action{
			Kind:     kind,
			Severity: argString(args, 0),
			Reason:   argString(args, 1),
			Metadata: argObject(args, 2),
		}
	case ActionCreateComment:
		return Action{
			Kind:    kind,
			CaseID:  nil,
			Comment: argString(args, 0),
		}
	case ActionSendAuthAdvise:
		return Action{
			Kind:     kind,
			Channel:  argString(args, 0),
			Template: argString(args, 1),
			Params:   argObject(args, 2),
		}
	case ActionSetFraudScore:
		return Action{
			Kind:  kind,
			Score: argFloat(args, 0),
		}
	case ActionSetDecision:
		return Action{
			Kind:     kind,
			Decision: argString(args, 0),
		}
	default:
		params := make(map[string]Value, len(args))
		for i, a := range args {
			params[fmt.Sprintf("arg%d", i)] = a
		}
		return Action{Kind: ActionCustom, Name: name, Params: params}
	}
}

func argString(args []Value, i int) string {
	if i < 0 || i >= len(args) {
		return ""
	}
	return args[i].AsString()
}

func argFloat(args []Value, i int) float64 {
	if i < 0 || i >= len(args) {
		return 0
	}
	return args[i].AsFloat()
}

func argObject(args []Value, i int) map[string]Value {
	if i < 0 || i >= len(args) {
		return map[string]Value{}
	}
	if obj := args[i].AsObject(); obj != nil {
		return obj
	}
	return map[string]Value{}
}

func (k ActionKind) jsonType() string {
	switch k {
	case ActionCreateCase:
		return "create_case"
	case ActionCreateComment:
		return "create_comment"
	case ActionSendAuthAdvise:
		return "send_auth_advise"
	case ActionSetFraudScore:
		return "set_fraud_score"
	case ActionSetDecision:
		return "set_decision"
	default:
		return "custom"
	}
}

// MarshalJSON writes the snake_case "type" discriminator followed by the
// variant's own fields, omitting empty metadata/params maps and an
// absent case_id rather than emitting null/{} placeholders.
func (a Action) MarshalJSON() ([]byte, error) {
	out := map[string]any{"type": a.Kind.jsonType()}

	switch a.Kind {
	case ActionCreateCase:
		out["severity"] = a.Severity
		out["reason"] = a.Reason
		if len(a.Metadata) > 0 {
			out["metadata"] = a.Metadata
		}
	case ActionCreateComment:
		if a.CaseID != nil {
			out["case_id"] = *a.CaseID
		}
		out["comment"] = a.Comment
	case ActionSendAuthAdvise:
		out["channel"] = a.Channel
		out["template"] = a.Template
		if len(a.Params) > 0 {
			out["params"] = a.Params
		}
	case ActionSetFraudScore:
		out["score"] = a.Score
	case ActionSetDecision:
		out["decision"] = a.Decision
	default:
		out["name"] = a.Name
		if len(a.Params) > 0 {
			out["params"] = a.Params
		}
	}

	return json.Marshal(out)
}
