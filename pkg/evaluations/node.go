package evaluations

import "github.com/Competences-et-Metiers/HostingerWebsite/pkg/jsonutil"

// Node is a JSON value classified at runtime. The traversal switches over the concrete kinds
// instead of probing properties on untyped maps.
type Node interface {
	node()
}

// ObjectNode is a JSON object.
type ObjectNode struct {
	Fields map[string]any
}

// ArrayNode is a JSON array.
type ArrayNode struct {
	Items []any
}

// ScalarNode is a string, number, boolean or null.
type ScalarNode struct {
	Value any
}

func (ObjectNode) node() {}
func (ArrayNode) node()  {}
func (ScalarNode) node() {}

// Classify wraps a decoded JSON value in its node kind.
func Classify(v any) Node {
	switch val := v.(type) {
	case map[string]any:
		return ObjectNode{Fields: val}
	case []any:
		return ArrayNode{Items: val}
	default:
		return ScalarNode{Value: val}
	}
}

// entityIDFields are checked in order on every object node.
var entityIDFields = []string{"id_action_de_formation", "adf_id", "action_de_formation_id"}

// EntityID returns the entity id an object declares for itself, if any.
// The id may sit on the object or under a nested "formation" object.
func (n ObjectNode) EntityID() string {
	if id := jsonutil.FirstID(n.Fields, entityIDFields...); id != "" {
		return id
	}
	if formation, ok := jsonutil.Object(n.Fields["formation"]); ok {
		return jsonutil.ID(formation["id_action_de_formation"])
	}
	return ""
}

// Evaluations returns the object's "evaluations" array.
func (n ObjectNode) Evaluations() ([]any, bool) {
	evs, ok := n.Fields["evaluations"].([]any)
	return evs, ok
}
