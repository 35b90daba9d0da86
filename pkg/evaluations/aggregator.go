// Package evaluations gathers evaluation records scattered through provider payloads.
//
// Evaluations arrive nested at unpredictable depths: under a per-entity wrapper, flattened
// next to entity metadata, or mixed across endpoint variants. CollectByEntity walks the whole
// tree and attributes each "evaluations" array to the nearest enclosing entity id.
package evaluations

import (
	"sort"
	"strings"

	"github.com/Competences-et-Metiers/HostingerWebsite/pkg/jsonutil"
	"github.com/Competences-et-Metiers/HostingerWebsite/pkg/models"
)

var (
	nameFields         = []string{"evaluation_name", "nom_evaluation", "intitule", "name"}
	validatedFields    = []string{"validated", "valide", "is_validated", "statut"}
	appreciationFields = []string{"appreciation", "commentaire", "comment"}

	evaluationIDFields    = []string{"id_evaluation", "evaluation_id", "id"}
	evaluationSetIDFields = []string{"id_evaluation_set", "evaluation_set_id", "id_questionnaire"}
)

// frame is one pending traversal step: a node and the entity id it inherits.
type frame struct {
	node     Node
	entityID string
}

// collector accumulates records per entity with a running dedup set per entity.
type collector struct {
	out  map[string][]models.EvaluationRecord
	seen map[string]map[string]bool
}

// CollectByEntity walks payload depth-first and returns the deduplicated evaluation records
// of every entity id found. Ids declared on a node flow down to descendants that do not
// declare their own; evaluations with no enclosing entity id are ignored.
func CollectByEntity(payload any) map[string][]models.EvaluationRecord {
	c := &collector{
		out:  make(map[string][]models.EvaluationRecord),
		seen: make(map[string]map[string]bool),
	}

	stack := []frame{{node: Classify(payload)}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch n := top.node.(type) {
		case ObjectNode:
			entityID := top.entityID
			if own := n.EntityID(); own != "" {
				entityID = own
			}

			consumed := false
			if evs, ok := n.Evaluations(); ok && entityID != "" {
				for _, ev := range evs {
					c.add(entityID, ev)
				}
				consumed = true
			}

			stack = pushChildren(stack, n, entityID, consumed)
		case ArrayNode:
			// reverse push keeps document order on pop
			for i := len(n.Items) - 1; i >= 0; i-- {
				stack = append(stack, frame{node: Classify(n.Items[i]), entityID: top.entityID})
			}
		case ScalarNode:
			// leaves carry no evaluations
		}
	}

	return c.out
}

// pushChildren schedules every container-valued property, skipping an "evaluations" array
// that was already attributed. Keys are visited in sorted order so first-seen dedup is deterministic.
func pushChildren(stack []frame, n ObjectNode, entityID string, skipEvaluations bool) []frame {
	keys := make([]string, 0, len(n.Fields))
	for key, value := range n.Fields {
		if key == "evaluations" && skipEvaluations {
			continue
		}
		switch value.(type) {
		case map[string]any, []any:
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	for i := len(keys) - 1; i >= 0; i-- {
		stack = append(stack, frame{node: Classify(n.Fields[keys[i]]), entityID: entityID})
	}
	return stack
}

func (c *collector) add(entityID string, raw any) {
	obj, ok := jsonutil.Object(raw)
	if !ok {
		return
	}

	if key := DedupKey(obj); key != "" {
		seen := c.seen[entityID]
		if seen == nil {
			seen = make(map[string]bool)
			c.seen[entityID] = seen
		}
		if seen[key] {
			return
		}
		seen[key] = true
	}

	c.out[entityID] = append(c.out[entityID], Format(obj))
}

// DedupKey builds the identity of an evaluation from its id, then its evaluation-set id,
// then its name. Returns "" when none is present.
func DedupKey(ev map[string]any) string {
	if id := jsonutil.FirstID(ev, evaluationIDFields...); id != "" {
		return "id:" + id
	}
	if id := jsonutil.FirstID(ev, evaluationSetIDFields...); id != "" {
		return "set:" + id
	}
	if name := jsonutil.FirstText(ev, nameFields...); name != "" {
		return "name:" + name
	}
	return ""
}

// Format normalizes one raw evaluation object.
func Format(ev map[string]any) models.EvaluationRecord {
	rec := models.EvaluationRecord{}

	if name, ok := firstString(ev, nameFields); ok {
		rec.EvaluationName = &name
	}
	if appreciation, ok := firstString(ev, appreciationFields); ok {
		rec.Appreciation = &appreciation
	}

	rec.Validated, rec.ValidatedLabel = validation(firstPresent(ev, validatedFields))
	return rec
}

// validation maps the provider's loose validation flag onto the tri-state label.
func validation(raw any) (bool, string) {
	switch v := raw.(type) {
	case nil:
		return false, models.LabelInProgress
	case bool:
		if v {
			return true, models.LabelValidated
		}
		return false, models.LabelNotValidated
	case float64:
		if v == 1 {
			return true, models.LabelValidated
		}
		return false, models.LabelNotValidated
	case string:
		s := strings.ToLower(strings.TrimSpace(v))
		switch s {
		case "", "pending":
			return false, models.LabelInProgress
		case "1", "true", "validated":
			return true, models.LabelValidated
		}
		return false, models.LabelNotValidated
	default:
		return false, models.LabelNotValidated
	}
}

// firstString returns the first string-typed field, keeping empty strings as present.
func firstString(obj map[string]any, keys []string) (string, bool) {
	for _, key := range keys {
		if s, ok := obj[key].(string); ok {
			return s, true
		}
	}
	return "", false
}

// firstPresent returns the first non-null field value.
func firstPresent(obj map[string]any, keys []string) any {
	for _, key := range keys {
		if v, ok := obj[key]; ok && v != nil {
			return v
		}
	}
	return nil
}
