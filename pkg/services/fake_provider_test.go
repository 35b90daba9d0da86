package services

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Competences-et-Metiers/HostingerWebsite/pkg/cache"
)

// fakeProvider answers provider calls from canned bodies keyed by "method:args".
// Unknown calls return a nil body.
type fakeProvider struct {
	mu     sync.Mutex
	bodies map[string]any
	errs   map[string]error
	calls  map[string]int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		bodies: make(map[string]any),
		errs:   make(map[string]error),
		calls:  make(map[string]int),
	}
}

func (f *fakeProvider) on(call string, body any) *fakeProvider {
	f.bodies[call] = body
	return f
}

func (f *fakeProvider) fail(call string, err error) *fakeProvider {
	f.errs[call] = err
	return f
}

// heal removes a failure registered with fail; the call then answers its canned body.
func (f *fakeProvider) heal(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.errs, call)
}

func (f *fakeProvider) count(call string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[call]
}

func (f *fakeProvider) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeProvider) respond(method string, args ...string) (any, error) {
	call := method + ":" + strings.Join(args, "|")

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[call]++
	if err, ok := f.errs[call]; ok {
		return nil, err
	}
	return f.bodies[call], nil
}

func (f *fakeProvider) Participants(_ context.Context, email string) (any, error) {
	return f.respond("participants", email)
}

func (f *fakeProvider) Laps(_ context.Context, participantID string) (any, error) {
	return f.respond("laps", participantID)
}

func (f *fakeProvider) Evaluations(_ context.Context, entityID, participantID string) (any, error) {
	return f.respond("evaluations", entityID, participantID)
}

func (f *fakeProvider) ActionDeFormation(_ context.Context, entityID, include string) (any, error) {
	return f.respond("adf", entityID, include)
}

func (f *fakeProvider) EntitySessions(_ context.Context, entityID string) (any, error) {
	return f.respond("sessions", entityID)
}

func (f *fakeProvider) ParticipantSessions(_ context.Context, participantID string) (any, error) {
	return f.respond("participant-sessions", participantID)
}

func (f *fakeProvider) TrainerAssignments(_ context.Context, entityID string) (any, error) {
	return f.respond("lafs", entityID)
}

func (f *fakeProvider) Administrator(_ context.Context, id string) (any, error) {
	return f.respond("admin", id)
}

func (f *fakeProvider) SharedFiles(_ context.Context, lapID string) (any, error) {
	return f.respond("files", lapID)
}

func (f *fakeProvider) Tasks(_ context.Context, participantID string) (any, error) {
	return f.respond("tasks", participantID)
}

var _ Provider = (*fakeProvider)(nil)

func jsonBody(t *testing.T, raw string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(raw), &v))
	return v
}

func newTestAside(t *testing.T) *cache.Aside {
	t.Helper()
	return cache.NewAside(cache.NewMemoryStore(100), time.Minute, zaptest.NewLogger(t))
}

const testEmail = "user@example.com"

// scenarioProvider is participant 42 enrolled in skills entities 100 and 200 (plus a
// non-skills entity 300). Entity 100 has no staff on its enrolments and gets it from backfill.
func scenarioProvider(t *testing.T) *fakeProvider {
	t.Helper()
	return newFakeProvider().
		on("participants:"+testEmail, jsonBody(t, `[{"id_participant": 42, "code_acces": "ABC"}]`)).
		on("laps:42", jsonBody(t, `{"laps": [
			{"id_lap": 1, "id_action_de_formation": 100, "formation": {"categorie_module_id": "6", "intitule": "Bilan"}},
			{"id_lap": 2, "formation": {"id_action_de_formation": "200", "categorie_module_id": 6, "id_administrateur": 7}},
			{"id_lap": 3, "id_action_de_formation": 100, "formation": {"categorie_module_id": "6"}},
			{"id_lap": 4, "id_action_de_formation": 300, "formation": {"categorie_module_id": "3"}}
		]}`)).
		on("adf:100|", jsonBody(t, `{"id_action_de_formation": 100, "id_administrateur": 9, "intitule": "Other title"}`))
}
