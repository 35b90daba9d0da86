package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestBody(t *testing.T) {
	post := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"adfIds": [100, "200"]}`))
	assert.Equal(t, []any{float64(100), "200"}, requestBody(post)["adfIds"])

	malformed := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"adfIds":`))
	assert.Empty(t, requestBody(malformed))

	array := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`[1, 2]`))
	assert.Empty(t, requestBody(array))

	get := httptest.NewRequest(http.MethodGet, "/", strings.NewReader(`{"adfIds": [1]}`))
	assert.Empty(t, requestBody(get))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"1", "2", "3"}, splitList(" 1, ,2,3 ,"))
	assert.Empty(t, splitList(""))
}

func TestListField(t *testing.T) {
	ids, ok := listField(map[string]any{"adfIds": []any{float64(100), "200", nil, "  "}}, "adfIds")
	assert.True(t, ok)
	assert.Equal(t, []string{"100", "200"}, ids)

	_, ok = listField(map[string]any{"adfIds": "100"}, "adfIds")
	assert.False(t, ok)
}

func TestParticipantParam(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?id_participant=7", nil)
	assert.Equal(t, "7", participantParam(r, map[string]any{}))
	assert.Equal(t, "42", participantParam(r, map[string]any{"participantId": float64(42)}))
	assert.Equal(t, "43", participantParam(r, map[string]any{"id_participant": "43"}))
}
