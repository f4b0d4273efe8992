package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/goliatone/go-messenger/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureTemplate = `
projects:
  - identifier: ops
    name: Ops
  - identifier: api
    name: API
    parent: ops
settings:
  - project: ops
    url: %q
    channel: "#ops"
    username: tracker
    toggles:
      post_db: 2
entities:
  - kind: issue_status
    id: "2"
    name: In Progress
  - kind: db_entry
    id: "5"
    name: Customers
notify:
  project: api
  event:
    kind: updated
    author: alice
    issue:
      id: "42"
      tracker: Bug
      subject: Broken login
    details:
      - category: attr
        key: status_id
        old_value: "1"
        value: "2"
      - category: db_relation
        key: "5"
        value: "5"
`

func writeFixture(t *testing.T, url string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fmt.Sprintf(fixtureTemplate, url)), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestResolveCommand(t *testing.T) {
	fixture := writeFixture(t, "https://hooks.test/T1")

	out, err := execute(t, "resolve", fixture)
	require.NoError(t, err)

	var resolved domain.ResolvedSettings
	require.NoError(t, json.Unmarshal([]byte(out), &resolved))
	assert.Equal(t, []string{"#ops"}, resolved.Channels)
	assert.Equal(t, "tracker", resolved.Username)
	assert.Equal(t, "https://hooks.test/T1", resolved.URL)
	assert.True(t, resolved.Toggle(domain.TogglePostDB))
}

func TestRenderCommand(t *testing.T) {
	fixture := writeFixture(t, "https://hooks.test/T1")

	out, err := execute(t, "render", fixture)
	require.NoError(t, err)

	var deliveries []domain.Delivery
	require.NoError(t, json.Unmarshal([]byte(out), &deliveries))
	require.Len(t, deliveries, 1)
	payload := deliveries[0].Payload
	assert.Equal(t, "#ops", payload.Channel)
	assert.Contains(t, payload.Text, "alice updated")
	require.Len(t, payload.Attachments, 1)

	values := map[string]string{}
	for _, f := range payload.Attachments[0].Fields {
		values[f.Title] = f.Value
	}
	assert.Equal(t, "Customers", values["DB Relation"])
	assert.Equal(t, "In Progress", values["Status"])
}

func TestRenderCommandWithDatabase(t *testing.T) {
	fixture := writeFixture(t, "https://hooks.test/T1")
	db := filepath.Join(t.TempDir(), "messenger.db")

	_, err := execute(t, "--db", db, "render", fixture)
	require.NoError(t, err)

	// a second run upserts over the stored records
	out, err := execute(t, "--db", db, "resolve", fixture, "--project", "ops")
	require.NoError(t, err)
	assert.Contains(t, out, `"#ops"`)
}

func TestSendCommandPostsWebhook(t *testing.T) {
	var (
		mu     sync.Mutex
		bodies []map[string]any
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		mu.Lock()
		bodies = append(bodies, body)
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	fixture := writeFixture(t, server.URL+"/services/T1")
	_, err := execute(t, "send", fixture)
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, bodies, 1)
	assert.Equal(t, "#ops", bodies[0]["channel"])
	assert.Equal(t, "tracker", bodies[0]["username"])
}

func TestSendCommandDryRun(t *testing.T) {
	fixture := writeFixture(t, "https://hooks.test/services/T1")

	out, err := execute(t, "send", "--dry-run", fixture)
	require.NoError(t, err)
	assert.Contains(t, out, `"channel": "#ops"`)
	assert.False(t, strings.Contains(out, "services/T1"), "webhook path must be masked")
}

func TestRenderCommandErrors(t *testing.T) {
	_, err := execute(t, "render", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	fixture := writeFixture(t, "https://hooks.test/T1")
	_, err = execute(t, "resolve", fixture, "--project", "nope")
	require.Error(t, err)
}
