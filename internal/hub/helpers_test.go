package hub

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig() Config {
	return sanitize(Config{})
}

// newTestClient builds a client with no transport. Its pumps are never
// started, so frames queued via trySend stay observable on the send channel.
func newTestClient(userID string) *Client {
	return newClient(nil, userID, testConfig(), zap.NewNop())
}

type verifierFunc func(token string) (string, error)

func (f verifierFunc) Verify(token string) (string, error) { return f(token) }

type locatorFunc func(userID string, loc Location) ([]string, error)

func (f locatorFunc) Nearby(userID string, loc Location) ([]string, error) {
	return f(userID, loc)
}

func newTestHub(locator NearbyUserLocator) *Hub {
	if locator == nil {
		locator = NopLocator{}
	}
	verifier := verifierFunc(func(string) (string, error) { return "", nil })
	return New(testConfig(), verifier, locator, zap.NewNop())
}

func recvFrame(t *testing.T, c *Client) Envelope {
	t.Helper()
	select {
	case raw := <-c.send:
		var env Envelope
		require.NoError(t, json.Unmarshal(raw, &env))
		return env
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for a frame")
		return Envelope{}
	}
}

func requireNoFrame(t *testing.T, c *Client) {
	t.Helper()
	select {
	case raw := <-c.send:
		t.Fatalf("unexpected frame queued: %s", raw)
	default:
	}
}

func payloadField(t *testing.T, env Envelope, key string) any {
	t.Helper()
	var payload map[string]any
	require.NoError(t, json.Unmarshal(env.Payload, &payload))
	return payload[key]
}
