package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, endpoint string) *Client {
	t.Helper()
	c, err := New(Config{
		Endpoint:       endpoint,
		UserAgent:      "node_counter_agent",
		RequestTimeout: 5 * time.Second,
	})
	require.NoError(t, err)
	return c
}

func TestNewRequiresEndpoint(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestFetchNodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "node_counter_agent", r.Header.Get("User-Agent"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var req map[string]any
		require.NoError(t, json.Unmarshal(body, &req))
		assert.Equal(t, "list_nodes", req["operationName"])
		assert.Contains(t, req["query"], "resourcesTotal")

		w.Header().Set("Content-Type", "application/json")
		// hru/sru arrive as strings (BigInt), cru/mru as numbers
		_, _ = w.Write([]byte(`{"data":{"nodes":[
			{"nodeID":1,"farmID":7,"created":1640995200,"resourcesTotal":{"cru":8,"mru":17179869184,"sru":"512110190592","hru":"2000398934016"}},
			{"nodeID":2,"farmID":9,"created":1643673600,"resourcesTotal":{"cru":"4","mru":"8589934592","sru":0,"hru":0}}
		]}}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	nodes, err := c.FetchNodes(context.Background())
	require.NoError(t, err)
	require.Len(t, nodes, 2)

	assert.Equal(t, uint64(1), nodes[0].NodeID)
	assert.Equal(t, uint64(7), nodes[0].FarmID)
	assert.Equal(t, int64(1640995200), nodes[0].Created)
	assert.Equal(t, Capacity(8), nodes[0].ResourcesTotal.CRU)
	assert.Equal(t, Capacity(512110190592), nodes[0].ResourcesTotal.SRU)
	assert.Equal(t, Capacity(2000398934016), nodes[0].ResourcesTotal.HRU)
	assert.Equal(t, Capacity(4), nodes[1].ResourcesTotal.CRU)
	assert.Equal(t, Capacity(8589934592), nodes[1].ResourcesTotal.MRU)
}

func TestFetchNodesEmptyList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"nodes":[]}}`))
	}))
	defer srv.Close()

	nodes, err := newTestClient(t, srv.URL).FetchNodes(context.Background())
	require.NoError(t, err)
	assert.Empty(t, nodes)
}

func TestFetchNodesBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).FetchNodes(context.Background())
	require.Error(t, err)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadGateway, statusErr.Code)
}

func TestFetchNodesMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"nodes":[`))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).FetchNodes(context.Background())
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrSchema, "truncated JSON is a parse failure, not a schema mismatch")
}

func TestFetchNodesGraphQLErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":null,"errors":[{"message":"Cannot query field \"nodes\""}]}`))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).FetchNodes(context.Background())
	assert.ErrorIs(t, err, ErrSchema)
}

func TestFetchNodesMissingData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).FetchNodes(context.Background())
	assert.ErrorIs(t, err, ErrSchema)
}

func TestFetchNodesMissingNodeFields(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"OnlyNodeID", `{"data":{"nodes":[{"nodeID":1}]}}`},
		{"MissingFarmID", `{"data":{"nodes":[{"nodeID":1,"created":1640995200,"resourcesTotal":{"cru":1,"mru":1,"sru":1,"hru":1}}]}}`},
		{"MissingCreated", `{"data":{"nodes":[{"nodeID":1,"farmID":7,"resourcesTotal":{"cru":1,"mru":1,"sru":1,"hru":1}}]}}`},
		{"NullCreated", `{"data":{"nodes":[{"nodeID":1,"farmID":7,"created":null,"resourcesTotal":{"cru":1,"mru":1,"sru":1,"hru":1}}]}}`},
		{"MissingResourcesTotal", `{"data":{"nodes":[{"nodeID":1,"farmID":7,"created":1640995200}]}}`},
		{"MissingCapacityCounter", `{"data":{"nodes":[{"nodeID":1,"farmID":7,"created":1640995200,"resourcesTotal":{"cru":1,"mru":1,"sru":1}}]}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := newTestClient(t, srv.URL).FetchNodes(context.Background())
			assert.ErrorIs(t, err, ErrSchema, "a node entry with absent fields must not decode to zero values")
		})
	}
}

func TestFetchNodesTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	_, err := newTestClient(t, srv.URL).FetchNodes(context.Background())
	assert.Error(t, err)
}

func TestCapacityUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Capacity
		wantErr bool
	}{
		{"Number", `123`, 123, false},
		{"String", `"123"`, 123, false},
		{"Zero", `0`, 0, false},
		{"BeyondSafeInteger", `"18446744073709551615"`, Capacity(18446744073709551615), false},
		{"NonNumericString", `"abc"`, 0, true},
		{"Negative", `-5`, 0, true},
		{"NegativeString", `"-5"`, 0, true},
		{"Fraction", `12.5`, 0, true},
		{"FractionString", `"12.5"`, 0, true},
		{"Bool", `true`, 0, true},
		{"Null", `null`, 0, true},
		{"Array", `[1]`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Capacity
			err := json.Unmarshal([]byte(tt.input), &c)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrSchema), "expected schema error, got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, c)
		})
	}
}
