package subgraph

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func positionJSON(user string, n int) string {
	return fmt.Sprintf(`{
		"netQuantity": "%d",
		"valueSold": "0",
		"valueBought": "100",
		"outcomeIndex": 0,
		"market": {"outcomeTokenPrices": ["0.5", "0.5"]},
		"user": {"id": "%s"}
	}`, n, user)
}

func TestFetchPositionsPagesUntilShortPage(t *testing.T) {
	var requests []map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Variables map[string]any `json:"variables"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		requests = append(requests, req.Variables)

		skip := int(req.Variables["skip"].(float64))
		var rows string
		if skip == 0 {
			rows = positionJSON("0xabc", 1) + "," + positionJSON("0xdef", 2)
		} else {
			rows = positionJSON("0xabc", 3)
		}
		fmt.Fprintf(w, `{"data":{"marketPositions":[%s]}}`, rows)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", 2)
	positions, err := client.FetchPositions(context.Background(), 0)
	require.NoError(t, err)

	require.Len(t, positions, 3)
	require.Equal(t, "1", positions[0].NetQuantity)
	require.Equal(t, "3", positions[2].NetQuantity)

	// Two pages: full page at skip 0, short page at skip 2.
	require.Len(t, requests, 2)
	require.Equal(t, float64(0), requests[0]["skip"])
	require.Equal(t, float64(2), requests[1]["skip"])
}

func TestFetchPositionsHonorsLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Variables map[string]any `json:"variables"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		first := int(req.Variables["first"].(float64))
		rows := ""
		for i := 0; i < first; i++ {
			if i > 0 {
				rows += ","
			}
			rows += positionJSON("0xabc", i)
		}
		fmt.Fprintf(w, `{"data":{"marketPositions":[%s]}}`, rows)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", 10)
	positions, err := client.FetchPositions(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, positions, 7)
}

func TestFetchPositionsChecksumsUserAddresses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rows := positionJSON("0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed", 1)
		fmt.Fprintf(w, `{"data":{"marketPositions":[%s]}}`, rows)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", 10)
	positions, err := client.FetchPositions(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, positions, 1)
	require.Equal(t, "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", positions[0].User.ID)
}

func TestFetchPositionsSendsBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		fmt.Fprint(w, `{"data":{"marketPositions":[]}}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret-token", 10)
	_, err := client.FetchPositions(context.Background(), 0)
	require.NoError(t, err)
	require.Equal(t, "Bearer secret-token", gotAuth)
}

func TestFetchPositionsGraphQLError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"errors":[{"message":"field does not exist"}]}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", 10)
	_, err := client.FetchPositions(context.Background(), 0)
	require.Error(t, err)
	require.Contains(t, err.Error(), "field does not exist")
}

func TestFetchPositionsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", 10)
	_, err := client.FetchPositions(context.Background(), 0)
	require.Error(t, err)
	require.Contains(t, err.Error(), "HTTP 502")
}
