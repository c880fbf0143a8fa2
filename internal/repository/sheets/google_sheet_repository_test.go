package sheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

func newTestRepository(t *testing.T, handler http.HandlerFunc) *GoogleSheetRepository {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	repo, err := newRepository(context.Background(), "sheet-123", nil,
		option.WithEndpoint(server.URL+"/"),
		option.WithHTTPClient(server.Client()))
	require.NoError(t, err)
	return repo
}

func TestWriteRows(t *testing.T) {
	var got struct {
		Values [][]interface{} `json:"values"`
	}
	repo := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.True(t, strings.HasSuffix(r.URL.Path, ":append"), r.URL.Path)
		assert.Contains(t, r.URL.Path, "sheet-123")
		assert.Equal(t, "USER_ENTERED", r.URL.Query().Get("valueInputOption"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"spreadsheetId":"sheet-123"}`))
	})

	rows := [][]interface{}{{"2024-03-01", "req-1", "North Farm", "Ravi", "Asha A", "2.000", "2024-01-16"}}
	require.NoError(t, repo.WriteRows(context.Background(), "Harvest!A:G", rows))
	require.Len(t, got.Values, 1)
	assert.Equal(t, "Ravi", got.Values[0][3])
}

func TestWriteRowsNoop(t *testing.T) {
	repo := newTestRepository(t, func(http.ResponseWriter, *http.Request) {
		t.Fatal("no request expected")
	})

	require.NoError(t, repo.WriteRows(context.Background(), "Harvest!A:G", nil))
	assert.Error(t, repo.WriteRows(context.Background(), "", [][]interface{}{{"x"}}))
}

func TestReadRange(t *testing.T) {
	repo := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"range":"Harvest!A1:B2","values":[["2024-03-01","req-1"]]}`))
	})

	values, err := repo.ReadRange(context.Background(), "Harvest!A:B")
	require.NoError(t, err)
	assert.Equal(t, [][]interface{}{{"2024-03-01", "req-1"}}, values)
}

func TestReadRangeError(t *testing.T) {
	repo := newTestRepository(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"forbidden"}}`))
	})

	_, err := repo.ReadRange(context.Background(), "Harvest!A:B")
	assert.Error(t, err)
}
