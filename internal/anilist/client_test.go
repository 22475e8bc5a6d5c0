package anilist

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const collectionResponse = `{
  "data": {
    "MediaListCollection": {
      "lists": [
        {
          "name": "Completed",
          "status": "COMPLETED",
          "entries": [
            {
              "media": {
                "title": {"english": "Sword Art Online", "native": "ソードアート・オンライン"},
                "siteUrl": "https://anilist.co/anime/11757",
                "characters": {"nodes": [
                  {"id": 36828, "name": {"full": "Asuna Yuuki"}, "gender": "Female", "age": "17",
                   "image": {"large": "https://img/asuna.png"}, "dateOfBirth": {"year": 2007, "month": 9, "day": 30},
                   "favourites": 10000, "siteUrl": "https://anilist.co/character/36828"},
                  {"id": 36765, "name": {"full": "Kazuto Kirigaya"}, "gender": "Male", "age": "16",
                   "image": {"large": "https://img/kirito.png"}, "dateOfBirth": {"month": 10, "day": 7},
                   "favourites": 9000, "siteUrl": "https://anilist.co/character/36765"}
                ]}
              }
            }
          ]
        },
        {
          "name": "Watching",
          "status": "CURRENT",
          "entries": [
            {
              "media": {
                "title": {"english": null, "native": "ソードアート・オンライン II"},
                "siteUrl": "https://anilist.co/anime/20594",
                "characters": {"nodes": [
                  {"id": 36828, "name": {"full": "Asuna Yuuki"}, "gender": "Female", "age": "18",
                   "image": {"large": "https://img/asuna2.png"}, "dateOfBirth": {},
                   "favourites": 10000, "siteUrl": "https://anilist.co/character/36828"},
                  {"id": 90000, "name": {"full": "Sinon"}, "gender": "Female", "age": "16-17",
                   "image": {"large": "https://img/sinon.png"}, "dateOfBirth": {},
                   "favourites": 5000, "siteUrl": "https://anilist.co/character/90000"}
                ]}
              }
            }
          ]
        }
      ]
    }
  }
}`

func newTestServer(t *testing.T, handler func(t *testing.T, req graphQLRequest, w http.ResponseWriter)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))

		var req graphQLRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		handler(t, req, w)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_FetchCollection(t *testing.T) {
	srv := newTestServer(t, func(t *testing.T, req graphQLRequest, w http.ResponseWriter) {
		assert.Equal(t, "Demo", req.Variables["userName"])
		assert.Equal(t, "ANIME", req.Variables["type"])
		assert.Equal(t, "RELEVANCE", req.Variables["sort"])
		assert.Equal(t, "MAIN", req.Variables["role"])
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(collectionResponse))
	})

	client := NewClient(srv.URL, time.Second, zap.NewNop())
	candidates, err := client.FetchCollection(context.Background(), "Demo", QueryOptions{Role: RoleMain})
	require.NoError(t, err)

	// Дубликат Asuna из второго списка отброшен
	require.Len(t, candidates, 3)
	assert.Equal(t, 36828, candidates[0].Character.ID)
	assert.Equal(t, "Completed", candidates[0].ListName)
	assert.Equal(t, "https://img/asuna.png", candidates[0].Character.Image.Large)
	assert.Equal(t, "Sword Art Online", candidates[0].AnimeTitle())
	assert.Equal(t, "September 30th, 2007", candidates[0].Character.BirthdayString())
	assert.Equal(t, 36765, candidates[1].Character.ID)
	assert.Equal(t, 90000, candidates[2].Character.ID)
	assert.Equal(t, "ソードアート・オンライン II", candidates[2].AnimeTitle())
}

func TestClient_FetchCollection_RoleAllOmitted(t *testing.T) {
	srv := newTestServer(t, func(t *testing.T, req graphQLRequest, w http.ResponseWriter) {
		_, hasRole := req.Variables["role"]
		assert.False(t, hasRole)
		_, _ = w.Write([]byte(`{"data":{"MediaListCollection":{"lists":[]}}}`))
	})

	client := NewClient(srv.URL, time.Second, zap.NewNop())
	candidates, err := client.FetchCollection(context.Background(), "Demo", QueryOptions{Role: RoleAll})
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestClient_FetchCollection_Errors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		expectedErr error
	}{
		{
			name:        "GraphQL error",
			status:      http.StatusNotFound,
			body:        `{"errors":[{"message":"User not found","status":404}],"data":{"MediaListCollection":null}}`,
			expectedErr: ErrGraphQL,
		},
		{
			name:        "Server error without JSON",
			status:      http.StatusBadGateway,
			body:        `<html>bad gateway</html>`,
			expectedErr: ErrUnexpectedStatus,
		},
		{
			name:        "Status error with empty JSON",
			status:      http.StatusTooManyRequests,
			body:        `{}`,
			expectedErr: ErrUnexpectedStatus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, func(t *testing.T, req graphQLRequest, w http.ResponseWriter) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			client := NewClient(srv.URL, time.Second, zap.NewNop())
			_, err := client.FetchCollection(context.Background(), "Demo", QueryOptions{})
			assert.ErrorIs(t, err, tt.expectedErr)
		})
	}
}

func TestClient_FetchCollection_EmptyUsername(t *testing.T) {
	client := NewClient("http://127.0.0.1:0", time.Second, zap.NewNop())
	_, err := client.FetchCollection(context.Background(), "", QueryOptions{})
	assert.ErrorIs(t, err, ErrEmptyUsername)
}

func TestClient_FetchCharacters(t *testing.T) {
	var calls int
	srv := newTestServer(t, func(t *testing.T, req graphQLRequest, w http.ResponseWriter) {
		calls++
		ids, ok := req.Variables["ids"].([]any)
		require.True(t, ok)
		nodes := make([]map[string]any, 0, len(ids))
		for _, id := range ids {
			nodes = append(nodes, map[string]any{"id": id, "name": map[string]string{"full": "C"}})
		}
		resp := map[string]any{"data": map[string]any{"Page": map[string]any{"characters": nodes}}}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	})

	ids := make([]int, 0, 120)
	for i := 1; i <= 120; i++ {
		ids = append(ids, i)
	}

	client := NewClient(srv.URL, time.Second, zap.NewNop())
	chars, err := client.FetchCharacters(context.Background(), ids)
	require.NoError(t, err)
	assert.Len(t, chars, 120)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 120, chars[119].ID)
}

func TestClient_FetchCharacters_NoIDs(t *testing.T) {
	client := NewClient("http://127.0.0.1:0", time.Second, zap.NewNop())
	chars, err := client.FetchCharacters(context.Background(), nil)
	assert.NoError(t, err)
	assert.Empty(t, chars)
}
