package youtube

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/smartchef/internal/domain/video"
	"github.com/yanqian/smartchef/internal/infra/resilience"
)

func TestSearch(t *testing.T) {
	var got url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		_, _ = w.Write([]byte(`{"items":[
			{"id":{"kind":"youtube#video","videoId":"abc123"},"snippet":{"title":"低脂早餐做法"}},
			{"id":{"kind":"youtube#channel"},"snippet":{"title":"a channel"}},
			{"id":{"videoId":"xyz"},"snippet":{"title":"Healthy Lunch"}}
		]}`))
	}))
	defer srv.Close()

	client := NewClient("yt-key", srv.URL, time.Second, resilience.Config{InitialInterval: time.Millisecond})
	videos, err := client.Search(context.Background(), "低脂 早餐", 3)
	require.NoError(t, err)

	require.Equal(t, []video.Suggestion{
		{Title: "低脂早餐做法", URL: "https://www.youtube.com/watch?v=abc123"},
		{Title: "Healthy Lunch", URL: "https://www.youtube.com/watch?v=xyz"},
	}, videos)
	require.Equal(t, "snippet", got.Get("part"))
	require.Equal(t, "video", got.Get("type"))
	require.Equal(t, "3", got.Get("maxResults"))
	require.Equal(t, "低脂 早餐", got.Get("q"))
	require.Equal(t, "yt-key", got.Get("key"))
}

func TestSearchErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	client := NewClient("yt-key", srv.URL, time.Second, resilience.Config{InitialInterval: time.Millisecond})
	_, err := client.Search(context.Background(), "q", 3)
	require.Error(t, err)
}

func TestSearchWithoutKey(t *testing.T) {
	_, err := NewClient("", "", 0, resilience.Config{}).Search(context.Background(), "q", 3)
	require.Error(t, err)
}
