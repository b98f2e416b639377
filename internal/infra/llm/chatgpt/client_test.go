package chatgpt

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateChatCompletion(t *testing.T) {
	var (
		gotAuth string
		gotPath string
		gotReq  ChatCompletionRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		_, _ = w.Write([]byte(`{"choices":[{"index":0,"message":{"role":"assistant","content":"多吃蔬菜"}}],"usage":{"prompt_tokens":12,"completion_tokens":4,"total_tokens":16}}`))
	}))
	defer srv.Close()

	client, err := NewClient("sk-test", srv.URL+"/", 0)
	require.NoError(t, err)

	resp, err := client.CreateChatCompletion(context.Background(), ChatCompletionRequest{
		Model:    "deepseek-chat",
		Messages: []Message{{Role: "user", Content: "你好"}},
	})
	require.NoError(t, err)

	content, err := resp.FirstContent()
	require.NoError(t, err)
	require.Equal(t, "多吃蔬菜", content)
	require.Equal(t, 16, resp.Usage.TotalTokens)
	require.Equal(t, "Bearer sk-test", gotAuth)
	require.Equal(t, "/chat/completions", gotPath)
	require.Equal(t, "deepseek-chat", gotReq.Model)
	require.Equal(t, []Message{{Role: "user", Content: "你好"}}, gotReq.Messages)
}

func TestCreateChatCompletionErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"error":"insufficient balance"}`))
	}))
	defer srv.Close()

	client, err := NewClient("sk-test", srv.URL, 0)
	require.NoError(t, err)
	_, err = client.CreateChatCompletion(context.Background(), ChatCompletionRequest{Model: "m"})
	require.ErrorContains(t, err, "status=402")
}

func TestNewClientRequiresKey(t *testing.T) {
	_, err := NewClient(" ", "", 0)
	require.Error(t, err)
}

func TestFirstContentEmpty(t *testing.T) {
	_, err := ChatCompletionResponse{}.FirstContent()
	require.Error(t, err)
}
