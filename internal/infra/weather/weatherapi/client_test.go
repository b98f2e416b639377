package weatherapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/smartchef/internal/infra/resilience"
)

func TestCurrent(t *testing.T) {
	var got *url.URL
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL
		_, _ = w.Write([]byte(`{"current":{"temp_c":30.5,"condition":{"text":"晴"}}}`))
	}))
	defer srv.Close()

	client := NewClient("secret", srv.URL+"/v1/", time.Second, resilience.Config{InitialInterval: time.Millisecond})
	reading, err := client.Current(context.Background(), "Shanghai", "zh")
	require.NoError(t, err)
	require.Equal(t, "晴", reading.Condition)
	require.Equal(t, 30.5, reading.TemperatureC)
	require.Equal(t, "/v1/current.json", got.Path)
	require.Equal(t, "secret", got.Query().Get("key"))
	require.Equal(t, "Shanghai", got.Query().Get("q"))
	require.Equal(t, "zh", got.Query().Get("lang"))
}

func TestCurrentWithoutKey(t *testing.T) {
	client := NewClient("", "", 0, resilience.Config{})
	_, err := client.Current(context.Background(), "Shanghai", "en")
	require.Error(t, err)
}

func TestCurrentUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"code":2006,"message":"API key is invalid."}}`))
	}))
	defer srv.Close()

	client := NewClient("bad", srv.URL, time.Second, resilience.Config{InitialInterval: time.Millisecond})
	_, err := client.Current(context.Background(), "Shanghai", "en")
	var statusErr *resilience.StatusError
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
}

func TestDecodeCurrent(t *testing.T) {
	cases := []struct {
		name    string
		body    string
		temp    float64
		wantErr bool
	}{
		{name: "number", body: `{"current":{"temp_c":-2,"condition":{"text":"Snow"}}}`, temp: -2},
		{name: "numeric string", body: `{"current":{"temp_c":" 18.5 ","condition":{"text":"Cloudy"}}}`, temp: 18.5},
		{name: "unparseable string", body: `{"current":{"temp_c":"warm","condition":{"text":"Cloudy"}}}`, wantErr: true},
		{name: "missing temp", body: `{"current":{"condition":{"text":"Cloudy"}}}`, wantErr: true},
		{name: "missing condition", body: `{"current":{"temp_c":3}}`, wantErr: true},
		{name: "not json", body: `<html>`, wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			reading, err := decodeCurrent([]byte(tc.body))
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.temp, reading.TemperatureC)
		})
	}
}

func TestParseTemperatureRejectsNull(t *testing.T) {
	_, err := parseTemperature(json.RawMessage(`null`))
	require.Error(t, err)
}
