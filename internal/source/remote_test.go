package source

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/rankboard/internal/contracts"
	"github.com/wonny/rankboard/internal/metrics"
	"github.com/wonny/rankboard/internal/period"
	"github.com/wonny/rankboard/pkg/httputil"
	"github.com/wonny/rankboard/pkg/logger"
)

func newRemoteServer(t *testing.T, files map[string]string) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := files[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, body)
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestRemote(server *httptest.Server, timeout time.Duration, m *metrics.Registry) *Remote {
	client := httputil.New(logger.Nop(), timeout).DisableRetry()
	return NewRemote(client, RemoteConfig{
		BaseURL:  server.URL + "/rankings/",
		IndexURL: server.URL + "/rankings/",
	}, logger.Nop(), m)
}

func TestRemote_URL(t *testing.T) {
	r := NewRemote(nil, RemoteConfig{BaseURL: "https://data.example.com/r/", Suffix: "_ranking.csv"}, logger.Nop(), nil)
	assert.Equal(t, "https://data.example.com/r/202306_ranking.csv", r.URL(period.MustKey(2023, 6)))

	r = NewRemote(nil, RemoteConfig{BaseURL: "https://data.example.com/r/"}, logger.Nop(), nil)
	assert.Equal(t, "https://data.example.com/r/202004.csv", r.URL(period.MustKey(2020, 4)))
}

func TestRemote_GetTable(t *testing.T) {
	server := newRemoteServer(t, map[string]string{
		"/rankings/202306.csv": "Ticker,Rank,ICB Industry name\nAAPL,1,Technology\nXOM,2,Energy\n",
	})
	m := metrics.New()
	remote := newTestRemote(server, time.Second, m)

	table, err := remote.GetTable(context.Background(), period.MustKey(2023, 6))
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())
	assert.Equal(t, float64(1), testutil.ToFloat64(m.SourceFetches.WithLabelValues("remote", metrics.OutcomeOK)))
}

func TestRemote_NotFoundIsUnavailable(t *testing.T) {
	server := newRemoteServer(t, nil)
	m := metrics.New()
	remote := newTestRemote(server, time.Second, m)

	_, err := remote.GetTable(context.Background(), period.MustKey(2023, 7))
	assert.ErrorIs(t, err, contracts.ErrDataUnavailable)
	assert.NotErrorIs(t, err, contracts.ErrTransportTimeout)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.SourceFetches.WithLabelValues("remote", metrics.OutcomeNotFound)))
}

func TestRemote_TimeoutIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	}))
	defer server.Close()

	remote := newTestRemote(server, 20*time.Millisecond, nil)

	_, err := remote.GetTable(context.Background(), period.MustKey(2023, 6))
	assert.ErrorIs(t, err, contracts.ErrTransportTimeout)
	assert.ErrorIs(t, err, contracts.ErrDataUnavailable)
}

func TestRemote_UnreachableHostIsUnavailable(t *testing.T) {
	server := newRemoteServer(t, nil)
	remote := newTestRemote(server, time.Second, nil)
	server.Close()

	_, err := remote.GetTable(context.Background(), period.MustKey(2023, 6))
	assert.ErrorIs(t, err, contracts.ErrDataUnavailable)
}

func TestRemote_Discover(t *testing.T) {
	server := newRemoteServer(t, map[string]string{
		"/rankings/": `<html><body>
			<a href="../">Parent</a>
			<a href="202004.csv">202004.csv</a>
			<a href="/rankings/202005.csv">202005.csv</a>
			<a href="202005.csv?download=1">again</a>
			<a href="202013.csv">bad month</a>
			<a href="notes.csv">notes</a>
			<a href="202006.xlsx">other suffix</a>
		</body></html>`,
	})
	remote := newTestRemote(server, time.Second, nil)

	keys, err := remote.Discover(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []period.Key{period.MustKey(2020, 4), period.MustKey(2020, 5)}, keys)
}

func TestRemote_DiscoverWithoutIndex(t *testing.T) {
	remote := NewRemote(httputil.New(logger.Nop(), time.Second), RemoteConfig{BaseURL: "http://localhost/"}, logger.Nop(), nil)

	_, err := remote.Discover(context.Background())
	assert.Error(t, err)
}
