package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/wonny/rankboard/internal/contracts"
	"github.com/wonny/rankboard/internal/metrics"
	"github.com/wonny/rankboard/internal/period"
	"github.com/wonny/rankboard/pkg/httputil"
	"github.com/wonny/rankboard/pkg/logger"
)

// Remote fetches {baseURL}{YYYYMM}{suffix} per request
// ⭐ SSOT: 원격 랭킹 파일 조회는 이 구조체에서만
type Remote struct {
	client   *httputil.Client
	baseURL  string
	suffix   string
	indexURL string
	logger   *logger.Logger
	metrics  *metrics.Registry
}

// RemoteConfig parameterises a Remote source
type RemoteConfig struct {
	BaseURL  string
	Suffix   string
	IndexURL string
}

// NewRemote creates a remote per-period source. The client carries the
// fetch timeout, rate limit and circuit breaker.
func NewRemote(client *httputil.Client, cfg RemoteConfig, log *logger.Logger, m *metrics.Registry) *Remote {
	suffix := cfg.Suffix
	if suffix == "" {
		suffix = ".csv"
	}
	return &Remote{
		client:   client,
		baseURL:  cfg.BaseURL,
		suffix:   suffix,
		indexURL: cfg.IndexURL,
		logger:   log,
		metrics:  m,
	}
}

// URL returns the address of a period's resource
func (r *Remote) URL(key period.Key) string {
	return r.baseURL + key.String() + r.suffix
}

// GetTable downloads and parses one period. Every failure (non-2xx,
// unreachable host, timeout, malformed CSV) is reported as ErrDataUnavailable;
// timeouts additionally match ErrTransportTimeout.
func (r *Remote) GetTable(ctx context.Context, key period.Key) (*contracts.RankingTable, error) {
	start := time.Now()
	target := r.URL(key)

	resp, err := r.client.Get(ctx, target)
	if err != nil {
		if httputil.IsTimeout(err) {
			r.metrics.ObserveFetch("remote", metrics.OutcomeTimeout, time.Since(start))
			return nil, contracts.TimedOut(key, err)
		}
		r.metrics.ObserveFetch("remote", metrics.OutcomeError, time.Since(start))
		return nil, contracts.Unavailable(key, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		r.metrics.ObserveFetch("remote", metrics.OutcomeNotFound, time.Since(start))
		return nil, contracts.Unavailable(key, fmt.Errorf("GET %s: status %d", target, resp.StatusCode))
	}

	table, err := ReadCSV(key, resp.Body)
	if err != nil {
		if httputil.IsTimeout(err) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			r.metrics.ObserveFetch("remote", metrics.OutcomeTimeout, time.Since(start))
			return nil, contracts.TimedOut(key, err)
		}
		r.metrics.ObserveFetch("remote", metrics.OutcomeError, time.Since(start))
		return nil, contracts.Unavailable(key, err)
	}

	r.metrics.ObserveFetch("remote", metrics.OutcomeOK, time.Since(start))
	r.logger.WithFields(map[string]interface{}{
		"period":   key.String(),
		"rows":     table.Len(),
		"duration": time.Since(start),
	}).Debug("Remote ranking fetched")

	return table, nil
}

// Discover lists the periods linked from the HTML index page (an autoindex
// or bucket listing) whose file names match YYYYMM{suffix}.
func (r *Remote) Discover(ctx context.Context) ([]period.Key, error) {
	if r.indexURL == "" {
		return nil, errors.New("no index URL configured")
	}

	resp, err := r.client.Get(ctx, r.indexURL)
	if err != nil {
		return nil, fmt.Errorf("fetch index: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch index: unexpected status code: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse index: %w", err)
	}

	seen := make(map[period.Key]bool)
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if u, err := url.Parse(href); err == nil {
			href = u.Path
		}
		name := path.Base(href)
		if !strings.HasSuffix(name, r.suffix) {
			return
		}
		if key, err := period.ParseKey(strings.TrimSuffix(name, r.suffix)); err == nil {
			seen[key] = true
		}
	})

	keys := make([]period.Key, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })

	return keys, nil
}
