package ninja

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/Wpsi1337/exile-tracker/internal/httpclient"
	"github.com/Wpsi1337/exile-tracker/internal/metrics"
	"github.com/Wpsi1337/exile-tracker/pkg/model"
)

const (
	currencyOverviewPath = "/api/data/currencyoverview"
	itemOverviewPath     = "/api/data/itemoverview"
	poe2PathPrefix       = "/poe2"
)

// Client fetches economy overviews from poe.ninja. It owns endpoint selection
// (currency vs item overview, poe2 prefix) and translates upstream failures
// into classified errors.
type Client struct {
	logger  *zap.Logger
	exec    *httpclient.Executor
	baseURL string
	cookie  string
	mapper  *Mapper
}

// NewClient constructs a poe.ninja client. cookie may be empty for anonymous
// access.
func NewClient(logger *zap.Logger, exec *httpclient.Executor, baseURL, cookie string) *Client {
	return &Client{
		logger:  logger,
		exec:    exec,
		baseURL: baseURL,
		cookie:  cookie,
		mapper:  NewMapper(),
	}
}

// ErrorHandler classifies 4xx responses for the HTTP executor. Wired into
// httpclient.New by the composition root.
func ErrorHandler(status int, body []byte) error {
	if status == http.StatusNotFound {
		return &Error{Kind: KindNotFound, Message: fmt.Sprintf("HTTP Error 404: %s", string(body))}
	}
	return &Error{Kind: KindTransport, Message: fmt.Sprintf("upstream returned %d: %s", status, string(body))}
}

func (c *Client) overviewURL(game model.Game, league, category string, mode model.PriceMode) string {
	path := itemOverviewPath
	if IsCurrencyOverview(game, category) {
		path = currencyOverviewPath
	}
	if game == model.GamePoE2 {
		path = poe2PathPrefix + path
	}

	q := url.Values{}
	q.Set("league", league)
	q.Set("type", OverviewType(game, category))
	if mode == model.ModeExchange {
		q.Set("source", "exchange")
	}
	return c.baseURL + path + "?" + q.Encode()
}

// FetchOverview fetches one partition's dataset. Entries arrive in server rank
// order. An empty dataset is reported as a not-found error so the caller can
// prune the category.
func (c *Client) FetchOverview(ctx context.Context, game model.Game, league, category string, mode model.PriceMode) (*model.Snapshot, error) {
	key := model.NewPartitionKey(game, category, mode)
	start := time.Now()

	snap, err := c.fetch(ctx, game, league, category, mode)
	elapsed := time.Since(start)

	if err != nil {
		kind := Classify(err, mode)
		metrics.ObserveFetch(key.String(), kind.String(), elapsed)
		c.logger.Warn("ninja.fetch_failed",
			zap.String("partition", key.String()),
			zap.String("league", league),
			zap.String("kind", kind.String()),
			zap.Error(err))
		return nil, err
	}

	if len(snap.Entries) == 0 {
		metrics.ObserveFetch(key.String(), KindNotFound.String(), elapsed)
		c.logger.Warn("ninja.empty_overview",
			zap.String("partition", key.String()),
			zap.String("league", league))
		return nil, &Error{Kind: KindNotFound, Message: fmt.Sprintf("No data returned for category %q", category)}
	}

	metrics.ObserveFetch(key.String(), "ok", elapsed)
	c.logger.Info("ninja.overview_fetched",
		zap.String("partition", key.String()),
		zap.String("league", league),
		zap.Int("entries", len(snap.Entries)),
		zap.Duration("elapsed", elapsed))
	return snap, nil
}

func (c *Client) fetch(ctx context.Context, game model.Game, league, category string, mode model.PriceMode) (*model.Snapshot, error) {
	rawURL := c.overviewURL(game, league, category, mode)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build overview request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "exile-tracker/1.0")
	if c.cookie != "" {
		req.Header.Set("Cookie", c.cookie)
	}

	if IsCurrencyOverview(game, category) {
		var resp CurrencyOverviewResponse
		if err := c.exec.DoJSON(ctx, req, &resp); err != nil {
			return nil, err
		}
		return c.mapper.FromCurrencyOverview(&resp, league, category, game, mode), nil
	}

	var resp ItemOverviewResponse
	if err := c.exec.DoJSON(ctx, req, &resp); err != nil {
		return nil, err
	}
	return c.mapper.FromItemOverview(&resp, league, category, game, mode), nil
}
