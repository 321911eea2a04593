package tracker

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Wpsi1337/exile-tracker/internal/metrics"
	"github.com/Wpsi1337/exile-tracker/internal/ninja"
	"github.com/Wpsi1337/exile-tracker/internal/settings"
	"github.com/Wpsi1337/exile-tracker/pkg/model"
)

// State is the refresh controller's lifecycle state.
type State int

const (
	StateIdle State = iota
	StateFetching
	StatePublished
	StateDegraded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateFetching:
		return "fetching"
	case StatePublished:
		return "published"
	case StateDegraded:
		return "degraded"
	case StateFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Fetcher fetches one partition's dataset from the price index.
type Fetcher interface {
	FetchOverview(ctx context.Context, game model.Game, league, category string, mode model.PriceMode) (*model.Snapshot, error)
}

// Archive persists published snapshots outside the process (warm store,
// history sink). Failures are logged and never affect the dashboard.
type Archive interface {
	SaveSnapshot(ctx context.Context, snap *model.Snapshot, ttl time.Duration) error
	RecordHistory(ctx context.Context, snap *model.Snapshot) error
}

// EventBus publishes refresh lifecycle events for downstream consumers.
type EventBus interface {
	SnapshotRefreshed(snap *model.Snapshot)
	ModeDegraded(game model.Game, category string)
	CategoryPruned(game model.Game, category string)
}

// SettingsSaver persists user settings. The controller saves on category
// switches, mode toggles, options edits and shutdown.
type SettingsSaver interface {
	Save(settings.Settings) error
}

// Deps are the controller's collaborators. Fetcher is required; Archive, Bus
// and Saver may be nil.
type Deps struct {
	Logger  *zap.Logger
	Fetcher Fetcher
	Cache   *SnapshotCache
	Archive Archive
	Bus     EventBus
	Saver   SettingsSaver
}

// FetchRequest is one upstream fetch the controller wants executed. Category
// carries the display spelling, which the fetch layer needs for overview type
// resolution.
type FetchRequest struct {
	Key      model.PartitionKey
	League   string
	Category string
}

// Controller owns all mutable dashboard state: the active partition, the
// published snapshot, navigation, search, and the refresh state machine.
// Methods are safe for concurrent use; fetches themselves run outside the
// lock via BeginRefresh/FinishRefresh so input handling never blocks on the
// network.
type Controller struct {
	logger    *zap.Logger
	fetcher   Fetcher
	cache     *SnapshotCache
	annotator *Annotator
	catalog   *Catalog
	searcher  *Searcher
	notices   *NoticeBoard
	archive   Archive
	bus       EventBus
	saver     SettingsSaver

	mu sync.Mutex

	game     model.Game
	league   string
	mode     model.PriceMode
	interval time.Duration
	limit    int

	state        State
	snapshot     *model.Snapshot
	errMsg       string
	lastAttempt  time.Time
	forcePending bool
	inflight     bool

	selected int
	scroll   int

	searchActive  bool
	searchQuery   string
	searchResults []DisplayEntry

	now func() time.Time
}

// NewController builds a controller from saved settings.
func NewController(deps Deps, initial settings.Settings) *Controller {
	initial = settings.Sanitize(initial)
	cache := deps.Cache
	if cache == nil {
		cache = NewSnapshotCache()
	}
	annotator := NewAnnotator(cache)
	c := &Controller{
		logger:    deps.Logger,
		fetcher:   deps.Fetcher,
		cache:     cache,
		annotator: annotator,
		catalog:   NewCatalog(initial.Game, initial.Category),
		searcher:  NewSearcher(cache, annotator),
		notices:   NewNoticeBoard(),
		archive:   deps.Archive,
		bus:       deps.Bus,
		saver:     deps.Saver,
		game:      initial.Game,
		league:    initial.League,
		mode:      initial.PriceMode,
		interval:  initial.RefreshInterval(),
		limit:     initial.Limit,
		state:     StateIdle,
		now:       time.Now,
	}
	return c
}

// ttl is the cache freshness window: the refresh interval with a one minute
// floor.
func (c *Controller) ttl() time.Duration {
	if c.interval < settings.MinInterval {
		return settings.MinInterval
	}
	return c.interval
}

func (c *Controller) activeKey() model.PartitionKey {
	return model.NewPartitionKey(c.game, c.catalog.Current(), c.mode)
}

func (c *Controller) setState(s State) {
	c.state = s
	metrics.SetRefreshState(s.String())
}

// displayName resolves a normalized category to its catalog spelling,
// capitalizing unknown ones for display.
func (c *Controller) displayName(normalized string) string {
	name := c.catalog.DisplayName(normalized)
	if name == normalized && name != "" {
		return strings.ToUpper(name[:1]) + name[1:]
	}
	return name
}

// ─── Refresh state machine ──────────────────────────────────────────────────

// DueForRefresh reports whether the periodic timer or a pending force demands
// a refresh now, and whether that refresh must bypass the cache.
func (c *Controller) DueForRefresh() (due, force bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inflight {
		return false, false
	}
	if c.forcePending {
		return true, true
	}
	return c.now().Sub(c.lastAttempt) >= c.interval, false
}

// ForceRefresh marks the next refresh as cache-bypassing.
func (c *Controller) ForceRefresh() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.forcePending = true
}

// BeginRefresh decides cache-hit versus fetch for the active partition. When
// the cached snapshot is fresh (and force is false) it is published
// immediately and no fetch is requested. Otherwise the controller enters
// Fetching and returns the request to execute; the result comes back through
// FinishRefresh. Returns false while another fetch is in flight.
func (c *Controller) BeginRefresh(force bool) (FetchRequest, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.beginLocked(force)
}

func (c *Controller) beginLocked(force bool) (FetchRequest, bool) {
	if c.inflight {
		return FetchRequest{}, false
	}
	c.forcePending = false
	if c.catalog.Len() == 0 {
		c.lastAttempt = c.now()
		return FetchRequest{}, false
	}
	key := c.activeKey()

	if !force {
		if snap, insertedAt, ok := c.cache.Get(key); ok {
			if c.now().Sub(insertedAt) < c.ttl() {
				metrics.CacheHits.WithLabelValues("hit").Inc()
				c.publishLocked(snap, StatePublished)
				c.errMsg = ""
				c.lastAttempt = c.now()
				return FetchRequest{}, false
			}
			metrics.CacheHits.WithLabelValues("stale").Inc()
		} else {
			metrics.CacheHits.WithLabelValues("miss").Inc()
		}
	}

	c.inflight = true
	c.setState(StateFetching)
	return FetchRequest{Key: key, League: c.league, Category: c.catalog.Current()}, true
}

// FinishRefresh applies a completed fetch on the control goroutine. Two cases
// hand back a follow-up request for the caller to execute: a not-found failure
// that prunes the active category (next category's fetch), and a result for a
// since-switched partition while the active one still has no data (active
// key's fetch). The prune chain is bounded because each prune shrinks the
// catalog.
func (c *Controller) FinishRefresh(req FetchRequest, snap *model.Snapshot, fetchErr error) (FetchRequest, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.inflight = false
	c.lastAttempt = c.now()

	// A fetch that raced a partition switch still warms the cache, but only
	// the active key publishes. When the switch left the active partition
	// without data, its fetch chains immediately instead of waiting out the
	// refresh timer.
	if req.Key != c.activeKey() {
		if fetchErr == nil && snap != nil {
			c.cache.Set(snap)
			c.logger.Debug("tracker.late_result_cached", zap.String("partition", req.Key.String()))
		}
		if c.state == StateFetching {
			c.setState(StateIdle)
		}
		if c.snapshot == nil && c.catalog.Len() > 0 {
			return c.beginLocked(false)
		}
		return FetchRequest{}, false
	}

	if fetchErr == nil && snap != nil {
		c.cache.Set(snap)
		c.publishLocked(snap, StatePublished)
		c.errMsg = ""
		c.afterPublish(snap)
		return FetchRequest{}, false
	}

	return c.handleFetchFailureLocked(req, fetchErr)
}

// Refresh runs one full refresh cycle synchronously: cache decision, fetch,
// failure policy, and any pruning follow-ups.
func (c *Controller) Refresh(ctx context.Context, force bool) {
	req, ok := c.BeginRefresh(force)
	for ok {
		snap, err := c.fetcher.FetchOverview(ctx, req.Key.Game, req.League, req.Category, req.Key.Mode)
		req, ok = c.FinishRefresh(req, snap, err)
	}
}

func (c *Controller) handleFetchFailureLocked(req FetchRequest, fetchErr error) (FetchRequest, bool) {
	kind := ninja.Classify(fetchErr, req.Key.Mode)
	c.errMsg = fmt.Sprintf("Fetch failed: %v", fetchErr)
	c.cache.Remove(req.Key)

	c.logger.Warn("tracker.refresh_failed",
		zap.String("partition", req.Key.String()),
		zap.String("kind", kind.String()),
		zap.Error(fetchErr))

	switch {
	case kind == ninja.KindModeUnsupported && c.mode == model.ModeExchange:
		// Permanent downgrade until the user toggles back.
		c.mode = model.ModeStash
		c.persistLocked()
		if c.bus != nil {
			c.bus.ModeDegraded(c.game, req.Key.Category)
		}
		if fallback, _, ok := c.cache.Get(c.activeKey()); ok {
			c.publishLocked(fallback, StateDegraded)
			c.errMsg = ""
			c.notices.Post("Exchange prices unavailable; showing stash data.")
			return FetchRequest{}, false
		}
		c.notices.Post("Exchange prices unavailable.")
		c.setState(StateFailed)
		return FetchRequest{}, false

	case kind == ninja.KindNotFound && req.Key.Mode == model.ModeStash:
		return c.pruneCategoryLocked(req)

	default:
		// Transport failure: keep the last good snapshot on screen, surface
		// the error, retry on the next natural tick.
		c.setState(StateFailed)
		return FetchRequest{}, false
	}
}

// pruneCategoryLocked removes a category the upstream has no data for and
// lines up a fetch for the next one.
func (c *Controller) pruneCategoryLocked(req FetchRequest) (FetchRequest, bool) {
	removed, ok := c.catalog.Remove(req.Key.Category)
	if !ok {
		c.setState(StateFailed)
		return FetchRequest{}, false
	}
	for _, mode := range c.game.PriceModes() {
		c.cache.Remove(model.NewPartitionKey(c.game, req.Key.Category, mode))
	}
	metrics.CategoriesPruned.Inc()
	if c.bus != nil {
		c.bus.CategoryPruned(c.game, removed)
	}
	c.notices.Post(fmt.Sprintf("Removed category '%s' (no data)", removed))
	c.logger.Info("tracker.category_pruned",
		zap.String("game", string(c.game)),
		zap.String("category", removed))

	if c.catalog.Len() == 0 {
		c.snapshot = nil
		c.setState(StateFailed)
		return FetchRequest{}, false
	}

	c.snapshot = nil
	c.selected = 0
	c.scroll = 0
	c.errMsg = ""

	// The next category may already be cached and fresh.
	next, ok := c.beginLocked(false)
	if !ok {
		return FetchRequest{}, false
	}
	return next, true
}

// publishLocked makes snap the visible dataset and clamps navigation into it.
func (c *Controller) publishLocked(snap *model.Snapshot, state State) {
	c.annotator.Annotate(snap)
	c.snapshot = snap
	c.setState(state)
	metrics.SnapshotEntries.WithLabelValues(snap.Key().String()).Set(float64(len(snap.Entries)))
	c.clampSelectionLocked()
	if c.searchQuery != "" {
		c.recomputeSearchLocked()
	}
}

// afterPublish mirrors a freshly fetched snapshot to the optional archive and
// bus. Archive writes run off the control path so a slow store never stalls
// input handling; failures only log.
func (c *Controller) afterPublish(snap *model.Snapshot) {
	if c.bus != nil {
		c.bus.SnapshotRefreshed(snap)
	}
	if c.archive == nil {
		return
	}
	ttl := c.ttl()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.archive.SaveSnapshot(ctx, snap, ttl); err != nil {
			c.logger.Warn("tracker.warm_store_failed", zap.Error(err))
		}
		if err := c.archive.RecordHistory(ctx, snap); err != nil {
			c.logger.Warn("tracker.history_sink_failed", zap.Error(err))
		}
	}()
}

// WarmStart primes the cache from previously persisted snapshots.
func (c *Controller) WarmStart(snaps []*model.Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, snap := range snaps {
		if snap == nil || !snap.Game.Valid() {
			continue
		}
		c.cache.Prime(snap)
	}
	if len(snaps) > 0 {
		c.logger.Info("tracker.warm_start", zap.Int("snapshots", len(snaps)))
	}
}

// ─── Category and mode navigation ───────────────────────────────────────────

// CycleCategory steps through the catalog by delta, skipping categories that
// fail to produce data. When every category fails the cursor returns to where
// it started.
func (c *Controller) CycleCategory(ctx context.Context, delta int) bool {
	c.mu.Lock()
	origin := c.catalog.Current()
	n := c.catalog.Len()
	c.mu.Unlock()
	if n == 0 {
		return false
	}

	for i := 0; i < n; i++ {
		c.mu.Lock()
		target := c.catalog.Advance(delta)
		c.mu.Unlock()
		if target == "" {
			break
		}
		if c.SwitchCategory(ctx, target) {
			return true
		}
	}

	// Return to where we started, unless pruning removed it meanwhile.
	c.mu.Lock()
	for _, name := range c.catalog.Names() {
		if model.NormalizeCategory(name) == model.NormalizeCategory(origin) {
			c.catalog.Select(name)
			break
		}
	}
	c.mu.Unlock()
	return false
}

// SwitchCategory makes category the active one and ensures data for it:
// straight from the cache when fresh, otherwise via a refresh cycle. Reports
// whether a snapshot ended up published or is pending behind an in-flight
// fetch.
func (c *Controller) SwitchCategory(ctx context.Context, category string) bool {
	c.mu.Lock()
	if category == "" {
		c.mu.Unlock()
		return false
	}
	if model.NormalizeCategory(category) == model.NormalizeCategory(c.catalog.Current()) && c.snapshot != nil {
		c.mu.Unlock()
		return true
	}
	c.catalog.Select(category)
	c.snapshot = nil
	c.selected = 0
	c.scroll = 0
	c.persistLocked()
	if c.inflight {
		// Another partition's fetch is outstanding. A fresh cached snapshot
		// for the new key still shows right away; otherwise FinishRefresh
		// chains this key's fetch when the outstanding one lands.
		if snap, insertedAt, ok := c.cache.Get(c.activeKey()); ok && c.now().Sub(insertedAt) < c.ttl() {
			c.publishLocked(snap, StatePublished)
			c.errMsg = ""
		}
		c.mu.Unlock()
		return true
	}
	c.mu.Unlock()

	c.Refresh(ctx, false)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inflight {
		// Another partition's fetch is still outstanding. The switch stands;
		// FinishRefresh chains the fetch for this key when that one lands.
		return true
	}
	return c.snapshot != nil && model.NormalizeCategory(c.snapshot.Category) == model.NormalizeCategory(c.catalog.Current())
}

// TogglePriceMode flips between stash and exchange pricing. Only poe has a
// second mode; elsewhere it posts a notice and does nothing.
func (c *Controller) TogglePriceMode() {
	c.mu.Lock()
	defer c.mu.Unlock()
	modes := c.game.PriceModes()
	if len(modes) <= 1 {
		c.notices.Post("Exchange pricing not available")
		return
	}
	if c.mode == model.ModeStash {
		c.mode = model.ModeExchange
	} else {
		c.mode = model.ModeStash
	}
	c.snapshot = nil
	c.selected = 0
	c.scroll = 0
	c.forcePending = true
	label := string(c.mode)
	c.notices.Post("Price mode: " + strings.ToUpper(label[:1]) + label[1:])
	c.persistLocked()
}

// ─── Selection ──────────────────────────────────────────────────────────────

// MoveSelection shifts the highlighted row by delta, clamped to the visible
// entries.
func (c *Controller) MoveSelection(delta int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected += delta
	c.clampSelectionLocked()
}

func (c *Controller) clampSelectionLocked() {
	n := len(c.visibleEntriesLocked())
	if n == 0 {
		c.selected = 0
		c.scroll = 0
		return
	}
	if c.selected < 0 {
		c.selected = 0
	}
	if c.selected >= n {
		c.selected = n - 1
	}
	if c.scroll > c.selected {
		c.scroll = c.selected
	}
}

// EnsureVisible adjusts the scroll offset so the selection fits a viewport of
// rows lines.
func (c *Controller) EnsureVisible(rows int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if rows < 1 {
		rows = 1
	}
	if c.selected < c.scroll {
		c.scroll = c.selected
	}
	if c.selected >= c.scroll+rows {
		c.scroll = c.selected - rows + 1
	}
	if c.scroll < 0 {
		c.scroll = 0
	}
}

// ─── Search lifecycle ───────────────────────────────────────────────────────

// StartSearch enters incremental search mode.
func (c *Controller) StartSearch() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.searchActive {
		c.searchActive = true
		c.scroll = 0
		c.notices.Post("Search mode active (Enter jumps to category, Esc to clear)")
	}
	c.recomputeSearchLocked()
}

// AppendSearch adds a printable character to the query.
func (c *Controller) AppendSearch(r rune) {
	if r < 32 || r > 126 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.searchActive && c.searchQuery == "" {
		return
	}
	c.searchQuery += string(r)
	c.selected = 0
	c.scroll = 0
	c.recomputeSearchLocked()
}

// BackspaceSearch removes the last query character; on an empty query it
// leaves search mode.
func (c *Controller) BackspaceSearch() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.searchQuery == "" {
		c.clearSearchLocked()
		return
	}
	c.searchQuery = c.searchQuery[:len(c.searchQuery)-1]
	c.selected = 0
	c.scroll = 0
	c.recomputeSearchLocked()
}

// CancelSearch drops the query and leaves search mode.
func (c *Controller) CancelSearch() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearSearchLocked()
}

func (c *Controller) clearSearchLocked() {
	if c.searchQuery == "" && !c.searchActive {
		return
	}
	c.searchQuery = ""
	c.searchResults = nil
	c.searchActive = false
	c.scroll = 0
	c.clampSelectionLocked()
	c.notices.Post("Search cleared")
}

// ConfirmSearch handles Enter in search mode: the query tries to resolve to a
// category jump; failing that, search capture ends but the filter stays
// applied.
func (c *Controller) ConfirmSearch(ctx context.Context) {
	c.mu.Lock()
	query := c.searchQuery
	c.mu.Unlock()

	if query != "" && c.jumpToCategory(ctx, query) {
		return
	}
	c.mu.Lock()
	c.searchActive = false
	c.mu.Unlock()
}

// jumpToCategory resolves query against the catalog and switches on an exact
// or unique match. Ambiguity posts candidates; no match is silent.
func (c *Controller) jumpToCategory(ctx context.Context, query string) bool {
	c.mu.Lock()
	target, candidates := ResolveCategory(c.catalog, query)
	c.mu.Unlock()

	if target == "" {
		if len(candidates) > 1 {
			preview := strings.Join(candidates[:min(3, len(candidates))], ", ")
			if len(candidates) > 3 {
				preview += ", ..."
			}
			c.notices.Post("Multiple categories match: " + preview)
		}
		return false
	}

	if c.SwitchCategory(ctx, target) {
		c.mu.Lock()
		c.searchQuery = ""
		c.searchResults = nil
		c.searchActive = false
		c.scroll = 0
		c.clampSelectionLocked()
		c.mu.Unlock()
		c.notices.Post(fmt.Sprintf("Category set to '%s'", target))
		return true
	}
	c.notices.Post(fmt.Sprintf("Unable to load category '%s'", target))
	return false
}

func (c *Controller) recomputeSearchLocked() {
	if c.searchQuery == "" {
		c.searchResults = nil
		return
	}
	c.searchResults = c.searcher.Search(c.game, c.displayName, c.searchQuery, c.limit)
	c.clampSelectionLocked()
}

// ─── Options ────────────────────────────────────────────────────────────────

// OptionsUpdate carries raw options-menu input. Empty fields keep the current
// value; invalid fields are rejected with a notice, keeping the prior value.
type OptionsUpdate struct {
	Game     string
	League   string
	Interval string
	Limit    string
}

// ApplyOptions validates and applies an options edit. Any accepted change
// invalidates the published snapshot and forces a refresh. Reports whether
// anything changed.
func (c *Controller) ApplyOptions(update OptionsUpdate) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	changed := false

	if g := strings.TrimSpace(update.Game); g != "" {
		switch strings.ToLower(g) {
		case "1", "poe":
			changed = c.applyGameLocked(model.GamePoE) || changed
		case "2", "poe2":
			changed = c.applyGameLocked(model.GamePoE2) || changed
		default:
			c.notices.Post("Invalid game selection. Keeping previous value.")
		}
	}

	if league := strings.TrimSpace(update.League); league != "" && league != c.league {
		c.league = league
		changed = true
	}

	if raw := strings.TrimSpace(update.Interval); raw != "" {
		if secs, err := strconv.Atoi(raw); err == nil {
			d := time.Duration(secs) * time.Second
			if d < settings.MinInterval {
				d = settings.MinInterval
			}
			if d != c.interval {
				c.interval = d
				changed = true
			}
		} else {
			c.notices.Post("Invalid interval. Keeping previous value.")
		}
	}

	if raw := strings.TrimSpace(update.Limit); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			if n < settings.MinLimit {
				n = settings.MinLimit
			}
			if n != c.limit {
				c.limit = n
				c.clampSelectionLocked()
				changed = true
			}
		} else {
			c.notices.Post("Invalid limit. Keeping previous value.")
		}
	}

	if changed {
		c.snapshot = nil
		c.forcePending = true
		c.lastAttempt = time.Time{}
		c.persistLocked()
		c.notices.Post("Options updated")
	} else {
		c.notices.Post("Options unchanged")
	}
	return changed
}

// applyGameLocked switches the active game, rebuilding the catalog. The
// current category carries over when the new game knows it.
func (c *Controller) applyGameLocked(game model.Game) bool {
	if game == c.game {
		return false
	}
	previous := c.catalog.Current()
	c.game = game
	c.mode = model.ParsePriceMode(string(c.mode), game)

	catalog := NewCatalog(game, "")
	norm := model.NormalizeCategory(previous)
	kept := false
	for _, name := range catalog.Names() {
		if model.NormalizeCategory(name) == norm {
			catalog.Select(name)
			kept = true
			break
		}
	}
	if !kept && catalog.Len() > 0 {
		catalog.Select(catalog.Names()[0])
	}
	c.catalog = catalog
	c.searchResults = nil
	c.searchQuery = ""
	c.searchActive = false
	return true
}

// ─── Views ──────────────────────────────────────────────────────────────────

// View is an immutable read of everything the renderer needs for one frame.
type View struct {
	State        State
	Game         model.Game
	League       string
	Category     string
	Mode         model.PriceMode
	Limit        int
	Entries      []DisplayEntry
	Selected     int
	Scroll       int
	SearchActive bool
	SearchQuery  string
	Error        string
	Notice       string
	FetchedAt    time.Time
	LastAttempt  time.Time
}

// View captures the current frame state.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := View{
		State:        c.state,
		Game:         c.game,
		League:       c.league,
		Category:     c.catalog.Current(),
		Mode:         c.mode,
		Limit:        c.limit,
		Entries:      c.visibleEntriesLocked(),
		Selected:     c.selected,
		Scroll:       c.scroll,
		SearchActive: c.searchActive,
		SearchQuery:  c.searchQuery,
		Error:        c.errMsg,
		Notice:       c.notices.Current(),
		LastAttempt:  c.lastAttempt,
	}
	if c.snapshot != nil {
		v.FetchedAt = c.snapshot.FetchedAt
	}
	return v
}

// visibleEntriesLocked builds the rows the table shows: search results while
// a query is live, otherwise the active snapshot's leading entries.
func (c *Controller) visibleEntriesLocked() []DisplayEntry {
	if c.searchQuery != "" {
		return c.searchResults
	}
	if c.snapshot == nil || len(c.snapshot.Entries) == 0 {
		return nil
	}
	norm := model.NormalizeCategory(c.snapshot.Category)
	label := modeSuffix(c.displayName(norm), c.snapshot.Mode)
	top := c.snapshot.TopEntries(c.limit)
	rows := make([]DisplayEntry, 0, len(top))
	for _, entry := range top {
		rows = append(rows, DisplayEntry{
			Category:           label,
			NormalizedCategory: norm,
			Mode:               c.snapshot.Mode,
			Entry:              entry,
		})
	}
	return rows
}

// Settings returns the current persistent state.
func (c *Controller) Settings() settings.Settings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settingsLocked()
}

func (c *Controller) settingsLocked() settings.Settings {
	return settings.Settings{
		Game:      c.game,
		League:    c.league,
		Category:  c.catalog.Current(),
		PriceMode: c.mode,
		Interval:  int(c.interval.Seconds()),
		Limit:     c.limit,
	}
}

// Persist saves the current settings through the configured saver.
func (c *Controller) Persist() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.persistLocked()
}

func (c *Controller) persistLocked() {
	if c.saver == nil {
		return
	}
	if err := c.saver.Save(c.settingsLocked()); err != nil {
		c.logger.Warn("tracker.settings_save_failed", zap.Error(err))
	}
}

// Cache exposes the snapshot cache for shutdown persistence.
func (c *Controller) Cache() *SnapshotCache {
	return c.cache
}
