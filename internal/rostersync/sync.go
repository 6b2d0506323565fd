package rostersync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"restaurant-availability-backend/config"
	"restaurant-availability-backend/internal/availability"
	"restaurant-availability-backend/internal/cache"
	"restaurant-availability-backend/internal/model"
	"restaurant-availability-backend/internal/parse"
)

// Store persists a synced roster.
type Store interface {
	SyncRoster(ctx context.Context, tenantID string, restaurantID int64, tables []model.Table) (int64, error)
}

// Result summarizes one sync cycle.
type Result struct {
	Fetched     int
	Upserted    int
	Skipped     int
	Deactivated int64
}

// Service periodically pulls a restaurant's table roster from the upstream
// POS and mirrors it into the store.
type Service struct {
	cfg    config.SyncConfig
	store  Store
	cache  cache.Cache
	client *http.Client
}

// NewService creates a roster sync service. responses may be nil; when set,
// the tenant's cached availability is evicted after each successful sync.
func NewService(cfg config.SyncConfig, store Store, responses cache.Cache) *Service {
	var transport http.RoundTripper = &http.Transport{}
	if cfg.HTTPProxy != "" {
		proxyURL, err := url.Parse(cfg.HTTPProxy)
		if err != nil {
			slog.Warn("invalid roster sync proxy, continuing without it", slog.String("proxy", cfg.HTTPProxy), slog.Any("error", err))
		} else {
			transport = &http.Transport{Proxy: http.ProxyURL(proxyURL)}
		}
	}
	if cfg.Request.PageSize <= 0 {
		cfg.Request.PageSize = 100
	}

	return &Service{
		cfg:   cfg,
		store: store,
		cache: responses,
		client: &http.Client{
			Transport: transport,
			Timeout:   30 * time.Second,
		},
	}
}

// tableStatus maps an upstream state code to a table status. Unknown codes
// map to maintenance so the table is never offered.
func (s *Service) tableStatus(code int) (availability.TableStatus, bool) {
	lists := []struct {
		status availability.TableStatus
		codes  []int
	}{
		{availability.TableAvailable, s.cfg.StateAvailableValues},
		{availability.TableOccupied, s.cfg.StateOccupiedValues},
		{availability.TableReserved, s.cfg.StateReservedValues},
		{availability.TableMaintenance, s.cfg.StateMaintenanceValues},
	}
	for _, l := range lists {
		for _, c := range l.codes {
			if c == code {
				return l.status, true
			}
		}
	}
	return availability.TableMaintenance, false
}

// Run syncs once immediately and then on every interval until ctx is done.
func (s *Service) Run(ctx context.Context) {
	if !s.cfg.Enabled {
		slog.Info("roster sync is disabled")
		return
	}
	slog.Info("starting roster sync",
		slog.String("tenant", s.cfg.TenantID),
		slog.Int64("restaurant", s.cfg.RestaurantID),
		slog.Duration("interval", s.cfg.Interval),
	)

	s.logCycle(s.SyncOnce(ctx))

	timer := time.NewTimer(s.cfg.Interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("roster sync shutting down")
			return
		case <-timer.C:
			s.logCycle(s.SyncOnce(ctx))
			timer.Reset(s.cfg.Interval)
		}
	}
}

func (s *Service) logCycle(res Result, err error) {
	if err != nil {
		slog.Error("roster sync cycle failed", slog.Any("error", err))
		return
	}
	slog.Info("roster sync cycle finished",
		slog.Int("fetched", res.Fetched),
		slog.Int("upserted", res.Upserted),
		slog.Int("skipped", res.Skipped),
		slog.Int64("deactivated", res.Deactivated),
	)
}

// SyncOnce fetches every page of the roster and persists it. A failed page
// aborts the whole cycle, since a partial feed would deactivate live tables.
func (s *Service) SyncOnce(ctx context.Context) (Result, error) {
	var items []RosterItem
	total := 1
	pageSize := s.cfg.Request.PageSize
	for page := 1; (page-1)*pageSize < total; page++ {
		resp, err := s.fetchPage(ctx, page)
		if err != nil {
			return Result{}, fmt.Errorf("fetch page %d: %w", page, err)
		}
		if resp.Data.Total == 0 || len(resp.Data.Items) == 0 {
			break
		}
		total = resp.Data.Total
		items = append(items, resp.Data.Items...)
		slog.Debug("fetched roster page", slog.Int("page", page), slog.Int("items", len(items)), slog.Int("total", total))
	}

	res := Result{Fetched: len(items)}
	tables := make([]model.Table, 0, len(items))
	for _, item := range items {
		table, ok := s.toTable(item)
		if !ok {
			res.Skipped++
			continue
		}
		tables = append(tables, table)
	}
	res.Upserted = len(tables)

	deactivated, err := s.store.SyncRoster(ctx, s.cfg.TenantID, s.cfg.RestaurantID, tables)
	if err != nil {
		return Result{}, err
	}
	res.Deactivated = deactivated

	if s.cache != nil && len(tables) > 0 {
		if err := cache.InvalidateTenant(ctx, s.cache, s.cfg.TenantID); err != nil {
			slog.Warn("failed to invalidate availability cache after sync", slog.Any("error", err))
		}
	}
	return res, nil
}

func (s *Service) toTable(item RosterItem) (model.Table, bool) {
	if item.Seats <= 0 {
		slog.Warn("skipping roster table without seats", slog.Int64("external_id", item.ID), slog.String("name", item.Name))
		return model.Table{}, false
	}

	status, known := s.tableStatus(item.State)
	if !known {
		slog.Warn("unknown roster state code, treating as maintenance", slog.Int64("external_id", item.ID), slog.Int("state", item.State))
	}

	externalID := item.ID
	table := model.Table{
		ExternalID: &externalID,
		Label:      item.Name,
		Capacity:   item.Seats,
		IsActive:   item.Active == nil || *item.Active,
		Status:     string(status),
	}
	if parsed, err := parse.TableName(item.Name); err == nil {
		table.Zone = parsed.Zone
		table.Number = parsed.Number
	} else {
		slog.Debug("roster table name has no number", slog.String("name", item.Name))
	}
	return table, true
}

// fetchPage fetches a single page of the roster from the upstream API.
func (s *Service) fetchPage(ctx context.Context, page int) (*ApiResponse, error) {
	payload := make(map[string]any)
	for k, v := range s.cfg.Request.Payload {
		payload[k] = v
	}
	payload["page"] = page
	payload["pageSize"] = s.cfg.Request.PageSize

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.Request.URL, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for key, value := range s.cfg.Request.Headers {
		req.Header.Set(key, value)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("received non-200 status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var apiResp ApiResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal api response: %w", err)
	}
	if apiResp.Code != 0 {
		return nil, fmt.Errorf("API returned non-zero application code: %d", apiResp.Code)
	}
	return &apiResp, nil
}
