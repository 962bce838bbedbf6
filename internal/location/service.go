// Package location resolves human location names to HeadHunter area ids.
// The full area tree is fetched from the HH API, kept in an in-memory TTL
// cache and mirrored to a JSON snapshot on disk so restarts do not pay
// the network cost again.
package location

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/workscout/workscout/internal/config"
	"github.com/workscout/workscout/pkg/hh"
	"github.com/workscout/workscout/pkg/logging"
)

const (
	snapshotName = "locations.json"

	readyKey   = "index_ready"
	namePrefix = "name:"
	idPrefix   = "id:"
)

// AreasClient is the slice of the HH client this package needs.
type AreasClient interface {
	Areas(ctx context.Context) ([]hh.Area, error)
}

// Place is a single resolvable location.
type Place struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// fallbackPlaces keeps name resolution working when both the snapshot
// and the HH API are unavailable.
var fallbackPlaces = []Place{
	{ID: "113", Name: "Россия"},
	{ID: "1", Name: "Москва"},
	{ID: "2", Name: "Санкт-Петербург"},
	{ID: "1202", Name: "Екатеринбург"},
	{ID: "88", Name: "Казань"},
	{ID: "66", Name: "Нижний Новгород"},
	{ID: "104", Name: "Новосибирск"},
}

type snapshot struct {
	FetchedAt time.Time `json:"fetched_at"`
	Areas     []hh.Area `json:"areas"`
}

// Service is a read-through cache over the HH area tree.
type Service struct {
	client AreasClient
	log    *logging.Logger

	dir string
	ttl time.Duration

	mu    sync.Mutex // serializes index rebuilds
	index *gocache.Cache
}

func NewService(client AreasClient, cfg config.CacheConfig, log *logging.Logger) *Service {
	ttl := cfg.LocationsTTL
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &Service{
		client: client,
		log:    log.Named("location"),
		dir:    cfg.Dir,
		ttl:    ttl,
		index:  gocache.New(ttl, ttl/2),
	}
}

// ResolveID maps a location name to an HH area id, case-insensitively.
// The second return is false when the name is not in the tree.
func (s *Service) ResolveID(ctx context.Context, name string) (string, bool, error) {
	if err := s.ensure(ctx); err != nil {
		return "", false, err
	}
	v, ok := s.index.Get(namePrefix + strings.ToLower(strings.TrimSpace(name)))
	if !ok {
		return "", false, nil
	}
	return v.(string), true, nil
}

// Name maps an HH area id back to its display name.
func (s *Service) Name(ctx context.Context, id string) (string, bool, error) {
	if err := s.ensure(ctx); err != nil {
		return "", false, err
	}
	v, ok := s.index.Get(idPrefix + id)
	if !ok {
		return "", false, nil
	}
	return v.(string), true, nil
}

// ValidateID reports whether id names a known HH area.
func (s *Service) ValidateID(ctx context.Context, id string) (bool, error) {
	if err := s.ensure(ctx); err != nil {
		return false, err
	}
	_, ok := s.index.Get(idPrefix + id)
	return ok, nil
}

// Refresh drops the current index and refetches the tree from the API,
// rewriting the disk snapshot on success.
func (s *Service) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	areas, err := s.client.Areas(ctx)
	if err != nil {
		return fmt.Errorf("refresh locations: %w", err)
	}

	s.rebuild(areas)
	if err := s.writeSnapshot(areas); err != nil {
		s.log.Warn("failed to write location snapshot", "error", err)
	}
	s.log.Info("location index refreshed", "entries", s.index.ItemCount())
	return nil
}

// ensure populates the index on first use and after TTL expiry. Order of
// preference: in-memory index, fresh disk snapshot, HH API, builtin
// fallback list.
func (s *Service) ensure(ctx context.Context) error {
	if _, ok := s.index.Get(readyKey); ok {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.index.Get(readyKey); ok {
		return nil
	}

	if snap, err := s.readSnapshot(); err == nil && time.Since(snap.FetchedAt) < s.ttl {
		s.rebuild(snap.Areas)
		return nil
	}

	areas, err := s.client.Areas(ctx)
	if err != nil {
		s.log.Warn("area fetch failed, using builtin fallback", "error", err)
		s.rebuildPlaces(fallbackPlaces)
		return nil
	}

	s.rebuild(areas)
	if err := s.writeSnapshot(areas); err != nil {
		s.log.Warn("failed to write location snapshot", "error", err)
	}
	return nil
}

func (s *Service) rebuild(areas []hh.Area) {
	s.index.Flush()
	var walk func([]hh.Area)
	walk = func(nodes []hh.Area) {
		for _, a := range nodes {
			s.index.SetDefault(namePrefix+strings.ToLower(a.Name), a.ID)
			s.index.SetDefault(idPrefix+a.ID, a.Name)
			walk(a.Areas)
		}
	}
	walk(areas)
	s.index.SetDefault(readyKey, true)
}

func (s *Service) rebuildPlaces(places []Place) {
	s.index.Flush()
	for _, p := range places {
		s.index.SetDefault(namePrefix+strings.ToLower(p.Name), p.ID)
		s.index.SetDefault(idPrefix+p.ID, p.Name)
	}
	s.index.SetDefault(readyKey, true)
}

func (s *Service) snapshotPath() string {
	return filepath.Join(s.dir, snapshotName)
}

func (s *Service) readSnapshot() (snapshot, error) {
	var snap snapshot
	data, err := os.ReadFile(s.snapshotPath())
	if err != nil {
		return snap, err
	}
	if err := json.Unmarshal(data, &snap); err != nil {
		return snap, fmt.Errorf("decode location snapshot: %w", err)
	}
	return snap, nil
}

func (s *Service) writeSnapshot(areas []hh.Area) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	data, err := json.Marshal(snapshot{FetchedAt: time.Now(), Areas: areas})
	if err != nil {
		return err
	}
	return os.WriteFile(s.snapshotPath(), data, 0o644)
}
