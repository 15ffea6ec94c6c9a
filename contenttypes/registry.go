// Package contenttypes maps stable numeric ids to registered model types,
// so log items can reference any model without a direct foreign key.
package contenttypes

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/blogem/object-log/models"
	"github.com/blogem/object-log/repositories"
)

// ErrNotFound is returned when no content type is stored under an id or natural key
var ErrNotFound = errors.New("content type does not exist")

// Display decides how objects of a model type are shown. It is either
// Linkable or PlainDisplay.
type Display interface {
	display()
}

// Linkable models have a canonical page per primary key
type Linkable struct {
	URL func(pk string) string
}

// PlainDisplay models are shown as text only
type PlainDisplay struct{}

func (Linkable) display()     {}
func (PlainDisplay) display() {}

// ModelClass is a model type known to the registry
type ModelClass struct {
	AppLabel string
	Model    string
	Display  Display
}

// URL returns the page address for pk when the model is Linkable
func (m ModelClass) URL(pk string) (string, bool) {
	l, ok := m.Display.(Linkable)
	if !ok || l.URL == nil {
		return "", false
	}
	return l.URL(pk), true
}

// IsLinkable reports whether the model exposes page addresses
func (m ModelClass) IsLinkable() bool {
	l, ok := m.Display.(Linkable)
	return ok && l.URL != nil
}

func (m ModelClass) key() string {
	return m.AppLabel + "." + m.Model
}

// Registry resolves content types through a cache in front of the repository
type Registry struct {
	repo  repositories.ContentTypeRepository
	cache *cache.Cache

	mu      sync.RWMutex
	classes map[string]ModelClass
}

// NewRegistry creates a registry whose lookups are cached for ttl
func NewRegistry(repo repositories.ContentTypeRepository, ttl time.Duration) *Registry {
	return &Registry{
		repo:    repo,
		cache:   cache.New(ttl, 2*ttl),
		classes: make(map[string]ModelClass),
	}
}

// Register declares a model type and how its objects are displayed.
// Registering the same natural key again replaces the display.
func (r *Registry) Register(appLabel, model string, display Display) {
	if display == nil {
		display = PlainDisplay{}
	}
	class := ModelClass{AppLabel: appLabel, Model: model, Display: display}

	r.mu.Lock()
	r.classes[class.key()] = class
	r.mu.Unlock()
}

// Classes returns the registered model classes sorted by natural key
func (r *Registry) Classes() []ModelClass {
	r.mu.RLock()
	defer r.mu.RUnlock()

	classes := make([]ModelClass, 0, len(r.classes))
	for _, c := range r.classes {
		classes = append(classes, c)
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i].key() < classes[j].key() })
	return classes
}

// Sync makes sure every registered model has a stored content type
func (r *Registry) Sync(ctx context.Context) error {
	for _, class := range r.Classes() {
		if _, err := r.GetForModel(ctx, class.AppLabel, class.Model); err != nil {
			return err
		}
	}
	return nil
}

// GetForID returns the content type stored under id
func (r *Registry) GetForID(ctx context.Context, id int64) (*models.ContentType, error) {
	idKey := idCacheKey(id)
	if ct, ok := r.cache.Get(idKey); ok {
		return ct.(*models.ContentType), nil
	}

	ct, err := r.repo.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	r.store(ct)
	return ct, nil
}

// GetForModel returns the content type for a natural key, creating it when missing
func (r *Registry) GetForModel(ctx context.Context, appLabel, model string) (*models.ContentType, error) {
	nkKey := naturalCacheKey(appLabel, model)
	if ct, ok := r.cache.Get(nkKey); ok {
		return ct.(*models.ContentType), nil
	}

	ct, err := r.repo.GetByNaturalKey(ctx, appLabel, model)
	if errors.Is(err, repositories.ErrNotFound) {
		ct = &models.ContentType{AppLabel: appLabel, Model: model}
		err = r.repo.Create(ctx, ct)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get content type %s.%s: %w", appLabel, model, err)
	}

	r.store(ct)
	return ct, nil
}

// ModelClass returns the registered class of a content type. Stored
// content types whose model is no longer registered report false.
func (r *Registry) ModelClass(ct *models.ContentType) (ModelClass, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	class, ok := r.classes[ct.String()]
	return class, ok
}

// ClearCache drops all cached lookups
func (r *Registry) ClearCache() {
	r.cache.Flush()
}

func (r *Registry) store(ct *models.ContentType) {
	r.cache.SetDefault(idCacheKey(ct.ID), ct)
	r.cache.SetDefault(naturalCacheKey(ct.AppLabel, ct.Model), ct)
}

func idCacheKey(id int64) string {
	return "id:" + strconv.FormatInt(id, 10)
}

func naturalCacheKey(appLabel, model string) string {
	return "nk:" + appLabel + "." + model
}
