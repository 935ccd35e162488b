// Package editor holds the authoritative in-memory menu for an authenticated
// operator and applies the per-operation local-update policy: some mutations
// patch the snapshot optimistically, others force a full refetch. The policy
// is deliberate and per-operation; display previews key off the same success
// signal, so it must not be unified silently.
package editor

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"sync"

	"menuboard/internal/model"
	"menuboard/internal/store"
)

// ErrInvalid marks a validation failure rejected before any gateway call.
var ErrInvalid = errors.New("invalid input")

// ErrNoMenu is returned when no restaurant exists for the operator.
var ErrNoMenu = errors.New("no menu for operator")

// Gateway is the slice of the remote data gateway an editing session uses.
type Gateway interface {
	MenuByOwner(ownerID int64) (*model.Menu, error)
	CreateSection(restaurantID int64, title string, position int) (*model.Section, error)
	UpdateSection(id int64, title string, position int, visible bool) (*model.Section, error)
	DeleteSection(id int64) error
	CreateItem(sectionID int64, f store.ItemFields) (*model.Item, error)
	UpdateItem(id int64, f store.ItemFields) (*model.Item, error)
	DeleteItem(id int64) error
	UpdateLogo(restaurantID int64, logoURL string) (*model.Restaurant, error)
	UpdateTheme(restaurantID int64, mode model.ThemeMode, brandBackground, brandText string) (*model.Restaurant, error)
}

// ItemInput carries raw item fields from the edit form boundary. Price
// arrives as text and tags as one comma-joined string.
type ItemInput struct {
	Name        string
	Price       string
	Description string
	Tags        string
	IsFeatured  bool
	IsTrending  bool
	Visible     bool
}

// fields validates and converts the raw input. An unparseable price becomes
// 0 on purpose; only an empty name is an error.
func (in ItemInput) fields() (store.ItemFields, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return store.ItemFields{}, fmt.Errorf("%w: item name is required", ErrInvalid)
	}

	// ParseFloat accepts "NaN" and "Inf"; neither is < 0, so they need
	// their own checks to hit the zero fallback.
	price, err := strconv.ParseFloat(strings.TrimSpace(in.Price), 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		price = 0
	}

	f := store.ItemFields{
		Name:       name,
		Price:      price,
		Tags:       model.ParseTags(in.Tags),
		IsFeatured: in.IsFeatured,
		IsTrending: in.IsTrending,
		Visible:    in.Visible,
	}
	if desc := strings.TrimSpace(in.Description); desc != "" {
		f.Description = &desc
	}
	return f, nil
}

// Session is one operator's editing session.
type Session struct {
	mu      sync.Mutex
	ownerID int64
	gw      Gateway
	menu    *model.Menu
	logger  *slog.Logger
}

// NewSession creates a session for the operator. The menu loads lazily on
// first use.
func NewSession(ownerID int64, gw Gateway, logger *slog.Logger) *Session {
	return &Session{ownerID: ownerID, gw: gw, logger: logger}
}

// Menu returns a copy of the current snapshot, loading it if needed.
func (s *Session) Menu() (*model.Menu, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}
	return s.menu.Clone(), nil
}

// Reload discards the snapshot and refetches it.
func (s *Session) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refetch()
}

func (s *Session) ensureLoaded() error {
	if s.menu != nil {
		return nil
	}
	return s.refetch()
}

// refetch replaces the snapshot wholesale. The caller holds the lock.
func (s *Session) refetch() error {
	menu, err := s.gw.MenuByOwner(s.ownerID)
	if err != nil {
		return err
	}
	if menu == nil {
		return ErrNoMenu
	}
	s.menu = menu
	return nil
}

// AddSection creates a section at the end of the menu and appends it to the
// snapshot optimistically, skipping the full refetch.
func (s *Session) AddSection(title string) (*model.Section, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: section title is required", ErrInvalid)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}

	sec, err := s.gw.CreateSection(s.menu.ID, title, len(s.menu.Sections)+1)
	if err != nil {
		return nil, err
	}

	appended := *sec
	appended.Items = []model.Item{}
	s.menu.Sections = append(s.menu.Sections, appended)
	return sec, nil
}

// UpdateSection persists the change and refetches the whole menu.
func (s *Session) UpdateSection(id int64, title string, position int, visible bool) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return fmt.Errorf("%w: section title is required", ErrInvalid)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(); err != nil {
		return err
	}

	if _, err := s.gw.UpdateSection(id, title, position, visible); err != nil {
		return err
	}
	return s.refetch()
}

// DeleteSection persists the delete and refetches the whole menu.
func (s *Session) DeleteSection(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(); err != nil {
		return err
	}

	if err := s.gw.DeleteSection(id); err != nil {
		return err
	}
	return s.refetch()
}

// AddItem persists the new item and refetches the whole menu.
func (s *Session) AddItem(sectionID int64, in ItemInput) (*model.Item, error) {
	f, err := in.fields()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}

	item, err := s.gw.CreateItem(sectionID, f)
	if err != nil {
		return nil, err
	}
	if err := s.refetch(); err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateItem persists the change and refetches the whole menu.
func (s *Session) UpdateItem(id int64, in ItemInput) error {
	f, err := in.fields()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(); err != nil {
		return err
	}

	if _, err := s.gw.UpdateItem(id, f); err != nil {
		return err
	}
	return s.refetch()
}

// DeleteItem persists the delete and refetches the whole menu.
func (s *Session) DeleteItem(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(); err != nil {
		return err
	}

	if err := s.gw.DeleteItem(id); err != nil {
		return err
	}
	return s.refetch()
}

// SetLogo persists the logo URL and patches the snapshot field in place.
func (s *Session) SetLogo(logoURL string) error {
	logoURL = strings.TrimSpace(logoURL)
	if logoURL == "" {
		return fmt.Errorf("%w: logo url is required", ErrInvalid)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(); err != nil {
		return err
	}

	if _, err := s.gw.UpdateLogo(s.menu.ID, logoURL); err != nil {
		return err
	}
	s.menu.LogoPath = &logoURL
	return nil
}

// SetTheme persists the theme and patches mode and brand colors in place.
func (s *Session) SetTheme(mode string, brandBackground, brandText string) error {
	if !model.ValidThemeMode(mode) {
		return fmt.Errorf("%w: mode must be light, dark, or brand", ErrInvalid)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(); err != nil {
		return err
	}

	r, err := s.gw.UpdateTheme(s.menu.ID, model.ThemeMode(mode), brandBackground, brandText)
	if err != nil {
		return err
	}
	s.menu.Mode = r.Mode
	s.menu.BrandBackground = r.BrandBackground
	s.menu.BrandText = r.BrandText
	return nil
}
