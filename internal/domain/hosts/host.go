package hosts

import (
	"context"
	"math"
	"strings"
	"time"

	"pethost/internal/domain/pricing"
	"pethost/internal/domain/shared/errs"
	"pethost/internal/domain/shared/events"
)

var (
	ErrHostNotFound     = errs.New(errs.NotFound, "hosts: host not found")
	ErrHostInactive     = errs.New(errs.NotFound, "hosts: host is inactive")
	ErrDuplicateHost    = errs.New(errs.Conflict, "hosts: user already has a host profile")
	ErrNotOwner         = errs.New(errs.Forbidden, "hosts: caller does not own this host profile")
	ErrUserRequired     = errs.New(errs.Validation, "hosts: user id is required")
	ErrTitleRequired    = errs.New(errs.Validation, "hosts: title is required")
	ErrCapacity         = errs.New(errs.Validation, "hosts: max pets must be at least 1")
	ErrPhotoNotFound    = errs.New(errs.NotFound, "hosts: photo not found")
	ErrPhotoURLRequired = errs.New(errs.Validation, "hosts: photo url is required")
	ErrConcurrentUpdate = errs.New(errs.Conflict, "hosts: concurrent update detected")
)

type HostID string

type Address struct {
	Line1   string
	City    string
	Country string
	Lat     float64
	Lon     float64
}

func (a Address) Point() GeoPoint {
	return GeoPoint{Lat: a.Lat, Lon: a.Lon}
}

// Metrics are derived from booking and review history; never edited by hand.
type Metrics struct {
	ResponseRate     float64
	CompletionRate   float64
	AvgResponseHours *float64
	Rating           float64
	TotalReviews     int
}

type Photo struct {
	ID        string
	URL       string
	Caption   string
	IsPrimary bool
	CreatedAt time.Time
}

type Host struct {
	ID          HostID
	UserID      string
	Title       string
	Description string
	Address     Address
	MaxPets     int
	Pricing     pricing.Policy
	Verified    bool
	SuperHost   bool
	Active      bool
	Metrics     Metrics
	Photos      []Photo
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Version     int64
	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id HostID) (*Host, error)
	ByUser(ctx context.Context, userID string) (*Host, error)
	Save(ctx context.Context, host *Host) error
	Delete(ctx context.Context, id HostID) error
	Search(ctx context.Context, params SearchParams) ([]*Host, error)
}

type Profile struct {
	Title       string
	Description string
	Address     Address
	MaxPets     int
	Pricing     pricing.Policy
}

func (p Profile) validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return ErrTitleRequired
	}
	if p.MaxPets < 1 {
		return ErrCapacity
	}
	return p.Pricing.Validate()
}

type CreateParams struct {
	ID       HostID
	UserID   string
	Profile  Profile
	Verified bool
	Now      time.Time
}

func NewHost(params CreateParams) (*Host, error) {
	if strings.TrimSpace(params.UserID) == "" {
		return nil, ErrUserRequired
	}
	if err := params.Profile.validate(); err != nil {
		return nil, err
	}
	now := params.Now.UTC()
	h := &Host{
		ID:        params.ID,
		UserID:    strings.TrimSpace(params.UserID),
		Verified:  params.Verified,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	h.applyProfile(params.Profile)
	h.Record(HostCreated{HostID: h.ID, UserID: h.UserID, At: now})
	return h, nil
}

func (h *Host) applyProfile(p Profile) {
	h.Title = strings.TrimSpace(p.Title)
	h.Description = strings.TrimSpace(p.Description)
	h.Address = p.Address
	h.Address.City = strings.TrimSpace(p.Address.City)
	h.Address.Country = strings.TrimSpace(p.Address.Country)
	h.MaxPets = p.MaxPets
	h.Pricing = p.Pricing.Copy()
}

func (h *Host) UpdateProfile(p Profile, now time.Time) error {
	if err := p.validate(); err != nil {
		return err
	}
	h.applyProfile(p)
	h.UpdatedAt = now.UTC()
	h.Record(HostUpdated{HostID: h.ID, At: h.UpdatedAt})
	return nil
}

func (h *Host) OwnedBy(userID string) bool {
	return h.UserID == userID
}

func (h *Host) Deactivate(now time.Time) {
	if !h.Active {
		return
	}
	h.Active = false
	h.UpdatedAt = now.UTC()
	h.Record(HostDeactivated{HostID: h.ID, At: h.UpdatedAt})
}

// SetResponseMetrics stores the recomputed response rate and latency.
func (h *Host) SetResponseMetrics(rate float64, avgHours *float64, now time.Time) {
	h.Metrics.ResponseRate = clamp(rate, 0, 100)
	h.Metrics.AvgResponseHours = avgHours
	h.UpdatedAt = now.UTC()
}

func (h *Host) SetCompletionRate(rate float64, now time.Time) {
	h.Metrics.CompletionRate = clamp(rate, 0, 100)
	h.UpdatedAt = now.UTC()
}

func (h *Host) SetRating(rating float64, total int, now time.Time) {
	h.Metrics.Rating = clamp(rating, 0, 5)
	h.Metrics.TotalReviews = total
	h.UpdatedAt = now.UTC()
}

// GrantSuperHost sets the badge. It is never revoked automatically.
func (h *Host) GrantSuperHost(now time.Time) bool {
	if h.SuperHost {
		return false
	}
	h.SuperHost = true
	h.UpdatedAt = now.UTC()
	h.Record(SuperHostGranted{HostID: h.ID, At: h.UpdatedAt})
	return true
}

// AddPhoto appends a photo; a primary photo demotes the previous one.
func (h *Host) AddPhoto(photo Photo, now time.Time) error {
	photo.URL = strings.TrimSpace(photo.URL)
	if photo.URL == "" {
		return ErrPhotoURLRequired
	}
	if len(h.Photos) == 0 {
		photo.IsPrimary = true
	}
	if photo.IsPrimary {
		h.demotePhotos()
	}
	photo.Caption = strings.TrimSpace(photo.Caption)
	photo.CreatedAt = now.UTC()
	h.Photos = append(h.Photos, photo)
	h.UpdatedAt = now.UTC()
	return nil
}

func (h *Host) RemovePhoto(id string, now time.Time) error {
	idx := h.photoIndex(id)
	if idx < 0 {
		return ErrPhotoNotFound
	}
	wasPrimary := h.Photos[idx].IsPrimary
	h.Photos = append(h.Photos[:idx], h.Photos[idx+1:]...)
	if wasPrimary && len(h.Photos) > 0 {
		h.Photos[0].IsPrimary = true
	}
	h.UpdatedAt = now.UTC()
	return nil
}

func (h *Host) SetPrimaryPhoto(id string, now time.Time) error {
	idx := h.photoIndex(id)
	if idx < 0 {
		return ErrPhotoNotFound
	}
	h.demotePhotos()
	h.Photos[idx].IsPrimary = true
	h.UpdatedAt = now.UTC()
	return nil
}

func (h *Host) PrimaryPhoto() (Photo, bool) {
	for _, p := range h.Photos {
		if p.IsPrimary {
			return p, true
		}
	}
	return Photo{}, false
}

func (h *Host) demotePhotos() {
	for i := range h.Photos {
		h.Photos[i].IsPrimary = false
	}
}

func (h *Host) photoIndex(id string) int {
	for i, p := range h.Photos {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy without pending events.
func (h *Host) Clone() *Host {
	clone := *h
	clone.Pricing = h.Pricing.Copy()
	clone.Photos = append([]Photo(nil), h.Photos...)
	if h.Metrics.AvgResponseHours != nil {
		v := *h.Metrics.AvgResponseHours
		clone.Metrics.AvgResponseHours = &v
	}
	clone.EventRecorder = events.EventRecorder{}
	return &clone
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
