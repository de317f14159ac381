package memory

import (
	"context"
	"sync"

	"pethost/internal/app/policies"
)

// Directory is an in-memory stand-in for the identity and pet services.
type Directory struct {
	mu    sync.RWMutex
	users map[string]policies.User
	pets  map[string]policies.Pet
}

func NewDirectory() *Directory {
	return &Directory{users: make(map[string]policies.User), pets: make(map[string]policies.Pet)}
}

func (d *Directory) PutUser(u policies.User) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.users[u.ID] = u
}

func (d *Directory) PutPet(p policies.Pet) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pets[p.ID] = p
}

func (d *Directory) User(ctx context.Context, id string) (policies.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	u, ok := d.users[id]
	if !ok {
		return policies.User{}, policies.ErrUserNotFound
	}
	return u, nil
}

func (d *Directory) Pet(ctx context.Context, id string) (policies.Pet, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	p, ok := d.pets[id]
	if !ok {
		return policies.Pet{}, policies.ErrPetNotFound
	}
	return p, nil
}

var (
	_ policies.UserDirectory = (*Directory)(nil)
	_ policies.PetRegistry   = (*Directory)(nil)
)
