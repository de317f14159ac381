package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"pethost/internal/app/policies"
	domainpricing "pethost/internal/domain/pricing"
	"pethost/internal/infra/storage/memory"
)

// directoryFixtures seeds the in-memory user and pet directory.
type directoryFixtures struct {
	Users []struct {
		ID       string `json:"id"`
		Verified bool   `json:"verified"`
		Active   *bool  `json:"active"`
	} `json:"users"`
	Pets []struct {
		ID              string `json:"id"`
		OwnerID         string `json:"owner_id"`
		Name            string `json:"name"`
		Size            string `json:"size"`
		Active          *bool  `json:"active"`
		BehavioralNotes string `json:"behavioral_notes"`
	} `json:"pets"`
}

func loadDirectoryFixtures(path string, dir *memory.Directory, logger *slog.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Info("directory fixtures file not found, skipping", "path", path)
			return nil
		}
		return fmt.Errorf("read fixtures: %w", err)
	}
	var fx directoryFixtures
	if err := json.Unmarshal(data, &fx); err != nil {
		return fmt.Errorf("decode fixtures: %w", err)
	}
	for _, u := range fx.Users {
		dir.PutUser(policies.User{ID: u.ID, Verified: u.Verified, Active: u.Active == nil || *u.Active})
	}
	for _, p := range fx.Pets {
		dir.PutPet(policies.Pet{
			ID:              p.ID,
			OwnerID:         p.OwnerID,
			Name:            p.Name,
			Size:            domainpricing.NormalizeSize(p.Size),
			Active:          p.Active == nil || *p.Active,
			BehavioralNotes: p.BehavioralNotes,
		})
	}
	logger.Info("directory fixtures imported", "users", len(fx.Users), "pets", len(fx.Pets))
	return nil
}
