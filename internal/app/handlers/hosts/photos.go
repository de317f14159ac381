package hosts

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"pethost/internal/app/commands"
	"pethost/internal/app/dto"
	"pethost/internal/app/handlers/support"
	"pethost/internal/app/policies"
	"pethost/internal/app/uow"
	domainhosts "pethost/internal/domain/hosts"
	"pethost/internal/domain/shared/errs"
)

const (
	addHostPhotoKey      = "hosts.photos.add"
	removeHostPhotoKey   = "hosts.photos.remove"
	setPrimaryPhotoKey   = "hosts.photos.primary"
	maxPhotosPerHost     = 30
	photoObjectKeyPrefix = "hosts"
)

var (
	ErrUploaderUnavailable = errs.New(errs.InvalidState, "hosts: photo uploads are not configured")
	ErrTooManyPhotos       = errs.New(errs.Validation, "hosts: photo limit reached")
	ErrPhotoSourceMissing  = errs.New(errs.Validation, "hosts: photo url or file is required")
)

// PhotoUpload carries file content for hosts that upload instead of linking.
type PhotoUpload struct {
	FileName    string
	ContentType string
	Reader      io.Reader
}

type AddHostPhotoCommand struct {
	ActorID   string `validate:"required"`
	HostID    string `validate:"required"`
	URL       string `validate:"omitempty,url"`
	Caption   string `validate:"max=280"`
	IsPrimary bool
	Upload    *PhotoUpload
}

func (c AddHostPhotoCommand) Key() string          { return addHostPhotoKey }
func (c AddHostPhotoCommand) Actor() string        { return c.ActorID }
func (c AddHostPhotoCommand) ScopedHostID() string { return c.HostID }

type AddHostPhotoHandler struct {
	Uploader policies.PhotoUploader
	Clock    support.Clock
	Logger   *slog.Logger
}

func (h *AddHostPhotoHandler) Handle(ctx context.Context, cmd AddHostPhotoCommand) (*dto.Host, error) {
	unit, err := uow.MustFromContext(ctx)
	if err != nil {
		return nil, err
	}
	host, err := loadOwnedHost(ctx, unit, cmd.HostID, cmd.ActorID)
	if err != nil {
		return nil, err
	}
	if len(host.Photos) >= maxPhotosPerHost {
		return nil, ErrTooManyPhotos
	}

	photoID := support.NewID()
	url := strings.TrimSpace(cmd.URL)
	if cmd.Upload != nil && cmd.Upload.Reader != nil {
		if h.Uploader == nil {
			return nil, ErrUploaderUnavailable
		}
		key := path.Join(photoObjectKeyPrefix, string(host.ID), photoID+path.Ext(cmd.Upload.FileName))
		url, err = h.Uploader.Upload(ctx, key, cmd.Upload.Reader, cmd.Upload.ContentType)
		if err != nil {
			return nil, fmt.Errorf("upload photo: %w", err)
		}
	}
	if url == "" {
		return nil, ErrPhotoSourceMissing
	}

	photo := domainhosts.Photo{ID: photoID, URL: url, Caption: cmd.Caption, IsPrimary: cmd.IsPrimary}
	if err := host.AddPhoto(photo, h.Clock.Now()); err != nil {
		return nil, err
	}
	if err := unit.Hosts().Save(ctx, host); err != nil {
		return nil, err
	}
	if h.Logger != nil {
		h.Logger.Info("host photo added", "host_id", host.ID, "photo_id", photoID, "uploaded", cmd.Upload != nil)
	}
	result := dto.MapHost(host)
	return &result, nil
}

type RemoveHostPhotoCommand struct {
	ActorID string `validate:"required"`
	HostID  string `validate:"required"`
	PhotoID string `validate:"required"`
}

func (c RemoveHostPhotoCommand) Key() string          { return removeHostPhotoKey }
func (c RemoveHostPhotoCommand) Actor() string        { return c.ActorID }
func (c RemoveHostPhotoCommand) ScopedHostID() string { return c.HostID }

type RemoveHostPhotoHandler struct {
	Clock  support.Clock
	Logger *slog.Logger
}

func (h *RemoveHostPhotoHandler) Handle(ctx context.Context, cmd RemoveHostPhotoCommand) (*dto.Host, error) {
	unit, err := uow.MustFromContext(ctx)
	if err != nil {
		return nil, err
	}
	host, err := loadOwnedHost(ctx, unit, cmd.HostID, cmd.ActorID)
	if err != nil {
		return nil, err
	}
	if err := host.RemovePhoto(cmd.PhotoID, h.Clock.Now()); err != nil {
		return nil, err
	}
	if err := unit.Hosts().Save(ctx, host); err != nil {
		return nil, err
	}
	if h.Logger != nil {
		h.Logger.Info("host photo removed", "host_id", host.ID, "photo_id", cmd.PhotoID)
	}
	result := dto.MapHost(host)
	return &result, nil
}

type SetPrimaryPhotoCommand struct {
	ActorID string `validate:"required"`
	HostID  string `validate:"required"`
	PhotoID string `validate:"required"`
}

func (c SetPrimaryPhotoCommand) Key() string          { return setPrimaryPhotoKey }
func (c SetPrimaryPhotoCommand) Actor() string        { return c.ActorID }
func (c SetPrimaryPhotoCommand) ScopedHostID() string { return c.HostID }

type SetPrimaryPhotoHandler struct {
	Clock  support.Clock
	Logger *slog.Logger
}

func (h *SetPrimaryPhotoHandler) Handle(ctx context.Context, cmd SetPrimaryPhotoCommand) (*dto.Host, error) {
	unit, err := uow.MustFromContext(ctx)
	if err != nil {
		return nil, err
	}
	host, err := loadOwnedHost(ctx, unit, cmd.HostID, cmd.ActorID)
	if err != nil {
		return nil, err
	}
	if err := host.SetPrimaryPhoto(cmd.PhotoID, h.Clock.Now()); err != nil {
		return nil, err
	}
	if err := unit.Hosts().Save(ctx, host); err != nil {
		return nil, err
	}
	if h.Logger != nil {
		h.Logger.Info("host primary photo changed", "host_id", host.ID, "photo_id", cmd.PhotoID)
	}
	result := dto.MapHost(host)
	return &result, nil
}

var (
	_ commands.Handler[AddHostPhotoCommand, *dto.Host]    = (*AddHostPhotoHandler)(nil)
	_ commands.Handler[RemoveHostPhotoCommand, *dto.Host] = (*RemoveHostPhotoHandler)(nil)
	_ commands.Handler[SetPrimaryPhotoCommand, *dto.Host] = (*SetPrimaryPhotoHandler)(nil)
)
