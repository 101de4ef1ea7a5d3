package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/sangeet/internal/models"
	"github.com/desertthunder/sangeet/internal/services"
	"github.com/desertthunder/sangeet/internal/shared"
)

// UploadRequest holds the user-supplied input for a single upload.
//
// Duration is free text as typed by the user; it is parsed leniently.
type UploadRequest struct {
	UploaderID  string
	Title       string
	Artist      string
	Genre       string
	Description string
	Duration    string
	Audio       io.Reader
	Image       io.Reader // optional
}

// Validate checks the required fields without touching any backend.
func (r UploadRequest) Validate() error {
	var errs []error
	if strings.TrimSpace(r.Title) == "" {
		errs = append(errs, errors.New("title is required"))
	}
	if strings.TrimSpace(r.Artist) == "" {
		errs = append(errs, errors.New("artist is required"))
	}
	if r.Audio == nil {
		errs = append(errs, errors.New("an audio file is required"))
	}
	if r.UploaderID == "" {
		errs = append(errs, errors.New("uploader id is required"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: %w", shared.ErrValidation, err)
	}
	return nil
}

// UploadCoordinator turns an [UploadRequest] into a persisted [models.Track].
//
// Steps run strictly in order: validate, upload audio, upload image, save track.
type UploadCoordinator struct {
	storage  services.ObjectStorage
	store    services.Writer
	notifier Notifier
	logger   *log.Logger
	now      func() time.Time
}

// NewUploadCoordinator creates an [UploadCoordinator]. A nil notifier discards notifications.
func NewUploadCoordinator(storage services.ObjectStorage, store services.Writer, notifier Notifier, logger *log.Logger) *UploadCoordinator {
	return &UploadCoordinator{
		storage:  storage,
		store:    store,
		notifier: orNop(notifier),
		logger:   orDefaultLogger(logger),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Upload runs the upload workflow and returns the persisted track.
func (c *UploadCoordinator) Upload(ctx context.Context, req UploadRequest, progress chan<- ProgressUpdate) (*models.Track, error) {
	track, err := c.upload(ctx, req, progress)
	if err != nil {
		c.logger.Error("upload failed", "title", req.Title, "error", err)
		c.notifier.Notify(failed(err.Error()))
		return nil, err
	}

	c.logger.Info("track uploaded", "id", track.ID, "title", track.Title)
	c.notifier.Notify(info("Music uploaded successfully"))
	return track, nil
}

// UploadAsync runs [UploadCoordinator.Upload] in the background.
func (c *UploadCoordinator) UploadAsync(ctx context.Context, req UploadRequest, progress chan<- ProgressUpdate) <-chan Result[*models.Track] {
	return async(func() (*models.Track, error) {
		return c.Upload(ctx, req, progress)
	})
}

func (c *UploadCoordinator) upload(ctx context.Context, req UploadRequest, progress chan<- ProgressUpdate) (*models.Track, error) {
	sendProgress(progress, validateUpdate())
	if err := req.Validate(); err != nil {
		return nil, err
	}

	sendProgress(progress, uploadAudioUpdate())
	audioURL, err := c.storage.UploadAsset(ctx, req.Audio, services.AssetAudio)
	if err == nil && audioURL == "" {
		err = errors.New("storage returned an empty url")
	}
	if err != nil {
		return nil, fmt.Errorf("%w: audio: %w", shared.ErrUpload, err)
	}

	imageURL := ""
	sendProgress(progress, uploadImageUpdate(req.Image == nil))
	if req.Image != nil {
		imageURL, err = c.storage.UploadAsset(ctx, req.Image, services.AssetImage)
		if err != nil {
			imageURL = ""
			c.logger.Warn("cover image upload failed, continuing without cover", "error", err)
			c.notifier.Notify(warn(fmt.Sprintf("Cover image upload failed: %v", err)))
		}
	}

	track := &models.Track{
		ID:          shared.GenerateID(),
		Title:       strings.TrimSpace(req.Title),
		Artist:      strings.TrimSpace(req.Artist),
		Genre:       strings.TrimSpace(req.Genre),
		Description: strings.TrimSpace(req.Description),
		Duration:    shared.ParseDuration(req.Duration),
		AudioURL:    audioURL,
		ImageURL:    imageURL,
		UploadedBy:  req.UploaderID,
		UploadedAt:  c.now(),
	}

	sendProgress(progress, saveTrackUpdate(track))
	if err := c.store.WriteTrack(ctx, track); err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrWrite, err)
	}

	return track, nil
}
