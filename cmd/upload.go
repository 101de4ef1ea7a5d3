package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/sangeet/internal/formatter"
	"github.com/desertthunder/sangeet/internal/services"
	"github.com/desertthunder/sangeet/internal/shared"
	"github.com/desertthunder/sangeet/internal/tasks"
)

// uploadForm collects the upload fields from flags, audio tags and the interactive form.
type uploadForm struct {
	AudioPath   string
	ImagePath   string
	Title       string
	Artist      string
	Genre       string
	Description string
	Duration    string
}

func uploadFormFromFlags(cmd *cli.Command) *uploadForm {
	return &uploadForm{
		AudioPath:   cmd.String("audio"),
		ImagePath:   cmd.String("image"),
		Title:       cmd.String("title"),
		Artist:      cmd.String("artist"),
		Genre:       cmd.String("genre"),
		Description: cmd.String("description"),
		Duration:    cmd.String("duration"),
	}
}

// prefill fills empty title, artist and genre from the audio file's tags.
func (f *uploadForm) prefill(meta services.AudioMetadata) {
	if f.Title == "" {
		f.Title = meta.Title
	}
	if f.Artist == "" {
		f.Artist = meta.Artist
	}
	if f.Genre == "" {
		f.Genre = meta.Genre
	}
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func fileExists(s string) error {
	if s == "" {
		return nil
	}
	info, err := os.Stat(s)
	if err != nil {
		return fmt.Errorf("cannot read %s", s)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", s)
	}
	return nil
}

// promptFiles asks for the audio and cover paths.
func (f *uploadForm) promptFiles() error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Audio file").
				Value(&f.AudioPath).
				Validate(func(s string) error {
					if err := required("audio file")(s); err != nil {
						return err
					}
					return fileExists(s)
				}),
			huh.NewInput().
				Title("Cover image").
				Description("Optional").
				Value(&f.ImagePath).
				Validate(fileExists),
		),
	).Run()
}

// promptDetails asks for the track details, pre-populated from flags and tags.
func (f *uploadForm) promptDetails() error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(&f.Title).Validate(required("title")),
			huh.NewInput().Title("Artist").Value(&f.Artist).Validate(required("artist")),
			huh.NewInput().Title("Genre").Value(&f.Genre),
			huh.NewInput().Title("Duration").Description("Seconds").Value(&f.Duration),
			huh.NewText().Title("Description").Value(&f.Description),
		),
	).Run()
}

// Upload uploads an audio file and optional cover and saves the track.
func (r *Runner) Upload(ctx context.Context, cmd *cli.Command) error {
	form := uploadFormFromFlags(cmd)
	interactive := cmd.Bool("interactive")

	if interactive {
		if err := form.promptFiles(); err != nil {
			return abortedOr(err)
		}
	}
	if form.AudioPath == "" {
		return fmt.Errorf("%w: --audio is required", shared.ErrMissingArgument)
	}

	audio, err := os.Open(form.AudioPath)
	if err != nil {
		return fmt.Errorf("failed to open audio file: %w", err)
	}
	defer audio.Close()

	if meta, err := services.ReadAudioMetadata(audio); err == nil {
		form.prefill(meta)
	} else {
		r.logger.Debug("no readable tags", "file", form.AudioPath, "error", err)
	}
	if _, err := audio.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("failed to rewind audio file: %w", err)
	}

	if interactive {
		if err := form.promptDetails(); err != nil {
			return abortedOr(err)
		}
	}

	req := tasks.UploadRequest{
		Title:       form.Title,
		Artist:      form.Artist,
		Genre:       form.Genre,
		Description: form.Description,
		Duration:    form.Duration,
		Audio:       audio,
	}

	if form.ImagePath != "" {
		image, err := os.Open(form.ImagePath)
		if err != nil {
			return fmt.Errorf("failed to open image file: %w", err)
		}
		defer image.Close()
		req.Image = image
	}

	if req.UploaderID, err = r.CurrentUser(ctx); err != nil {
		return err
	}

	storage, err := r.Storage()
	if err != nil {
		return err
	}
	store, err := r.Store()
	if err != nil {
		return err
	}

	if info, err := audio.Stat(); err == nil {
		r.logger.Info("uploading", "file", form.AudioPath, "size", formatter.Size(info.Size()))
	}

	coordinator := tasks.NewUploadCoordinator(storage, store, r.notifier, shared.WithLogger(r.logger, "component", "upload"))

	progress := make(chan tasks.ProgressUpdate, 8)
	done := make(chan struct{})
	useJSON := cmd.Bool("json")
	if useJSON {
		go drain(progress, done)
	} else {
		go r.printProgress(progress, done)
	}

	track, err := coordinator.Upload(ctx, req, progress)
	close(progress)
	<-done

	if err != nil {
		return err
	}

	if useJSON {
		return r.writeJSON(track, true)
	}

	r.writePlainln("✓ Uploaded %s - %s", track.Artist, track.Title)
	r.writePlain("ID: %s\n", track.ID)
	r.writePlain("Duration: %s\n", shared.FormatDuration(track.Duration))
	r.writePlain("Audio: %s\n", track.AudioURL)
	if track.HasCover() {
		r.writePlain("Cover: %s\n", track.ImageURL)
	} else if form.ImagePath != "" {
		r.writePlain("Cover: upload failed, track saved without one\n")
	}
	return nil
}

func drain(progress <-chan tasks.ProgressUpdate, done chan<- struct{}) {
	defer close(done)
	for range progress {
	}
}

// abortedOr maps a cancelled form to [shared.ErrValidation].
func abortedOr(err error) error {
	if errors.Is(err, huh.ErrUserAborted) {
		return fmt.Errorf("%w: upload cancelled", shared.ErrValidation)
	}
	return err
}
