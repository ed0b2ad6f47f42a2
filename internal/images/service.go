package images

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/edgard/servermanage/internal/database"
)

const (
	maxNameLength = 100
	stagedSuffix  = ".new"
)

var allowedExtensions = []string{".png", ".gif"}

// Attachment is a file attached to a chat message. Fetch downloads its bytes
// and is only called after validation passes.
type Attachment struct {
	Filename string
	Width    int
	Height   int
	Fetch    func(ctx context.Context) ([]byte, error)
}

// Extension returns the lower-cased file extension including the dot.
func (a Attachment) Extension() string {
	return strings.ToLower(filepath.Ext(a.Filename))
}

// ValidateAttachments checks that exactly one image attachment in a supported
// format was provided and returns it.
func ValidateAttachments(attachments []Attachment) (Attachment, error) {
	if len(attachments) != 1 {
		return Attachment{}, fmt.Errorf("%w: got %d", ErrInvalidAttachmentCount, len(attachments))
	}

	a := attachments[0]
	if a.Width <= 0 && a.Height <= 0 {
		return Attachment{}, fmt.Errorf("%w: %s", ErrNotAnImage, a.Filename)
	}
	if !slices.Contains(allowedExtensions, a.Extension()) {
		return Attachment{}, fmt.Errorf("%w: %q", ErrUnsupportedImageFormat, a.Extension())
	}
	return a, nil
}

// ValidateName rejects names that are empty, too long, or would escape the asset directory.
func ValidateName(name string) error {
	switch {
	case name == "", name == ".", name == "..":
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	case len(name) > maxNameLength:
		return fmt.Errorf("%w: longer than %d characters", ErrInvalidName, maxNameLength)
	case strings.ContainsAny(name, `/\`+"\x00"):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidName, name)
	}
	return nil
}

// ScheduleEntry is one row of a schedule listing.
type ScheduleEntry struct {
	DateKey   string
	HumanDate string
	AssetName string
}

// Listing is the schedule table of one community and category together with
// the assets that no date references.
type Listing struct {
	Assets     []database.Asset
	Entries    []ScheduleEntry
	Unassigned []string
}

// Lines renders the listing one line per entry, followed by the unassigned names.
func (l *Listing) Lines() []string {
	lines := make([]string, 0, len(l.Entries)+1)
	for _, e := range l.Entries {
		lines = append(lines, fmt.Sprintf("%s: %s", e.HumanDate, e.AssetName))
	}
	if len(l.Unassigned) > 0 {
		lines = append(lines, "Unassigned: "+strings.Join(l.Unassigned, ", "))
	}
	return lines
}

// RemoveResult describes what Remove deleted.
type RemoveResult struct {
	Asset            database.Asset
	UnscheduledDates []string
	FileMissing      bool
}

// Service implements the asset registry and schedule table on top of the
// database store and the file store.
type Service struct {
	store  database.Store
	files  *FileStore
	logger *slog.Logger
}

// NewService creates a Service.
func NewService(store database.Store, files *FileStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{
		store:  store,
		files:  files,
		logger: logger.With("component", "images"),
	}
}

// Get returns the asset entry for name, or ErrNameNotFound.
func (s *Service) Get(ctx context.Context, community database.Community, category Category, name string) (*database.Asset, error) {
	asset, err := s.store.GetAsset(ctx, community, category.String(), name)
	if err != nil {
		return nil, err
	}
	if asset == nil {
		return nil, fmt.Errorf("%w: %s %q", ErrNameNotFound, category, name)
	}
	return asset, nil
}

// Exists reports whether an asset named name exists.
func (s *Service) Exists(ctx context.Context, community database.Community, category Category, name string) (bool, error) {
	_, err := s.Get(ctx, community, category, name)
	if errors.Is(err, ErrNameNotFound) {
		return false, nil
	}
	return err == nil, err
}

// Open returns the asset entry and the bytes of its stored file.
func (s *Service) Open(ctx context.Context, community database.Community, category Category, name string) (*database.Asset, []byte, error) {
	asset, err := s.Get(ctx, community, category, name)
	if err != nil {
		return nil, nil, err
	}

	data, err := s.files.Read(community, category, asset.Filename)
	if err != nil {
		if errors.Is(err, ErrFileMissing) {
			s.logger.ErrorContext(ctx, "File does not exist", "path", s.files.Path(community, category, asset.Filename))
		}
		return asset, nil, err
	}
	return asset, data, nil
}

// ReadFile returns the bytes of a stored file by its filename.
func (s *Service) ReadFile(community database.Community, category Category, filename string) ([]byte, error) {
	return s.files.Read(community, category, filename)
}

// Add downloads the attachment, stores it as <name><ext> and creates or replaces
// the mapping. The bytes are staged next to the final file and only moved into
// place once the mapping is saved. Overwrite confirmation is the caller's
// responsibility.
func (s *Service) Add(ctx context.Context, community database.Community, category Category, name string, attachment Attachment) (*database.Asset, bool, error) {
	if err := ValidateName(name); err != nil {
		return nil, false, err
	}
	attachment, err := ValidateAttachments([]Attachment{attachment})
	if err != nil {
		return nil, false, err
	}
	if attachment.Fetch == nil {
		return nil, false, errors.New("attachment has no content source")
	}

	previous, err := s.store.GetAsset(ctx, community, category.String(), name)
	if err != nil {
		return nil, false, err
	}

	data, err := attachment.Fetch(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("failed to download attachment %s: %w", attachment.Filename, err)
	}

	filename := name + attachment.Extension()
	staged := filename + stagedSuffix
	if err := s.files.Write(community, category, staged, data); err != nil {
		return nil, false, err
	}

	asset := &database.Asset{
		Community: community,
		Category:  category.String(),
		Name:      name,
		Filename:  filename,
	}
	created, err := s.store.SaveAsset(ctx, asset)
	if err != nil {
		s.discardStaged(ctx, community, category, staged)
		return nil, false, err
	}

	if err := s.files.Rename(community, category, staged, filename); err != nil {
		s.discardStaged(ctx, community, category, staged)
		s.revertMapping(ctx, previous, asset)
		return nil, false, err
	}

	// An overwrite with a different extension leaves the old file behind.
	if previous != nil && previous.Filename != filename {
		if err := s.files.Remove(community, category, previous.Filename); err != nil && !errors.Is(err, ErrFileMissing) {
			s.logger.WarnContext(ctx, "Failed to remove replaced file", "filename", previous.Filename, "error", err)
		}
	}

	s.logger.InfoContext(ctx, "Saved asset",
		"community", community.String(),
		"category", category,
		"name", name,
		"filename", filename,
		"bytes", len(data),
		"created", created)
	return asset, created, nil
}

func (s *Service) discardStaged(ctx context.Context, community database.Community, category Category, staged string) {
	if err := s.files.Remove(community, category, staged); err != nil && !errors.Is(err, ErrFileMissing) {
		s.logger.WarnContext(ctx, "Failed to remove staged file", "filename", staged, "error", err)
	}
}

// revertMapping restores the mapping that existed before a failed Add.
func (s *Service) revertMapping(ctx context.Context, previous, attempted *database.Asset) {
	var err error
	if previous != nil {
		_, err = s.store.SaveAsset(ctx, previous)
	} else {
		_, err = s.store.DeleteAsset(ctx, attempted.Community, attempted.Category, attempted.Name)
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to restore asset mapping", "name", attempted.Name, "error", err)
	}
}

// Remove deletes the mapping and every schedule entry that references name,
// then the stored file. A file already missing from disk is logged and tolerated.
func (s *Service) Remove(ctx context.Context, community database.Community, category Category, name string) (*RemoveResult, error) {
	asset, err := s.Get(ctx, community, category, name)
	if err != nil {
		return nil, err
	}

	dates, err := s.store.DeleteAsset(ctx, community, category.String(), name)
	if errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s %q", ErrNameNotFound, category, name)
	}
	if err != nil {
		return nil, err
	}
	for _, d := range dates {
		s.logger.DebugContext(ctx, "Removed date pointing at deleted asset", "date_key", d, "name", name)
	}

	result := &RemoveResult{Asset: *asset, UnscheduledDates: dates}
	if err := s.files.Remove(community, category, asset.Filename); err != nil {
		if !errors.Is(err, ErrFileMissing) {
			s.logger.ErrorContext(ctx, "Failed to remove file of deleted asset", "filename", asset.Filename, "error", err)
			return result, nil
		}
		s.logger.ErrorContext(ctx, "File does not exist", "path", s.files.Path(community, category, asset.Filename))
		result.FileMissing = true
	}
	return result, nil
}

// List returns the schedule entries sorted by date key and the assets that
// have no schedule entry.
func (s *Service) List(ctx context.Context, community database.Community, category Category) (*Listing, error) {
	assets, err := s.store.ListAssets(ctx, community, category.String())
	if err != nil {
		return nil, err
	}
	schedules, err := s.store.ListSchedules(ctx, community, category.String())
	if err != nil {
		return nil, err
	}

	listing := &Listing{Assets: assets}
	assigned := make(map[string]bool, len(schedules))
	for _, sch := range schedules {
		human, err := HumanDate(sch.DateKey)
		if err != nil {
			s.logger.WarnContext(ctx, "Skipping schedule with malformed date key", "date_key", sch.DateKey)
			continue
		}
		listing.Entries = append(listing.Entries, ScheduleEntry{
			DateKey:   sch.DateKey,
			HumanDate: human,
			AssetName: sch.AssetName,
		})
		assigned[sch.AssetName] = true
	}
	for _, a := range assets {
		if !assigned[a.Name] {
			listing.Unassigned = append(listing.Unassigned, a.Name)
		}
	}
	return listing, nil
}

// SetDate schedules name on the given month and day, replacing any entry for that date.
func (s *Service) SetDate(ctx context.Context, community database.Community, category Category, month, day int, name string) (string, error) {
	key, err := DateKey(month, day)
	if err != nil {
		return "", err
	}

	err = s.store.SaveSchedule(ctx, &database.Schedule{
		Community: community,
		Category:  category.String(),
		DateKey:   key,
		AssetName: name,
	})
	if errors.Is(err, database.ErrNotFound) {
		return "", fmt.Errorf("%w: %s %q", ErrNameNotFound, category, name)
	}
	if err != nil {
		return "", err
	}

	s.logger.InfoContext(ctx, "Scheduled asset", "community", community.String(), "category", category, "date_key", key, "name", name)
	return key, nil
}

// ResetDate removes the entry for the given month and day, or returns ErrNothingScheduled.
func (s *Service) ResetDate(ctx context.Context, community database.Community, category Category, month, day int) (string, error) {
	key, err := DateKey(month, day)
	if err != nil {
		return "", err
	}

	err = s.store.DeleteSchedule(ctx, community, category.String(), key)
	if errors.Is(err, database.ErrNotFound) {
		return key, fmt.Errorf("%w: %s", ErrNothingScheduled, key)
	}
	if err != nil {
		return "", err
	}

	s.logger.InfoContext(ctx, "Removed scheduled date", "community", community.String(), "category", category, "date_key", key)
	return key, nil
}

// Due returns every scheduled asset for the calendar day of t.
func (s *Service) Due(ctx context.Context, t time.Time) ([]database.DueAsset, error) {
	return s.store.ListDueAssets(ctx, DateKeyFor(t))
}
