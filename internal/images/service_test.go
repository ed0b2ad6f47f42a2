package images_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/servermanage/internal/database"
	"github.com/edgard/servermanage/internal/images"
)

var guild = database.Community{Platform: "discord", CommunityID: "1001"}

type fixture struct {
	svc   *images.Service
	fs    afero.Fs
	files *images.FileStore
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	db, err := database.NewDB(filepath.Join(t.TempDir(), "images.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.CloseDB(db) })

	fsys := afero.NewMemMapFs()
	files := images.NewFileStore(fsys, "/data")
	return fixture{
		svc:   images.NewService(database.NewStore(db, nil), files, nil),
		fs:    fsys,
		files: files,
	}
}

func pngAttachment(name string, data []byte) images.Attachment {
	return images.Attachment{
		Filename: name,
		Width:    200,
		Height:   200,
		Fetch: func(context.Context) ([]byte, error) {
			return data, nil
		},
	}
}

func TestValidateAttachments(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		attachments []images.Attachment
		wantErr     error
	}{
		{"none", nil, images.ErrInvalidAttachmentCount},
		{"two", []images.Attachment{pngAttachment("a.png", nil), pngAttachment("b.png", nil)}, images.ErrInvalidAttachmentCount},
		{"no dimensions", []images.Attachment{{Filename: "a.png"}}, images.ErrNotAnImage},
		{"jpeg", []images.Attachment{pngAttachment("a.jpg", nil)}, images.ErrUnsupportedImageFormat},
		{"no extension", []images.Attachment{pngAttachment("a", nil)}, images.ErrUnsupportedImageFormat},
		{"png", []images.Attachment{pngAttachment("a.png", nil)}, nil},
		{"upper case gif", []images.Attachment{pngAttachment("A.GIF", nil)}, nil},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := images.ValidateAttachments(tt.attachments)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateName(t *testing.T) {
	t.Parallel()

	assert.NoError(t, images.ValidateName("winter"))
	assert.ErrorIs(t, images.ValidateName(""), images.ErrInvalidName)
	assert.ErrorIs(t, images.ValidateName(".."), images.ErrInvalidName)
	assert.ErrorIs(t, images.ValidateName("../etc"), images.ErrInvalidName)
	assert.ErrorIs(t, images.ValidateName(`a\b`), images.ErrInvalidName)
}

func TestService_AddStoresFileAndMapping(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	asset, created, err := f.svc.Add(ctx, guild, images.CategoryIcon, "winter", pngAttachment("Snow.PNG", []byte("winter-bytes")))
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "winter.png", asset.Filename)

	data, err := afero.ReadFile(f.fs, "/data/discord/1001/icons/winter.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("winter-bytes"), data)

	got, data, err := f.svc.Open(ctx, guild, images.CategoryIcon, "winter")
	require.NoError(t, err)
	assert.Equal(t, "winter", got.Name)
	assert.Equal(t, []byte("winter-bytes"), data)
}

func TestService_AddRejectsNonImageWithoutWriting(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	att := images.Attachment{
		Filename: "notes.png",
		Fetch: func(context.Context) ([]byte, error) {
			t.Fatal("fetch must not be called for a rejected attachment")
			return nil, nil
		},
	}
	_, _, err := f.svc.Add(ctx, guild, images.CategoryIcon, "notes", att)
	require.ErrorIs(t, err, images.ErrNotAnImage)

	exists, err := f.svc.Exists(ctx, guild, images.CategoryIcon, "notes")
	require.NoError(t, err)
	assert.False(t, exists)

	dirExists, err := afero.DirExists(f.fs, f.files.Dir(guild, images.CategoryIcon))
	require.NoError(t, err)
	assert.False(t, dirExists)
}

func TestService_AddFetchFailureLeavesNothing(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	att := pngAttachment("a.png", nil)
	att.Fetch = func(context.Context) ([]byte, error) { return nil, errors.New("network down") }

	_, _, err := f.svc.Add(ctx, guild, images.CategoryBanner, "a", att)
	require.Error(t, err)

	exists, err := f.svc.Exists(ctx, guild, images.CategoryBanner, "a")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestService_OverwriteWithNewExtensionRemovesOldFile(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	_, _, err := f.svc.Add(ctx, guild, images.CategoryIcon, "winter", pngAttachment("w.png", []byte("png")))
	require.NoError(t, err)
	asset, created, err := f.svc.Add(ctx, guild, images.CategoryIcon, "winter", pngAttachment("w.gif", []byte("gif")))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "winter.gif", asset.Filename)

	exists, err := afero.Exists(f.fs, "/data/discord/1001/icons/winter.png")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestService_SetDateListResetRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	_, _, err := f.svc.Add(ctx, guild, images.CategoryIcon, "winter", pngAttachment("w.png", []byte("w")))
	require.NoError(t, err)
	_, _, err = f.svc.Add(ctx, guild, images.CategoryIcon, "spare", pngAttachment("s.png", []byte("s")))
	require.NoError(t, err)

	key, err := f.svc.SetDate(ctx, guild, images.CategoryIcon, 12, 25, "winter")
	require.NoError(t, err)
	assert.Equal(t, "12-25", key)

	listing, err := f.svc.List(ctx, guild, images.CategoryIcon)
	require.NoError(t, err)
	require.Len(t, listing.Entries, 1)
	assert.Equal(t, "12-25", listing.Entries[0].DateKey)
	assert.Equal(t, []string{"December 25: winter", "Unassigned: spare"}, listing.Lines())

	_, err = f.svc.ResetDate(ctx, guild, images.CategoryIcon, 12, 25)
	require.NoError(t, err)

	listing, err = f.svc.List(ctx, guild, images.CategoryIcon)
	require.NoError(t, err)
	assert.Empty(t, listing.Entries)
	assert.Equal(t, []string{"spare", "winter"}, listing.Unassigned)

	_, err = f.svc.ResetDate(ctx, guild, images.CategoryIcon, 12, 25)
	require.ErrorIs(t, err, images.ErrNothingScheduled)
}

func TestService_SetDateValidation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.SetDate(ctx, guild, images.CategoryIcon, 2, 30, "winter")
	require.ErrorIs(t, err, images.ErrInvalidCalendarDate)

	_, err = f.svc.SetDate(ctx, guild, images.CategoryIcon, 2, 29, "winter")
	require.ErrorIs(t, err, images.ErrNameNotFound)

	_, err = f.svc.ResetDate(ctx, guild, images.CategoryIcon, 13, 1)
	require.ErrorIs(t, err, images.ErrInvalidCalendarDate)
}

func TestService_RemoveCascadesAndToleratesMissingFile(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	_, _, err := f.svc.Add(ctx, guild, images.CategoryIcon, "winter", pngAttachment("w.png", []byte("w")))
	require.NoError(t, err)
	_, _, err = f.svc.Add(ctx, guild, images.CategoryIcon, "summer", pngAttachment("s.png", []byte("s")))
	require.NoError(t, err)
	for _, d := range [][2]int{{12, 25}, {1, 1}} {
		_, err = f.svc.SetDate(ctx, guild, images.CategoryIcon, d[0], d[1], "winter")
		require.NoError(t, err)
	}
	_, err = f.svc.SetDate(ctx, guild, images.CategoryIcon, 6, 21, "summer")
	require.NoError(t, err)

	require.NoError(t, f.fs.Remove("/data/discord/1001/icons/winter.png"))

	result, err := f.svc.Remove(ctx, guild, images.CategoryIcon, "winter")
	require.NoError(t, err)
	assert.True(t, result.FileMissing)
	assert.Equal(t, []string{"01-01", "12-25"}, result.UnscheduledDates)

	listing, err := f.svc.List(ctx, guild, images.CategoryIcon)
	require.NoError(t, err)
	assert.Equal(t, []string{"June 21: summer"}, listing.Lines())

	_, err = f.svc.Remove(ctx, guild, images.CategoryIcon, "winter")
	require.ErrorIs(t, err, images.ErrNameNotFound)
}

func TestService_OpenReportsMissingFile(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	_, _, err := f.svc.Add(ctx, guild, images.CategoryBanner, "lights", pngAttachment("l.gif", []byte("l")))
	require.NoError(t, err)
	require.NoError(t, f.fs.Remove("/data/discord/1001/banners/lights.gif"))

	asset, _, err := f.svc.Open(ctx, guild, images.CategoryBanner, "lights")
	require.ErrorIs(t, err, images.ErrFileMissing)
	require.NotNil(t, asset)

	_, _, err = f.svc.Open(ctx, guild, images.CategoryBanner, "nope")
	require.ErrorIs(t, err, images.ErrNameNotFound)
}

func TestService_Due(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	_, _, err := f.svc.Add(ctx, guild, images.CategoryIcon, "winter", pngAttachment("w.png", []byte("w")))
	require.NoError(t, err)
	_, err = f.svc.SetDate(ctx, guild, images.CategoryIcon, 12, 25, "winter")
	require.NoError(t, err)

	due, err := f.svc.Due(ctx, time.Date(2031, time.December, 25, 9, 0, 0, 0, time.Local))
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "winter.png", due[0].Filename)

	due, err = f.svc.Due(ctx, time.Date(2031, time.December, 26, 9, 0, 0, 0, time.Local))
	require.NoError(t, err)
	assert.Empty(t, due)
}

// failingStore wraps a real store and fails asset writes once armed.
type failingStore struct {
	database.Store
	failSave   bool
	failDelete bool
}

var errStoreDown = errors.New("database is locked")

func (s *failingStore) SaveAsset(ctx context.Context, asset *database.Asset) (bool, error) {
	if s.failSave {
		return false, errStoreDown
	}
	return s.Store.SaveAsset(ctx, asset)
}

func (s *failingStore) DeleteAsset(ctx context.Context, community database.Community, category, name string) ([]string, error) {
	if s.failDelete {
		return nil, errStoreDown
	}
	return s.Store.DeleteAsset(ctx, community, category, name)
}

func newFailingFixture(t *testing.T) (fixture, *failingStore) {
	t.Helper()

	db, err := database.NewDB(filepath.Join(t.TempDir(), "images.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.CloseDB(db) })

	store := &failingStore{Store: database.NewStore(db, nil)}
	fsys := afero.NewMemMapFs()
	files := images.NewFileStore(fsys, "/data")
	return fixture{
		svc:   images.NewService(store, files, nil),
		fs:    fsys,
		files: files,
	}, store
}

func TestService_RemoveKeepsFileWhenDeleteFails(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f, store := newFailingFixture(t)

	_, _, err := f.svc.Add(ctx, guild, images.CategoryIcon, "winter", pngAttachment("w.png", []byte("winter-bytes")))
	require.NoError(t, err)

	store.failDelete = true
	_, err = f.svc.Remove(ctx, guild, images.CategoryIcon, "winter")
	require.ErrorIs(t, err, errStoreDown)

	_, data, err := f.svc.Open(ctx, guild, images.CategoryIcon, "winter")
	require.NoError(t, err)
	assert.Equal(t, []byte("winter-bytes"), data)
}

func TestService_OverwriteKeepsOriginalBytesWhenSaveFails(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f, store := newFailingFixture(t)

	_, _, err := f.svc.Add(ctx, guild, images.CategoryIcon, "winter", pngAttachment("w.png", []byte("original")))
	require.NoError(t, err)

	store.failSave = true
	_, _, err = f.svc.Add(ctx, guild, images.CategoryIcon, "winter", pngAttachment("w.png", []byte("replacement")))
	require.ErrorIs(t, err, errStoreDown)

	asset, data, err := f.svc.Open(ctx, guild, images.CategoryIcon, "winter")
	require.NoError(t, err)
	assert.Equal(t, "winter.png", asset.Filename)
	assert.Equal(t, []byte("original"), data)

	entries, err := afero.ReadDir(f.fs, f.files.Dir(guild, images.CategoryIcon))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "winter.png", entries[0].Name())
}

func TestService_AddLeavesNoFileWhenSaveFails(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f, store := newFailingFixture(t)

	store.failSave = true
	_, _, err := f.svc.Add(ctx, guild, images.CategoryBanner, "summer", pngAttachment("s.gif", []byte("gif")))
	require.ErrorIs(t, err, errStoreDown)

	exists, err := f.svc.Exists(ctx, guild, images.CategoryBanner, "summer")
	require.NoError(t, err)
	assert.False(t, exists)

	entries, err := afero.ReadDir(f.fs, f.files.Dir(guild, images.CategoryBanner))
	require.NoError(t, err)
	assert.Empty(t, entries)
}
