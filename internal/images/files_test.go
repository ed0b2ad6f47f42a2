package images_test

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/servermanage/internal/database"
	"github.com/edgard/servermanage/internal/images"
)

func TestFileStore_WriteReadRemove(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	files := images.NewFileStore(fsys, "/data")
	community := database.Community{Platform: "discord", CommunityID: "42"}

	assert.Equal(t, "/data/discord/42/banners", files.Dir(community, images.CategoryBanner))

	require.NoError(t, files.Write(community, images.CategoryIcon, "winter.png", []byte("one")))
	require.NoError(t, files.Write(community, images.CategoryIcon, "winter.png", []byte("two")))

	data, err := files.Read(community, images.CategoryIcon, "winter.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("two"), data)

	exists, err := afero.Exists(fsys, "/data/discord/42/icons/winter.png.tmp")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, files.Remove(community, images.CategoryIcon, "winter.png"))
	require.ErrorIs(t, files.Remove(community, images.CategoryIcon, "winter.png"), images.ErrFileMissing)

	_, err = files.Read(community, images.CategoryIcon, "winter.png")
	require.ErrorIs(t, err, images.ErrFileMissing)
}
