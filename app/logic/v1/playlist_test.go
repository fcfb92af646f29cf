package v1

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modlearn/modlearn/pkg/errors"
	"github.com/modlearn/modlearn/pkg/i18n"
	"github.com/modlearn/modlearn/pkg/types"
)

func newPlaylistTestEnv(t *testing.T) (*memProvider, *PlaylistLogic, string) {
	provider := newMemProvider()
	c := newTestCore(provider, &fakeStorage{exists: true})
	logic := NewPlaylistLogic(ctxWithUser("creator-1", types.USER_ROLE_CREATOR), c)

	content := NewContentLogic(ctxWithUser("creator-1", types.USER_ROLE_CREATOR), c)
	contentID, err := content.CreateContent(CreateContentArgs{
		Title:       "episode source",
		ContentType: types.CONTENT_TYPE_EPISODE,
	})
	require.NoError(t, err)

	return provider, logic, contentID
}

func Test_CreatePlaylist(t *testing.T) {
	provider, logic, _ := newPlaylistTestEnv(t)

	id, err := logic.CreatePlaylist(CreatePlaylistArgs{
		Title:    "Go course",
		IsSeries: true,
		Price:    4990,
	})
	require.NoError(t, err)

	playlist, err := provider.PlaylistStore().Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "creator-1", playlist.CreatorID)
	assert.Equal(t, "USD", playlist.Currency)
}

func Test_AddEpisode(t *testing.T) {
	_, logic, contentID := newPlaylistTestEnv(t)

	playlistID, err := logic.CreatePlaylist(CreatePlaylistArgs{Title: "series", IsSeries: true})
	require.NoError(t, err)

	_, err = logic.AddEpisode(playlistID, AddEpisodeArgs{
		ContentID:     contentID,
		EpisodeOrder:  1,
		SeasonNumber:  1,
		EpisodeNumber: 1,
	})
	require.NoError(t, err)

	detail, err := logic.GetWithEpisodes(playlistID)
	require.NoError(t, err)
	require.Len(t, detail.Episodes, 1)
	assert.Equal(t, contentID, detail.Episodes[0].ContentID)
}

// 同一顺序号不允许占用两次
func Test_AddEpisode_OrderTaken(t *testing.T) {
	_, logic, contentID := newPlaylistTestEnv(t)

	playlistID, err := logic.CreatePlaylist(CreatePlaylistArgs{Title: "series"})
	require.NoError(t, err)

	_, err = logic.AddEpisode(playlistID, AddEpisodeArgs{ContentID: contentID, EpisodeOrder: 1})
	require.NoError(t, err)

	_, err = logic.AddEpisode(playlistID, AddEpisodeArgs{ContentID: contentID, EpisodeOrder: 1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, i18n.ERROR_EPISODE_ORDER_TAKEN))
	assert.Equal(t, http.StatusConflict, err.(*errors.CustomizedError).GetCode())
}

func Test_AddEpisode_ContentMissing(t *testing.T) {
	_, logic, _ := newPlaylistTestEnv(t)

	playlistID, err := logic.CreatePlaylist(CreatePlaylistArgs{Title: "series"})
	require.NoError(t, err)

	_, err = logic.AddEpisode(playlistID, AddEpisodeArgs{ContentID: "no-such-content", EpisodeOrder: 1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, i18n.ERROR_NOT_FOUND))
}

// 非创建者不能改别人的播放列表，管理员可以
func Test_Playlist_Ownership(t *testing.T) {
	provider, logic, _ := newPlaylistTestEnv(t)

	playlistID, err := logic.CreatePlaylist(CreatePlaylistArgs{Title: "mine"})
	require.NoError(t, err)

	c := newTestCore(provider, &fakeStorage{})
	stranger := NewPlaylistLogic(ctxWithUser("creator-2", types.USER_ROLE_CREATOR), c)
	err = stranger.UpdatePlaylist(playlistID, "hijacked", "", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, i18n.ERROR_FORBIDDEN))

	admin := NewPlaylistLogic(ctxWithUser("admin-1", types.USER_ROLE_ADMIN), c)
	require.NoError(t, admin.UpdatePlaylist(playlistID, "moderated", "", ""))
}

func Test_DeletePlaylist_RemovesEpisodes(t *testing.T) {
	provider, logic, contentID := newPlaylistTestEnv(t)

	playlistID, err := logic.CreatePlaylist(CreatePlaylistArgs{Title: "series"})
	require.NoError(t, err)
	_, err = logic.AddEpisode(playlistID, AddEpisodeArgs{ContentID: contentID, EpisodeOrder: 1})
	require.NoError(t, err)

	require.NoError(t, logic.DeletePlaylist(playlistID))

	_, err = provider.PlaylistStore().Get(context.Background(), playlistID)
	assert.Error(t, err)

	episodes, err := provider.PlaylistEpisodeStore().ListByPlaylist(context.Background(), playlistID)
	require.NoError(t, err)
	assert.Empty(t, episodes)

	// 单集引用的内容本体不受影响
	_, err = provider.ContentStore().GetContent(context.Background(), contentID)
	assert.NoError(t, err)
}
