package output

import (
	"os"
	"path/filepath"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/listenupapp/repostmap/internal/errors"
)

func TestSafeName(t *testing.T) {
	tests := []struct {
		name  string
		issue string
		want  string
	}{
		{"short", "Climate", "Climate"},
		{"spaces", "Trade war", "Trade_war"},
		{"slash", "Trade/Tariffs", "Trade_Tariffs"},
		{
			"truncates before substituting",
			"Freedom of Speech / Censorship Debates in Asia-Pacific Region",
			"Freedom_of_Speech___Censorship_Debates_i",
		},
		{"exactly forty", "abcdefghijabcdefghijabcdefghijabcdefghij", "abcdefghijabcdefghijabcdefghijabcdefghij"},
		{"other characters kept", `Q&A: "why?" \ 100%`, `Q&A:_"why?"_\_100%`},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SafeName(tt.issue))
		})
	}
}

func TestSafeName_CountsCharactersNotBytes(t *testing.T) {
	issue := "Débat sur la liberté d'expression en Amérique latine"
	got := SafeName(issue)

	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, MaxNameRunes, utf8.RuneCountInString(got))
	assert.Equal(t, "Débat_sur_la_liberté_d'expression_en_Amé", got)
}

func TestNewStorage(t *testing.T) {
	t.Run("creates nested directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "output")

		storage, err := NewStorage(dir)
		require.NoError(t, err)
		assert.Equal(t, dir, storage.Dir())

		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("rejects empty path", func(t *testing.T) {
		storage, err := NewStorage("")
		assert.Nil(t, storage)
		assert.True(t, domainerrors.Is(err, domainerrors.ErrInvalidInput))
	})

	t.Run("fails when path is a file", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "taken")
		require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))

		_, err := NewStorage(file)
		assert.True(t, domainerrors.Is(err, domainerrors.ErrWrite))
	})
}

func TestStorage_Save(t *testing.T) {
	storage, err := NewStorage(t.TempDir())
	require.NoError(t, err)

	path, err := storage.Save("Trade / Tariffs", []byte("jpeg"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(storage.Dir(), "Trade___Tariffs.jpeg"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg"), data)
}

func TestStorage_SaveOverwritesCollisions(t *testing.T) {
	storage, err := NewStorage(t.TempDir())
	require.NoError(t, err)

	first, err := storage.Save("Trade/Tariffs", []byte("first"))
	require.NoError(t, err)
	second, err := storage.Save("Trade Tariffs", []byte("second"))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	data, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), data)
}

func TestStorage_SaveRecreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	storage, err := NewStorage(dir)
	require.NoError(t, err)
	require.NoError(t, os.RemoveAll(dir))

	path, err := storage.Save("Climate", []byte("jpeg"))
	require.NoError(t, err)
	assert.FileExists(t, path)
}

func TestStorage_SaveEmpty(t *testing.T) {
	storage, err := NewStorage(t.TempDir())
	require.NoError(t, err)

	_, err = storage.Save("Climate", nil)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrWrite))
	assert.NoFileExists(t, storage.Path("Climate"))
}
