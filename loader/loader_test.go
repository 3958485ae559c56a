package loader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"chip8/memory"

	"github.com/retroenv/retrogolib/assert"
)

func writeImage(t *testing.T, size int) string {
	t.Helper()
	buf := make([]byte, size)
	for i := range buf {
		buf[i] = byte(i)
	}
	path := filepath.Join(t.TempDir(), "test.ch8")
	assert.NoError(t, os.WriteFile(path, buf, 0o644))
	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		size        int
		wantSize    int
		wantDropped int
	}{
		{"empty image", 0, 0, 0},
		{"short image", 132, 132, 0},
		{"exact fit", memory.MaxProgramSize, memory.MaxProgramSize, 0},
		{"oversized image", memory.MaxProgramSize + 10, memory.MaxProgramSize, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeImage(t, tt.size)
			p, err := Load(path)
			assert.NoError(t, err)
			assert.Equal(t, path, p.Path)
			assert.Equal(t, tt.wantSize, p.Size())
			assert.Equal(t, tt.wantDropped, p.Dropped)
			if p.Size() > 1 {
				assert.Equal(t, byte(1), p.Data[1])
			}
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load("")
	assert.True(t, errors.Is(err, ErrEmptyPath))

	_, err = Load(filepath.Join(t.TempDir(), "missing.ch8"))
	assert.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
