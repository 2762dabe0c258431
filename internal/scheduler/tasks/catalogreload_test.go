package tasks

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type fakeReloader struct {
	calls int
	n     int
	err   error
}

func (f *fakeReloader) Reload(ctx context.Context) (int, error) {
	f.calls++
	return f.n, f.err
}

func TestCatalogReloadTask_Run(t *testing.T) {
	reloader := &fakeReloader{n: 3}
	task := NewCatalogReloadTask(reloader, zerolog.Nop())

	assert.NoError(t, task.Run(context.Background()))
	assert.Equal(t, 1, reloader.calls)
}

func TestCatalogReloadTask_RunError(t *testing.T) {
	wantErr := errors.New("broken.json: malformed")
	reloader := &fakeReloader{n: 2, err: wantErr}
	task := NewCatalogReloadTask(reloader, zerolog.Nop())

	assert.ErrorIs(t, task.Run(context.Background()), wantErr)
}
