package indexing

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tikblok/core/internal/models"
)

func catalog(n int) []models.Video {
	videos := make([]models.Video, n)
	for i := range videos {
		v := testVideo(fmt.Sprintf("v%d", i))
		v.Title = fmt.Sprintf("video %d", i)
		videos[i] = *v
	}
	return videos
}

func TestReindexAllProcessesEveryVideo(t *testing.T) {
	index := newFakeIndex()
	source := &fakeVideoSource{videos: catalog(250)}
	svc := newTestService(&fakeEmbedder{}, index, source)

	total, err := svc.ReindexAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 250, total)
	assert.Len(t, index.entries, 250)
	assert.Equal(t, 1, index.deleteAlls)
}

func TestReindexAllBatchesOfOneHundred(t *testing.T) {
	index := newFakeIndex()
	source := &fakeVideoSource{videos: catalog(250)}
	svc := newTestService(&fakeEmbedder{}, index, source)

	_, err := svc.ReindexAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []int{100, 100, 50}, index.batchSizes)
}

func TestReindexAllEmptyCatalog(t *testing.T) {
	index := newFakeIndex()
	svc := newTestService(&fakeEmbedder{}, index, &fakeVideoSource{})

	total, err := svc.ReindexAll(context.Background())
	require.NoError(t, err)

	assert.Zero(t, total)
	assert.Equal(t, 1, index.deleteAlls)
	assert.Empty(t, index.entries)
}

func TestReindexAllAbortsWhenWipeFails(t *testing.T) {
	index := newFakeIndex()
	index.wipeErr = errors.New("index unavailable")
	source := &fakeVideoSource{videos: catalog(5)}
	svc := newTestService(&fakeEmbedder{}, index, source)

	_, err := svc.ReindexAll(context.Background())
	require.Error(t, err)
	assert.Empty(t, index.entries)
	assert.Empty(t, index.batchSizes)
}

func TestReindexAllAbortsOnUpsertFailure(t *testing.T) {
	index := newFakeIndex()
	index.upsertErr = errors.New("write refused")
	source := &fakeVideoSource{videos: catalog(150)}
	svc := newTestService(&fakeEmbedder{}, index, source)

	_, err := svc.ReindexAll(context.Background())
	require.Error(t, err)
	assert.Empty(t, index.batchSizes)
}

func TestReindexAllPropagatesSourceError(t *testing.T) {
	source := &fakeVideoSource{err: errors.New("mongo down")}
	svc := newTestService(&fakeEmbedder{}, newFakeIndex(), source)

	_, err := svc.ReindexAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mongo down")
}
