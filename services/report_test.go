package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/beyondstorage/cleanup-repos/model"
)

type fakeArchiver struct {
	fail  map[string]bool
	calls []string
}

func (f *fakeArchiver) ArchiveRepo(_ context.Context, repo string) (string, error) {
	f.calls = append(f.calls, repo)
	if f.fail[repo] {
		return "", errors.New("boom")
	}
	return fmt.Sprintf("https://github.com/hmcts/%s", repo), nil
}

func candidates(names ...string) model.Repositories {
	rs := make(model.Repositories, 0, len(names))
	for _, v := range names {
		rs = append(rs, model.Repository{Name: v})
	}
	return rs
}

func TestReportNothingToDo(t *testing.T) {
	a := &fakeArchiver{}
	b := &bytes.Buffer{}

	stat := Report(context.Background(), b, zap.NewNop(), a, nil, false)
	assert.True(t, stat.IsBlank())
	assert.Contains(t, b.String(), "nothing to archive")
	assert.Empty(t, a.calls)
}

func TestReportDryRunNeverArchives(t *testing.T) {
	a := &fakeArchiver{}
	b := &bytes.Buffer{}

	stat := Report(context.Background(), b, zap.NewNop(), a, candidates("apple", "Zebra"), true)
	assert.Empty(t, a.calls)
	assert.Equal(t, model.Summary{DryRun: true, Candidates: 2}, stat)
	assert.Equal(t, "In-active repositories: 2\n\n"+
		"apple\nWould archive: apple\n"+
		"Zebra\nWould archive: Zebra\n", b.String())
}

func TestReportIsolatesFailures(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	a := &fakeArchiver{fail: map[string]bool{"second": true}}
	b := &bytes.Buffer{}

	stat := Report(context.Background(), b, zap.New(core), a, candidates("first", "second", "third"), false)

	assert.Equal(t, []string{"first", "second", "third"}, a.calls)
	assert.Equal(t, model.Summary{Candidates: 3, Archived: 2, Failed: 1}, stat)
	assert.Contains(t, b.String(), "Archived https://github.com/hmcts/first\n")
	assert.Contains(t, b.String(), "Failed to archive second: boom\n")
	assert.Contains(t, b.String(), "Archived https://github.com/hmcts/third\n")

	archived := logs.FilterMessage("archived repo").All()
	if assert.Len(t, archived, 2) {
		assert.Equal(t, "first", archived[0].ContextMap()["repo"])
		assert.Equal(t, "third", archived[1].ContextMap()["repo"])
	}
	failed := logs.FilterMessage("archive repo").All()
	if assert.Len(t, failed, 1) {
		assert.Equal(t, "second", failed[0].ContextMap()["repo"])
	}
}
