package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handiism/audiograb/internal/config"
	"github.com/handiism/audiograb/internal/model"
	"github.com/handiism/audiograb/internal/progress"
)

func press(t *testing.T, m Model, key tea.KeyType) Model {
	t.Helper()
	next, _ := m.Update(tea.KeyMsg{Type: key})
	return next.(Model)
}

func typeURL(t *testing.T, m Model, url string) Model {
	t.Helper()
	m.textInput.SetValue(url)
	return press(t, m, tea.KeyEnter)
}

func TestModel_QueueAndOptions(t *testing.T) {
	m := NewModel(config.DefaultSettings(), nil)

	m = typeURL(t, m, "https://soundcloud.com/a/b")
	m = typeURL(t, m, "  https://archive.org/details/x   https://x.bandcamp.com/album/y ")
	m = press(t, m, tea.KeyCtrlS)
	m = press(t, m, tea.KeyTab)
	m = press(t, m, tea.KeyCtrlP)
	m = press(t, m, tea.KeyCtrlL)

	assert.Equal(t, StateInput, m.state)
	assert.Equal(t, []string{
		"https://soundcloud.com/a/b",
		"https://archive.org/details/x",
		"https://x.bandcamp.com/album/y",
	}, m.queue)
	assert.Empty(t, m.textInput.Value())
	assert.True(t, m.scrape)
	assert.Equal(t, sourceHints[1], sourceHints[m.sourceIdx])
	assert.True(t, m.playlist)
	assert.True(t, m.verbose)

	m = press(t, m, tea.KeyCtrlD)
	assert.Len(t, m.queue, 2)
}

func TestModel_SourceCycleWraps(t *testing.T) {
	m := NewModel(nil, nil)
	for range sourceHints {
		m = press(t, m, tea.KeyTab)
	}
	assert.Equal(t, model.SourceAuto, sourceHints[m.sourceIdx])
}

func TestModel_EnterOnEmptyQueueDoesNothing(t *testing.T) {
	m := press(t, NewModel(nil, nil), tea.KeyEnter)
	assert.Equal(t, StateInput, m.state)
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func startedModel(t *testing.T, urls ...string) Model {
	t.Helper()
	m := NewModel(config.DefaultSettings(), nil)
	for _, u := range urls {
		m = typeURL(t, m, u)
	}
	m = press(t, m, tea.KeyEnter)
	require.Equal(t, StateDownloading, m.state)
	require.NotNil(t, m.events)
	return m
}

func TestModel_StartAndComplete(t *testing.T) {
	m := startedModel(t, "https://soundcloud.com/a/b")

	job := model.NewJob("https://soundcloud.com/a/b", false, model.SourceAuto)
	m = update(t, m, ProgressMsg{Gen: m.gen, Event: progress.Event{Message: "Downloading", Level: progress.LevelInfo, JobID: job.ID}})
	m = update(t, m, ProgressMsg{Gen: m.gen, Event: progress.Event{Message: "hidden", Level: progress.LevelVerbose, JobID: job.ID}})

	require.Len(t, m.logs, 1)
	assert.Equal(t, "Downloading", m.logs[0].Message)
	assert.Len(t, m.jobIDs, 1)

	m = update(t, m, BatchDoneMsg{Gen: m.gen, Outcomes: []model.Outcome{
		{Job: job, SourceType: model.SourceSoundCloud, Success: true, Tracks: []*model.Track{{Title: "b"}}},
	}})
	assert.Equal(t, StateDownloading, m.state, "queued events are still shown")

	m = update(t, m, ProgressMsg{Gen: m.gen, Event: progress.Event{Message: "Finished", Level: progress.LevelSuccess, JobID: job.ID}})
	m = update(t, m, EventsClosedMsg{Gen: m.gen})

	assert.Equal(t, StateComplete, m.state)
	assert.Equal(t, "Finished", m.logs[len(m.logs)-1].Message)
	assert.Contains(t, m.View(), "https://soundcloud.com/a/b")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	m = next.(Model)
	assert.Equal(t, StateInput, m.state)
	assert.Empty(t, m.queue)
	assert.NotNil(t, cmd)
}

func TestModel_EventsClosedBeforeBatchDone(t *testing.T) {
	m := startedModel(t, "https://soundcloud.com/a/b")

	m = update(t, m, EventsClosedMsg{Gen: m.gen})
	assert.Equal(t, StateDownloading, m.state)

	m = update(t, m, BatchDoneMsg{Gen: m.gen})
	assert.Equal(t, StateComplete, m.state)
}

func TestModel_LateMessagesAfterReset(t *testing.T) {
	m := startedModel(t, "https://soundcloud.com/a/b")
	oldGen := m.gen
	m = update(t, m, BatchDoneMsg{Gen: oldGen})
	m = update(t, m, EventsClosedMsg{Gen: oldGen})
	require.Equal(t, StateComplete, m.state)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	require.Equal(t, StateInput, m.state)

	assert.NotPanics(t, func() {
		m = update(t, m, ProgressMsg{Gen: oldGen, Event: progress.Event{Message: "late", Level: progress.LevelInfo, JobID: "late"}})
	})
	m = update(t, m, BatchDoneMsg{Gen: oldGen, Err: errors.New("late")})
	m = update(t, m, EventsClosedMsg{Gen: oldGen})

	assert.Equal(t, StateInput, m.state)
	assert.Empty(t, m.logs)
	assert.Nil(t, m.jobIDs)
	assert.NoError(t, m.err)
}

func TestModel_LateMessagesDuringNextBatch(t *testing.T) {
	m := startedModel(t, "https://soundcloud.com/a/b")
	oldGen := m.gen
	m = update(t, m, BatchDoneMsg{Gen: oldGen})
	m = update(t, m, EventsClosedMsg{Gen: oldGen})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	m = typeURL(t, m, "https://bandcamp.com/x")
	m = press(t, m, tea.KeyEnter)
	require.Equal(t, StateDownloading, m.state)

	m = update(t, m, ProgressMsg{Gen: oldGen, Event: progress.Event{Message: "stale", JobID: "old"}})
	m = update(t, m, BatchDoneMsg{Gen: oldGen})
	m = update(t, m, EventsClosedMsg{Gen: oldGen})

	assert.Equal(t, StateDownloading, m.state)
	assert.Empty(t, m.logs)
	assert.Empty(t, m.jobIDs)
	assert.NotNil(t, m.events)
}

func TestModel_BatchError(t *testing.T) {
	m := startedModel(t, "https://soundcloud.com/a/b")

	m = update(t, m, BatchDoneMsg{Gen: m.gen, Err: errors.New("create output directory: permission denied")})
	m = update(t, m, EventsClosedMsg{Gen: m.gen})

	assert.Equal(t, StateError, m.state)
	assert.Contains(t, m.View(), "permission denied")
}

func TestRunBatchCmd_StreamsEvents(t *testing.T) {
	var gotSettings *config.Settings
	var gotJobs []model.Job
	run := func(_ context.Context, s *config.Settings, jobs []model.Job, onProgress progress.Func) ([]model.Outcome, error) {
		gotSettings = s
		gotJobs = jobs
		onProgress(progress.Event{Message: "one"})
		onProgress(progress.Event{Message: "two"})
		return []model.Outcome{{Job: jobs[0], Success: true}}, nil
	}
	settings := config.DefaultSettings()
	settings.CreatePlaylist = true
	jobs := model.NewJobs([]string{"https://bandcamp.com/a"}, true, model.SourceBandcamp)
	events := make(chan progress.Event, 4)

	msg := runBatchCmd(context.Background(), 7, run, settings, jobs, events)()

	done, ok := msg.(BatchDoneMsg)
	require.True(t, ok)
	require.NoError(t, done.Err)
	assert.Equal(t, 7, done.Gen)
	assert.Len(t, done.Outcomes, 1)
	assert.Same(t, settings, gotSettings)
	assert.Equal(t, jobs, gotJobs)

	assert.Equal(t, ProgressMsg{Gen: 7, Event: progress.Event{Message: "one"}}, waitForEvent(7, events)())
	assert.Equal(t, ProgressMsg{Gen: 7, Event: progress.Event{Message: "two"}}, waitForEvent(7, events)())
	assert.Equal(t, EventsClosedMsg{Gen: 7}, waitForEvent(7, events)())
}
