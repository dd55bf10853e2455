// Package screening is the live-session screen: it hosts the trial
// orchestrator, renders its presentation callbacks, and forwards key
// events as responses.
package screening

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/lexiscreen/internal/catalog"
	"github.com/abhisek/lexiscreen/internal/metrics"
	"github.com/abhisek/lexiscreen/internal/router"
	"github.com/abhisek/lexiscreen/internal/screen"
	engine "github.com/abhisek/lexiscreen/internal/screening"
	"github.com/abhisek/lexiscreen/internal/screens/results"
	"github.com/abhisek/lexiscreen/internal/store"
	"github.com/abhisek/lexiscreen/internal/ui/components"
	"github.com/abhisek/lexiscreen/internal/ui/layout"
)

// tickInterval paces the orchestrator clock. Flash phases are the
// shortest timed window (250ms), so 50ms keeps their jitter invisible.
const tickInterval = 50 * time.Millisecond

// ScreeningScreen implements screen.Screen for a running session.
type ScreeningScreen struct {
	orch        *engine.Orchestrator
	view        *viewState
	st          *store.Store
	participant string

	list        components.OptionList
	listVersion int

	showingQuitConfirm bool
	saving             bool
	saveErr            error
}

var _ screen.Screen = (*ScreeningScreen)(nil)
var _ screen.KeyHintProvider = (*ScreeningScreen)(nil)

// New builds a session over the given battery. st may be nil (the run is
// then not persisted); speaker must not be nil.
func New(tasks []catalog.TaskDefinition, st *store.Store, speaker engine.Speaker, cfg engine.Config, participant string) *ScreeningScreen {
	view := &viewState{}
	agg := metrics.NewAggregator(participant)
	orch := engine.New(tasks, agg, presenter{v: view}, speaker, cfg, nil)
	return &ScreeningScreen{
		orch:        orch,
		view:        view,
		st:          st,
		participant: participant,
	}
}

func (s *ScreeningScreen) Init() tea.Cmd {
	s.orch.Begin()
	return tickCmd()
}

func (s *ScreeningScreen) Title() string {
	if task := s.orch.CurrentTask(); task != nil {
		return task.Title
	}
	return "Screening"
}

func (s *ScreeningScreen) KeyHints() []layout.KeyHint {
	if s.showingQuitConfirm {
		return []layout.KeyHint{
			{Key: "Y", Description: "Stop session"},
			{Key: "N", Description: "Keep going"},
		}
	}
	switch s.orch.State() {
	case engine.StateInstructions:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Start"},
			{Key: "Esc", Description: "Stop"},
		}
	case engine.StateAwaiting:
		return []layout.KeyHint{
			{Key: "1-9", Description: "Choose"},
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Answer"},
		}
	}
	return []layout.KeyHint{
		{Key: "Esc", Description: "Stop"},
	}
}

func (s *ScreeningScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		return s.handleTick()

	case saveDoneMsg:
		s.saving = false
		s.saveErr = msg.Err
		return s, s.pushResults()

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *ScreeningScreen) handleTick() (screen.Screen, tea.Cmd) {
	s.orch.Tick(time.Now())

	f := s.view.frame()
	if f.finished {
		if s.st == nil {
			return s, s.pushResults()
		}
		if !s.saving {
			s.saving = true
			return s, s.saveSession(f.snapshot)
		}
		return s, tickCmd()
	}

	s.syncOptions(f)
	return s, tickCmd()
}

func (s *ScreeningScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.showingQuitConfirm {
		switch key {
		case "y", "Y":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "n", "N", "esc":
			s.showingQuitConfirm = false
		}
		return s, nil
	}

	if key == "esc" {
		if s.orch.State() != engine.StateFinished {
			s.showingQuitConfirm = true
		}
		return s, nil
	}

	switch s.orch.State() {
	case engine.StateInstructions:
		if key == "enter" || key == "space" {
			s.orch.Acknowledge()
		}

	case engine.StateAwaiting:
		f := s.view.frame()
		s.syncOptions(f)
		var chosen string
		s.list, chosen = s.list.Update(msg)
		if chosen != "" {
			for i, label := range f.optionLabels {
				if label == chosen {
					s.orch.Submit(f.optionValues[i])
					break
				}
			}
		}
	}

	return s, nil
}

// syncOptions rebuilds the selector whenever the presenter swapped the
// option set.
func (s *ScreeningScreen) syncOptions(f frame) {
	if f.optionsVersion == s.listVersion {
		return
	}
	s.listVersion = f.optionsVersion
	s.list = components.NewOptionList(f.optionLabels)
}

// saveSession persists the finished run off the render loop.
func (s *ScreeningScreen) saveSession(snapshot metrics.SessionData) tea.Cmd {
	st := s.st
	return func() tea.Msg {
		return saveDoneMsg{Err: st.SaveSession(context.Background(), snapshot)}
	}
}

// pushResults swaps this screen for the results view, so Esc from there
// returns home rather than into a finished session.
func (s *ScreeningScreen) pushResults() tea.Cmd {
	snapshot := s.view.frame().snapshot
	saveErr := s.saveErr
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: results.New(snapshot, saveErr)}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
