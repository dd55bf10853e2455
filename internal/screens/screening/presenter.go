package screening

import (
	"sync"

	"github.com/abhisek/lexiscreen/internal/catalog"
	"github.com/abhisek/lexiscreen/internal/metrics"
	engine "github.com/abhisek/lexiscreen/internal/screening"
)

// frame is one consistent copy of the presentation surface, taken under
// the view lock and rendered without it.
type frame struct {
	showInstructions bool
	title            string
	instructions     string

	hasStimulus bool
	stimulus    engine.Stimulus

	// optionLabels render in the selector; optionValues are what Submit
	// receives. They differ only for the binary real/not-real choice.
	optionLabels   []string
	optionValues   []string
	optionsVersion int

	finished bool
	snapshot metrics.SessionData
}

// viewState is the shared surface between the orchestrator's presenter
// callbacks and the Bubble Tea render loop. Presenter calls can arrive
// from the speech completion goroutine, not just from Update, so every
// access goes through the mutex and the view repaints on the next tick.
type viewState struct {
	mu sync.Mutex
	f  frame
}

func (v *viewState) frame() frame {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.f
}

// presenter adapts viewState to the orchestrator's Presenter interface.
type presenter struct {
	v *viewState
}

func (p presenter) RenderInstructions(title, text string) error {
	p.v.mu.Lock()
	defer p.v.mu.Unlock()
	p.clearLocked()
	p.v.f.showInstructions = true
	p.v.f.title = title
	p.v.f.instructions = text
	return nil
}

func (p presenter) RenderStimulus(s engine.Stimulus) error {
	p.v.mu.Lock()
	defer p.v.mu.Unlock()
	p.v.f.showInstructions = false
	p.v.f.hasStimulus = true
	p.v.f.stimulus = s
	return nil
}

func (p presenter) RenderOptions(values []string) error {
	p.v.mu.Lock()
	defer p.v.mu.Unlock()
	p.v.f.optionLabels = append([]string(nil), values...)
	p.v.f.optionValues = append([]string(nil), values...)
	p.v.f.optionsVersion++
	return nil
}

func (p presenter) RenderBinaryChoice(stimulus string) error {
	p.v.mu.Lock()
	defer p.v.mu.Unlock()
	p.v.f.showInstructions = false
	p.v.f.hasStimulus = true
	p.v.f.stimulus = engine.Stimulus{Text: stimulus}
	p.v.f.optionLabels = []string{"Real word", "Not a real word"}
	p.v.f.optionValues = []string{catalog.ChoiceReal, catalog.ChoiceNotReal}
	p.v.f.optionsVersion++
	return nil
}

func (p presenter) ClearPresentation() error {
	p.v.mu.Lock()
	defer p.v.mu.Unlock()
	p.clearLocked()
	return nil
}

func (p presenter) SessionFinished(snapshot metrics.SessionData) {
	p.v.mu.Lock()
	defer p.v.mu.Unlock()
	p.clearLocked()
	p.v.f.finished = true
	p.v.f.snapshot = snapshot
}

func (p presenter) clearLocked() {
	p.v.f.showInstructions = false
	p.v.f.hasStimulus = false
	p.v.f.stimulus = engine.Stimulus{}
	p.v.f.optionLabels = nil
	p.v.f.optionValues = nil
	p.v.f.optionsVersion++
}
