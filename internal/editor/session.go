// Package editor holds the per-user image editor: the main, reference and
// result slots, catalog selections, undo history and the generate flow.
package editor

import (
	"fmt"
	"time"

	"codeberg.org/archviz/studio/internal/catalog"
	"codeberg.org/archviz/studio/internal/imageops"
	"codeberg.org/archviz/studio/internal/prompt"
	"codeberg.org/archviz/studio/internal/quota"
)

func newSession(identity Identity, deps *Deps) *Session {
	now := deps.now()

	return &Session{
		deps:         deps,
		identity:     identity,
		state:        StateIdle,
		selections:   DefaultSelections(),
		history:      newHistory(),
		tracker:      quota.NewTracker(identity.UserID, identity.IsAdmin),
		createdAt:    now,
		lastActivity: now,
	}
}

func (s *Session) Identity() Identity {
	return s.identity
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// replaces the image in a slot
func (s *Session) Upload(slot Slot, img *imageops.Image) error {
	if img == nil {
		return imageops.ErrEmptyImage
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.mutable(); err != nil {
		return err
	}

	switch slot {
	case SlotMain:
		s.main = img
		if s.result == nil {
			s.history.Reset(img)
		}
	case SlotReference:
		s.reference = img
	default:
		return fmt.Errorf("%w: %s", ErrInvalidSlot, slot)
	}

	s.settle()

	return nil
}

func (s *Session) Remove(slot Slot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.mutable(); err != nil {
		return err
	}

	switch slot {
	case SlotMain:
		s.main = nil
		if s.result == nil {
			s.history.Clear()
		}
	case SlotReference:
		s.reference = nil
	default:
		return fmt.Errorf("%w: %s", ErrInvalidSlot, slot)
	}

	s.settle()

	return nil
}

// validates and stores selections; returns the normalized value
func (s *Session) SetSelections(sel Selections) (Selections, error) {
	normalized, err := normalizeSelections(sel)
	if err != nil {
		return Selections{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.selections = normalized
	s.touch()

	return normalized, nil
}

func (s *Session) Selections() Selections {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.selections
}

// assembles the prompt for the current selections and images
func (s *Session) BuildPrompt() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.buildPrompt()
}

func (s *Session) buildPrompt() string {
	sel := s.selections

	return prompt.Build(prompt.Input{
		Category:          sel.Category,
		RenderStyle:       sel.RenderStyle,
		ArchStyle:         sel.ArchStyle,
		Scene:             sel.Scene,
		Room:              sel.Room,
		InteriorStyle:     sel.InteriorStyle,
		PlanStyle:         sel.PlanStyle,
		InteriorMode:      sel.InteriorMode,
		Prompt:            sel.Prompt,
		AdditionalCommand: sel.AdditionalCommand,
		HasMain:           s.main != nil,
		HasReference:      s.reference != nil,
	})
}

// moves the history cursor back; false at the first entry
func (s *Session) Undo() (bool, error) {
	return s.step(s.history.Undo)
}

func (s *Session) Redo() (bool, error) {
	return s.step(s.history.Redo)
}

func (s *Session) step(move func() (*imageops.Image, bool)) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.mutable(); err != nil {
		return false, err
	}

	img, ok := move()
	if !ok {
		return false, nil
	}

	s.setActive(img)
	s.touch()

	return true, nil
}

// rotates or flips the active image and records it in history
func (s *Session) ApplyTransform(kind imageops.Transform) (*imageops.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.mutable(); err != nil {
		return nil, err
	}

	active := s.active()
	if active == nil {
		return nil, ErrNoImage
	}

	out, err := imageops.Apply(active, kind)
	if err != nil {
		return nil, err
	}

	s.setActive(out)
	s.history.Push(out)
	s.touch()

	return out, nil
}

// clears the result, free text, reference and scene
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.mutable(); err != nil {
		return err
	}

	s.result = nil
	s.reference = nil
	s.selections.Prompt = ""
	s.selections.AdditionalCommand = ""
	s.selections.Scene = ""
	s.selections.InteriorMode = catalog.ModeStandard
	s.lastError = ""

	if s.main != nil {
		s.history.Reset(s.main)
	} else {
		s.history.Clear()
	}

	s.settle()

	return nil
}

// promotes the result to the main slot
func (s *Session) UseAsInput() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.mutable(); err != nil {
		return err
	}

	if s.result == nil {
		return ErrNoImage
	}

	s.main = s.result
	s.result = nil
	s.history.Reset(s.main)
	s.settle()

	return nil
}

// result bytes as PNG and a download filename
func (s *Session) Download() ([]byte, string, error) {
	s.mu.Lock()
	result := s.result
	now := s.deps.now()
	s.mu.Unlock()

	if result == nil {
		return nil, "", ErrNoImage
	}

	img, err := imageops.ToPNG(result)
	if err != nil {
		return nil, "", err
	}

	return img.Data, fmt.Sprintf("generated-ai-%d.png", now.UnixMilli()), nil
}

// the image held in a slot
func (s *Session) Image(slot Slot) (*imageops.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var img *imageops.Image

	switch slot {
	case SlotMain:
		img = s.main
	case SlotReference:
		img = s.reference
	case SlotResult:
		img = s.result
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidSlot, slot)
	}

	if img == nil {
		return nil, ErrNoImage
	}

	return img, nil
}

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	return View{
		State:         s.state,
		Selections:    s.selections,
		Main:          info(s.main),
		Reference:     info(s.reference),
		Result:        info(s.result),
		HistoryLength: s.history.Len(),
		HistoryCursor: s.history.Cursor(),
		CanUndo:       s.history.CanUndo(),
		CanRedo:       s.history.CanRedo(),
		LastError:     s.lastError,
		Prompt:        s.buildPrompt(),
	}
}

func (s *Session) expired(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state != StateGenerating && now.Sub(s.lastActivity) > SessionExpiryDuration
}

// the image undo, redo and transforms act on
func (s *Session) active() *imageops.Image {
	if s.result != nil {
		return s.result
	}

	return s.main
}

func (s *Session) setActive(img *imageops.Image) {
	if s.result != nil {
		s.result = img
	} else if s.main != nil {
		s.main = img
	}
}

func (s *Session) mutable() error {
	if s.state == StateGenerating {
		return ErrGenerationInProgress
	}

	return nil
}

// derives the resting state from the slots
func (s *Session) settle() {
	switch {
	case s.result != nil:
		s.state = StateResult
	case s.main != nil || s.reference != nil:
		s.state = StateLoaded
	default:
		s.state = StateIdle
	}

	s.touch()
}

func (s *Session) touch() {
	s.lastActivity = s.deps.now()
}

func info(img *imageops.Image) *ImageInfo {
	if img == nil {
		return nil
	}

	return &ImageInfo{
		MimeType: img.MimeType,
		Width:    img.Width,
		Height:   img.Height,
		Bytes:    len(img.Data),
	}
}

func (d *Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}

	return time.Now()
}
