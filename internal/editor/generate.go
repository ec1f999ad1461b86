package editor

import (
	"context"
	"errors"
	"time"

	"codeberg.org/archviz/studio/archviz/users"
	"codeberg.org/archviz/studio/internal/imageops"
	"codeberg.org/archviz/studio/internal/llm"
	"codeberg.org/archviz/studio/internal/logger"
)

const (
	outcomeSuccess = "success"

	MessageQuotaReached = "Daily quota reached. Please try again tomorrow."
)

// runs one generation. clientKey is the caller's stored key, if any.
// The generator is called without holding the session lock.
func (s *Session) Generate(ctx context.Context, clientKey string) (*imageops.Image, error) {
	id := s.identity
	today := users.Today(s.deps.now())

	cred, err := s.deps.Credentials.Resolve(ctx, id.UserID, clientKey)
	if err != nil {
		return nil, err
	}

	decision, err := s.deps.Admission.Admit(ctx, id.UserID, id.IsAdmin, today)
	if err != nil {
		return nil, err
	}

	if !decision.Allowed {
		if s.deps.Observer != nil {
			s.deps.Observer.AdmissionDenied()
		}

		s.fail(MessageQuotaReached)
		return nil, ErrQuotaReached
	}

	req, prev, err := s.begin(cred.Key)
	if err != nil {
		s.release(ctx, today)
		return nil, err
	}

	started := time.Now()
	res, err := s.deps.Generator.GenerateImage(ctx, req)

	if err == nil && (res == nil || res.Image == nil) {
		err = &llm.GenerationError{Kind: llm.KindNoImage, Message: llm.MessageNoImage}
	}

	if err != nil {
		s.observe(string(llm.KindOf(err)), started)
		s.abort(prev, llm.UserMessage(err))
		s.release(ctx, today)

		if llm.KindOf(err) == llm.KindInvalidCredential {
			s.deps.Credentials.MarkInvalid(id.UserID, cred)
		}

		return nil, err
	}

	s.observe(outcomeSuccess, started)
	s.complete(res.Image)

	if !id.IsAdmin && s.deps.Usage != nil {
		// usage is a side effect; the result stays even if the write fails
		usageCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), usageWriteTimeout)
		defer cancel()

		updated, err := s.deps.Usage.RecordUsage(usageCtx, id.UserID, today)
		if err != nil {
			logger.ErrorErr(err, "failed to record usage",
				"user_id", id.UserID,
			)
		} else if updated != nil {
			s.tracker.Apply(*updated)
		}
	}

	return res.Image, nil
}

// checks the request and moves to Generating; returns the state to restore
func (s *Session) begin(apiKey string) (llm.ImageRequest, State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sel := s.selections
	empty := sel.Prompt == "" && sel.AdditionalCommand == "" && !sel.hasOption() &&
		s.main == nil && s.reference == nil

	if empty {
		s.lastError = ErrEmptyRequest.Error()
		return llm.ImageRequest{}, "", ErrEmptyRequest
	}

	if s.state == StateGenerating {
		return llm.ImageRequest{}, "", ErrGenerationInProgress
	}

	prev := s.state
	s.state = StateGenerating
	s.lastError = ""
	s.touch()

	return llm.ImageRequest{
		APIKey:    apiKey,
		Prompt:    s.buildPrompt(),
		Main:      s.main,
		Reference: s.reference,
	}, prev, nil
}

func (s *Session) complete(img *imageops.Image) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.result = img
	s.history.Reset(img)
	s.state = StateResult
	s.touch()
}

func (s *Session) abort(prev State, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = prev
	s.lastError = message
	s.touch()
}

func (s *Session) fail(message string) {
	s.mu.Lock()
	s.lastError = message
	s.mu.Unlock()
}

func (s *Session) release(ctx context.Context, today string) {
	if err := s.deps.Admission.Release(context.WithoutCancel(ctx), s.identity.UserID, s.identity.IsAdmin, today); err != nil {
		logger.ErrorErr(err, "failed to release quota reservation",
			"user_id", s.identity.UserID,
		)
	}
}

func (s *Session) observe(outcome string, started time.Time) {
	if s.deps.Observer != nil {
		s.deps.Observer.GenerationFinished(outcome, time.Since(started))
	}
}

// true when err is a refusal decided before the generator was called
func IsRefusal(err error) bool {
	return errors.Is(err, ErrEmptyRequest) ||
		errors.Is(err, ErrMissingCredential) ||
		errors.Is(err, ErrQuotaReached) ||
		errors.Is(err, ErrGenerationInProgress)
}
