package main

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"hl7play/internal/driver"
	"hl7play/internal/validator"
	"hl7play/internal/workspace"
)

// stuckService never answers a check until its context is cancelled.
type stuckService struct {
	started atomic.Int32
}

func (s *stuckService) Validate(ctx context.Context, _ validator.Query) (validator.ValidationResult, error) {
	<-ctx.Done()
	return validator.ValidationResult{}, ctx.Err()
}

func (s *stuckService) CheckResource(ctx context.Context, _ string, _ validator.ResourceType) (validator.CheckResourceResult, error) {
	s.started.Add(1)
	<-ctx.Done()
	return validator.CheckResourceResult{}, ctx.Err()
}

func TestQuittingProgressCancelsChecks(t *testing.T) {
	ws := workspace.New()
	ws.Put(validator.Profile, testProfile)
	ws.Put(validator.Constraints, "<Constraints/>")

	svc := &stuckService{}
	runner := &driver.Runner{Service: svc}
	events := make(chan driver.Event)
	// пользователь выходит, как только первая проверка началась
	quit := func() (tea.Model, error) {
		for ev := range events {
			if ev.Status == driver.StatusWorking {
				break
			}
		}
		return nil, nil
	}

	done := make(chan error, 1)
	go func() { done <- runWithProgress(context.Background(), runner, ws, events, quit) }()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("err = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("checks kept running after the progress view quit")
	}
	if svc.started.Load() == 0 {
		t.Error("no check was started")
	}
	if runner.Progress != nil {
		t.Error("progress sink must be detached")
	}
}
