package main

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"hl7play/internal/driver"
	"hl7play/internal/ui"
	"hl7play/internal/workspace"
)

func runCheckWithUI(ctx context.Context, title string, runner *driver.Runner, ws *workspace.Workspace, resources []string) error {
	events := make(chan driver.Event, 64)
	model := ui.NewProgressModel(title, resources, events)
	program := tea.NewProgram(model)
	return runWithProgress(ctx, runner, ws, events, program.Run)
}

// runWithProgress runs CheckAll while draw renders events. When draw
// returns first (the user quit) the checks still in flight are cancelled.
func runWithProgress(ctx context.Context, runner *driver.Runner, ws *workspace.Workspace, events chan driver.Event, draw func() (tea.Model, error)) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	runner.Progress = driver.ChannelSink{Ch: events}
	defer func() { runner.Progress = nil }()

	// CheckAll и отрисовка идут параллельно, канал закрывается по завершении
	errCh := make(chan error, 1)
	go func() {
		err := runner.CheckAll(ctx, ws)
		close(events)
		errCh <- err
	}()

	_, uiErr := draw()
	cancel()
	go func() {
		for range events {
		}
	}()
	err := <-errCh
	if err != nil {
		return err
	}
	return uiErr
}

// runWithSpinner shows a spinner while fn talks to the validator.
func runWithSpinner(title string, fn func() error) error {
	done := make(chan error, 1)
	go func() { done <- fn() }()

	model := ui.NewSpinner(title, done)
	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return err
	}
	m, ok := final.(*ui.SpinnerModel)
	if !ok {
		return nil
	}
	if m.Err() == nil && !m.Done() {
		// прервано пользователем до ответа
		return context.Canceled
	}
	return m.Err()
}
