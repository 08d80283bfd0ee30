package tui

import (
	"context"
	"sync"

	"github.com/goliatone/go-stockform/pkg/feedback"
)

// Presenter shows workflow outcomes on the terminal. Error alerts block until
// the user acknowledges them.
type Presenter struct {
	driver     PromptDriver
	theme      Theme
	errorTitle string

	mu          sync.Mutex
	destination string
}

var _ feedback.Presenter = (*Presenter)(nil)

// NewPresenter returns a presenter printing through driver.
func NewPresenter(driver PromptDriver, messages feedback.Messages, theme Theme) *Presenter {
	if driver == nil {
		driver = NewSurveyDriver(nil)
	}
	return &Presenter{
		driver:     driver,
		theme:      theme,
		errorTitle: messages.WithDefaults().ErrorTitle,
	}
}

func (p *Presenter) NotifySuccess(ctx context.Context, message, description string) error {
	text := message
	if description != "" {
		text += ": " + description
	}
	return p.driver.Info(ctx, prefixed(p.theme.SuccessPrefix, text))
}

// NotifyError prints the alert and waits for the OK confirmation. Either
// answer dismisses the alert.
func (p *Presenter) NotifyError(ctx context.Context, message string) error {
	if err := p.driver.Info(ctx, prefixed(p.theme.ErrorPrefix, p.errorTitle+": "+message)); err != nil {
		return err
	}
	_, err := p.driver.Confirm(ctx, ConfirmConfig{Message: "OK", Default: true})
	return err
}

func (p *Presenter) NavigateTo(ctx context.Context, destination string) error {
	p.mu.Lock()
	p.destination = destination
	p.mu.Unlock()
	return p.driver.Info(ctx, prefixed(p.theme.InfoPrefix, "Opening "+destination))
}

// Destination returns the last navigation target, if any.
func (p *Presenter) Destination() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.destination
}
