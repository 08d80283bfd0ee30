// Package feedback defines how submission outcomes reach the user: transient
// success notifications, blocking error alerts, and navigation after a
// successful submission.
package feedback

import (
	"context"
	"sync"
)

// DestinationProductList is the view shown after a product is added.
const DestinationProductList = "Product"

// Presenter renders outcomes. NotifyError blocks until the user dismisses
// the alert; NotifySuccess returns immediately.
type Presenter interface {
	NotifySuccess(ctx context.Context, message, description string) error
	NotifyError(ctx context.Context, message string) error
	NavigateTo(ctx context.Context, destination string) error
}

// Notification is a single recorded presenter call.
type Notification struct {
	Kind        string
	Message     string
	Description string
}

const (
	KindSuccess  = "success"
	KindError    = "error"
	KindNavigate = "navigate"
)

// Recorder is an in-memory Presenter. It backs tests and non-interactive
// runs where outcomes are reported through logs.
type Recorder struct {
	mu     sync.Mutex
	events []Notification
	hook   func(Notification)
}

var _ Presenter = (*Recorder)(nil)

// NewRecorder returns a recorder that also forwards each event to hook when
// hook is non-nil.
func NewRecorder(hook func(Notification)) *Recorder {
	return &Recorder{hook: hook}
}

func (r *Recorder) NotifySuccess(_ context.Context, message, description string) error {
	r.record(Notification{Kind: KindSuccess, Message: message, Description: description})
	return nil
}

func (r *Recorder) NotifyError(_ context.Context, message string) error {
	r.record(Notification{Kind: KindError, Message: message})
	return nil
}

func (r *Recorder) NavigateTo(_ context.Context, destination string) error {
	r.record(Notification{Kind: KindNavigate, Message: destination})
	return nil
}

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.events...)
}

// Count returns how many events of kind were recorded.
func (r *Recorder) Count(kind string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

func (r *Recorder) record(n Notification) {
	r.mu.Lock()
	r.events = append(r.events, n)
	hook := r.hook
	r.mu.Unlock()
	if hook != nil {
		hook(n)
	}
}
