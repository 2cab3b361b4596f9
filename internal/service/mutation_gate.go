package service

import (
	"sync"

	"github.com/noah-isme/gwa-tracker/internal/models"
	appErrors "github.com/noah-isme/gwa-tracker/pkg/errors"
)

// mutationGate admits one mutation at a time; a second caller is turned away instead of queued.
type mutationGate struct {
	resource string
	mu       sync.Mutex
}

func (g *mutationGate) enter() error {
	if !g.mu.TryLock() {
		return appErrors.Clone(appErrors.ErrBusy, g.resource+" change already in progress")
	}
	return nil
}

func (g *mutationGate) leave() {
	g.mu.Unlock()
}

// mutationObserver receives the outcome of every mutation; the metrics service implements it.
type mutationObserver interface {
	ObserveMutation(resource, op string, err error)
}

type summaryObserver interface {
	ObserveSummary(summary models.Summary)
}

type nopObserver struct{}

func (nopObserver) ObserveMutation(string, string, error) {}
