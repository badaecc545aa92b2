package services

import (
	"sync"

	"github.com/google/uuid"
)

// ProjectLocks serializes mutating operations per project. Requests on
// different projects never contend; two writers on the same project run one
// after the other, so the current-version pointer cannot lose an update.
// One registry is shared by every service that mutates projects.
type ProjectLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func NewProjectLocks() *ProjectLocks {
	return &ProjectLocks{locks: map[uuid.UUID]*sync.Mutex{}}
}

// Acquire blocks until the project's lock is held and returns the release
// function. Lock entries are kept for the life of the process; the map is
// bounded by the number of projects mutated since start.
func (p *ProjectLocks) Acquire(projectID uuid.UUID) func() {
	p.mu.Lock()
	l, ok := p.locks[projectID]
	if !ok {
		l = &sync.Mutex{}
		p.locks[projectID] = l
	}
	p.mu.Unlock()

	l.Lock()
	return l.Unlock
}
