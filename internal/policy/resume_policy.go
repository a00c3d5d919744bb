package policy

import (
	"context"
	"log"

	"github.com/diewo77/talentos/auth"
	"github.com/diewo77/talentos/gate"
)

// ResumeLookup reports whether a stored file belongs to an application.
type ResumeLookup interface {
	ResumeExists(ctx context.Context, filename string) (bool, error)
}

// ResumePolicy allows a résumé download only when the file name is recorded
// on an application. The object passed to Authorize is the file name.
type ResumePolicy struct {
	applications ResumeLookup
}

func NewResumePolicy(applications ResumeLookup) *ResumePolicy {
	return &ResumePolicy{applications: applications}
}

func (p *ResumePolicy) Can(ctx context.Context, _ auth.Identity, _ gate.Action, obj any) bool {
	name, ok := obj.(string)
	if !ok || name == "" {
		return false
	}
	exists, err := p.applications.ResumeExists(ctx, name)
	if err != nil {
		log.Printf("resume lookup %q: %v", name, err)
		return false
	}
	return exists
}
