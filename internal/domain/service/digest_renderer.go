package service

import (
	"github.com/Chaitraputtabudhi/prox-deals-automation/internal/domain/entity"
)

// DigestRenderer turns an assembled digest into a deliverable message. It is
// a pure function over the digest: the core supplies already-grouped,
// already-ordered, already-capped data and makes no assumptions about the
// markup the renderer produces.
type DigestRenderer interface {
	Render(digest *entity.Digest) (subject, body string, err error)
}
