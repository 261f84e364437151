package gitlib

import (
	"time"

	git2go "github.com/libgit2/git2go/v34"
)

// Signature is who authored a commit and when. The When field keeps the
// UTC offset recorded with the commit.
type Signature struct {
	Name  string
	Email string
	When  time.Time
}

func signatureFrom(sig *git2go.Signature) Signature {
	return Signature{
		Name:  sig.Name,
		Email: sig.Email,
		When:  sig.When,
	}
}
