package strongptr

import (
	"sync/atomic"

	"github.com/pkg/errors"
)

// Token marks construction that only the factory may perform.
//
// A type whose values must always be owned by a Strong exposes an
// initializer taking a Token and checks it:
//
//	func InitPort(tok strongptr.Token, p *Port, pin int) error {
//		if err := tok.Check(); err != nil {
//			return err
//		}
//		p.pin = pin
//		return nil
//	}
//
//	port, err := strongptr.Make[Port](alloc, func(tok strongptr.Token, p *Port) error {
//		return InitPort(tok, p, 4)
//	})
//
// A Token is valid only while the initializer it was passed to runs. A
// token kept past that point, and the zero Token, fail Check.
type Token struct {
	state *tokenState
}

type tokenState struct {
	live atomic.Bool
}

func issueToken() Token {
	t := Token{state: &tokenState{}}
	t.state.live.Store(true)
	return t
}

func (t Token) revoke() {
	t.state.live.Store(false)
}

// withToken runs fn with a token that is revoked when fn returns or panics.
func withToken(fn func(Token) error) error {
	tok := issueToken()
	defer tok.revoke()
	return fn(tok)
}

// Valid reports whether t was issued by the factory for the construction
// currently in progress.
func (t Token) Valid() bool {
	return t.state != nil && t.state.live.Load()
}

// Check returns ErrTokenRequired for a token not issued by the factory or
// used after its construction finished.
func (t Token) Check() error {
	if !t.Valid() {
		return errors.WithStack(ErrTokenRequired)
	}
	return nil
}
