package model

// Session is either anonymous or signed in, never both.
// The zero value is anonymous.
type Session struct {
	user     Identity
	signedIn bool
}

func Anonymous() Session {
	return Session{}
}

func SignedIn(user Identity) Session {
	return Session{user: user, signedIn: true}
}

// User returns the signed-in identity, ok is false for an anonymous session.
func (s Session) User() (user Identity, ok bool) {
	return s.user, s.signedIn
}

func (s Session) SignedIn() bool {
	return s.signedIn
}
