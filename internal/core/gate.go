package core

import "sync"

// Outcome — результат одного вызова внешнего аутентификатора.
type Outcome struct {
	Granted bool
	Message string
}

// Authenticator — внешний механизм подтверждения личности оператора.
// Challenge обязан вызвать done ровно один раз; Gate дополнительно
// защищается от повторных вызовов.
type Authenticator interface {
	Supported() bool
	Challenge(reason string, done func(Outcome))
}

// AuthStatus — решение Gate по команде.
type AuthStatus int

const (
	AuthGranted AuthStatus = iota
	AuthDenied
	AuthUnsupported
)

// AuthResult — итог работы Gate: статус и человекочитаемая деталь.
type AuthResult struct {
	Status  AuthStatus
	Message string
}

// Gate выпускает ровно один challenge на команду и не делает повторов.
type Gate struct {
	auth Authenticator
}

// NewGate создает Gate поверх внешнего аутентификатора.
func NewGate(a Authenticator) *Gate {
	return &Gate{auth: a}
}

// Authenticate проверяет доступность механизма, выпускает challenge
// и паркует вызывающего до разрешения callback.
func (g *Gate) Authenticate(reason string) AuthResult {
	if g.auth == nil || !g.auth.Supported() {
		return AuthResult{Status: AuthUnsupported, Message: "device does not support authentication"}
	}

	ch := make(chan Outcome, 1)
	var once sync.Once
	g.auth.Challenge(reason, func(o Outcome) {
		once.Do(func() { ch <- o })
	})
	o := <-ch

	if o.Granted {
		return AuthResult{Status: AuthGranted}
	}
	msg := o.Message
	if msg == "" {
		msg = "Unknown error"
	}
	return AuthResult{Status: AuthDenied, Message: msg}
}
