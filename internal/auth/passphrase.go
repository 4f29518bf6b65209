package auth

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"

	"lockbox/internal/core"
)

// Passphrase реализует core.Authenticator через ввод парольной фразы
// с управляющего терминала. Подсказки и эхо идут в stderr: stdout
// зарезервирован под значения секретов.
type Passphrase struct {
	hash []byte
}

// NewPassphrase создает аутентификатор с bcrypt-хэшем из конфигурации.
func NewPassphrase(bcryptHash string) *Passphrase {
	return &Passphrase{hash: []byte(bcryptHash)}
}

// Supported требует настроенный хэш и интерактивный терминал.
func (p *Passphrase) Supported() bool {
	return len(p.hash) > 0 && term.IsTerminal(int(os.Stdin.Fd()))
}

// Challenge запрашивает фразу и отдает результат через callback ровно один раз.
func (p *Passphrase) Challenge(reason string, done func(core.Outcome)) {
	go func() {
		fmt.Fprintf(os.Stderr, "Authenticate to %s.\nPassphrase: ", reason)
		line, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			done(core.Outcome{Message: "passphrase entry was canceled"})
			return
		}
		done(p.verify(line))
	}()
}

func (p *Passphrase) verify(line []byte) core.Outcome {
	if err := bcrypt.CompareHashAndPassword(p.hash, line); err != nil {
		return core.Outcome{Message: "passphrase does not match"}
	}
	return core.Outcome{Granted: true}
}

// Enroll дважды запрашивает новую фразу и возвращает ее bcrypt-хэш
// для поля auth.passphrase_bcrypt конфигурации.
func Enroll() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("enroll requires an interactive terminal")
	}
	fmt.Fprint(os.Stderr, "New passphrase: ")
	first, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read passphrase: %w", err)
	}
	if len(first) == 0 {
		return "", errors.New("empty passphrase")
	}
	fmt.Fprint(os.Stderr, "Repeat passphrase: ")
	second, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read passphrase: %w", err)
	}
	if !bytes.Equal(first, second) {
		return "", errors.New("passphrases do not match")
	}
	hash, err := bcrypt.GenerateFromPassword(first, bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash passphrase: %w", err)
	}
	return string(hash), nil
}
