package core

import (
	"context"
	"fmt"
	"strings"

	"lockbox/internal/store"
)

// Report — итог одного прогона: сообщение для stdout и код выхода.
type Report struct {
	Message  string
	ExitCode int
}

// ExitError переносит ненулевой код выхода из cobra в main.
type ExitError struct {
	Code int
}

func (e ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

const usageHint = `usage:
  lockbox get      <key>
  lockbox set      <key> <secret>
  lockbox update   <key> <secret>
  lockbox delete   <key>
  lockbox get-many <key1> [key2 ...]`

// Dispatcher ведет команду от сырых аргументов до кода выхода:
// Parse -> Gate.Authenticate -> store -> Report. Ровно один проход
// на процесс, без повторов на любом слое.
type Dispatcher struct {
	gate  *Gate
	store store.Store
}

// NewDispatcher связывает Gate и хранилище секретов.
func NewDispatcher(gate *Gate, st store.Store) *Dispatcher {
	return &Dispatcher{gate: gate, store: st}
}

// Run выполняет единственный проход. Ошибка валидации и отказ
// аутентификации завершают прогон, не трогая хранилище.
func (d *Dispatcher) Run(ctx context.Context, args []string) Report {
	cmd, err := Parse(args)
	if err != nil {
		return Report{Message: fmt.Sprintf("%v\n%s", err, usageHint), ExitCode: 1}
	}

	switch res := d.gate.Authenticate(cmd.AuthReason()); res.Status {
	case AuthUnsupported:
		return Report{Message: res.Message, ExitCode: 1}
	case AuthDenied:
		return Report{Message: "authentication failed or was canceled: " + res.Message, ExitCode: 1}
	}

	return d.execute(ctx, cmd)
}

func (d *Dispatcher) execute(ctx context.Context, cmd Command) Report {
	// set/update без секрета: запись пустого значения не поддерживается.
	if cmd.Secret == "" && (cmd.Action == ActionSet || cmd.Action == ActionUpdate) {
		return Report{Message: fmt.Sprintf("No secret provided for key %s", cmd.Key), ExitCode: 1}
	}

	switch cmd.Action {
	case ActionGet:
		secret, err := d.store.Read(ctx, cmd.Key)
		if err != nil {
			return Report{Message: fmt.Sprintf("Key %s does not exist in the keychain", cmd.Key), ExitCode: 1}
		}
		return Report{Message: secret}
	case ActionSet:
		if err := d.store.Create(ctx, cmd.Key, cmd.Secret); err != nil {
			return Report{Message: fmt.Sprintf("Failed to set key %s in the keychain", cmd.Key), ExitCode: 1}
		}
		return Report{Message: fmt.Sprintf("Key %s has been successfully set in the keychain", cmd.Key)}
	case ActionUpdate:
		if err := d.store.Update(ctx, cmd.Key, cmd.Secret); err != nil {
			return Report{Message: fmt.Sprintf("Key %s does not exist in the keychain, use set to create it", cmd.Key), ExitCode: 1}
		}
		return Report{Message: fmt.Sprintf("Key %s has been successfully updated in the keychain", cmd.Key)}
	case ActionDelete:
		if err := d.store.Delete(ctx, cmd.Key); err != nil {
			return Report{Message: fmt.Sprintf("Failed to delete key %s from the keychain", cmd.Key), ExitCode: 1}
		}
		return Report{Message: fmt.Sprintf("Key %s has been successfully deleted from the keychain", cmd.Key)}
	case ActionGetMany:
		// Все-или-ничего: первый отсутствующий ключ прерывает обход,
		// уже найденные значения не печатаются.
		var b strings.Builder
		for i, key := range cmd.Keys {
			secret, err := d.store.Read(ctx, key)
			if err != nil {
				return Report{Message: fmt.Sprintf("Key %s does not exist in the keychain", key), ExitCode: 1}
			}
			if i > 0 {
				b.WriteByte('\n')
			}
			fmt.Fprintf(&b, "%s=%s", key, secret)
		}
		return Report{Message: b.String()}
	}
	return Report{Message: fmt.Sprintf("%s: %v", cmd.Action, errUnknownAction), ExitCode: 1}
}
