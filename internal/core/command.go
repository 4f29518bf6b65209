package core

import (
	"errors"
	"fmt"
)

// Action перечисляет поддерживаемые операции над секретами.
type Action string

const (
	ActionGet     Action = "get"
	ActionSet     Action = "set"
	ActionUpdate  Action = "update"
	ActionDelete  Action = "delete"
	ActionGetMany Action = "get-many"
)

var (
	errMissingAction = errors.New("no action provided")
	errUnknownAction = errors.New("unknown action")
	errArityMismatch = errors.New("wrong number of arguments")
)

// Command описывает одну разобранную операцию процесса.
// Конструируется один раз в Parse и дальше не изменяется.
type Command struct {
	Action Action
	Key    string
	Secret string
	Keys   []string
}

// Parse валидирует сырые аргументы и строит Command.
// Никакой аутентификации и побочных эффектов на этом слое нет.
func Parse(args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, errMissingAction
	}
	action := Action(args[0])
	switch action {
	case ActionGetMany:
		if len(args) < 2 {
			return Command{}, fmt.Errorf("%s: at least one key required: %w", action, errArityMismatch)
		}
		keys := make([]string, len(args)-1)
		copy(keys, args[1:])
		return Command{Action: action, Keys: keys}, nil
	case ActionGet, ActionSet, ActionUpdate, ActionDelete:
		if len(args) < 2 || len(args) > 3 {
			return Command{}, fmt.Errorf("%s: %w", action, errArityMismatch)
		}
		cmd := Command{Action: action, Key: args[1]}
		// Секрет берется только для set/update; set/update без секрета
		// проходит парсинг и отклоняется дальше в Dispatcher.
		if len(args) == 3 && (action == ActionSet || action == ActionUpdate) {
			cmd.Secret = args[2]
		}
		return cmd, nil
	default:
		return Command{}, fmt.Errorf("%s: %w", args[0], errUnknownAction)
	}
}

// AuthReason возвращает текст причины аутентификации.
// Причина зависит только от варианта команды, не от ключей.
func (c Command) AuthReason() string {
	switch c.Action {
	case ActionSet:
		return "add a secret to the keychain"
	case ActionUpdate:
		return "update a secret in the keychain"
	case ActionDelete:
		return "delete a secret from the keychain"
	case ActionGetMany:
		return "read secrets from the keychain"
	default:
		return "read a secret from the keychain"
	}
}
