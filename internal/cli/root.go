package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"lockbox/internal/app"
	"lockbox/internal/auth"
	"lockbox/internal/config"
	"lockbox/internal/core"
	"lockbox/internal/modules/doctor"
)

// New создает корневую CLI-команду.
// Действия над секретами не регистрируются как подкоманды: сырые
// аргументы уходят в core.Parse, чтобы ошибки валидации шли одним путем.
func New(version string) *cobra.Command {
	var cfgPath string

	root := &cobra.Command{
		Use:           "lockbox <action> [args]",
		Short:         "Хранилище секретов с обязательной аутентификацией",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			a, err := app.New(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			rep := a.Dispatcher.Run(cmd.Context(), args)
			if rep.Message != "" {
				fmt.Fprintln(cmd.OutOrStdout(), rep.Message)
			}
			if rep.ExitCode != 0 {
				return core.ExitError{Code: rep.ExitCode}
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "путь к YAML-конфигурации")

	root.AddCommand(newVersionCmd(version))
	root.AddCommand(newDoctorCmd(&cfgPath))
	root.AddCommand(newEnrollCmd())

	return root
}

func newVersionCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Показать версию",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", version)
		},
	}
}

func newDoctorCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Показать состояние окружения",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Second)
			defer cancel()

			info, err := doctor.Collect(ctx)
			if err != nil {
				return err
			}
			report := map[string]interface{}{
				"host":           info,
				"auth_supported": auth.NewPassphrase(cfg.Auth.PassphraseBcrypt).Supported(),
				"store_backend":  cfg.Store.Backend,
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		},
	}
}

func newEnrollCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "enroll",
		Short: "Создать bcrypt-хэш парольной фразы для конфигурации",
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := auth.Enroll()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}
