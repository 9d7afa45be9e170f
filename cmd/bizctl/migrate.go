package main

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/jhoicas/bizdesk-api/internal/infrastructure/postgres/migrations"
)

func newMigrateCmd(e *env) *cobra.Command {
	var only string
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migraciones de esquema por base lógica",
	}
	cmd.PersistentFlags().StringVar(&only, "set", "", "limitar a un conjunto (main, analytics, documents, compliance)")

	// each ejecuta fn sobre cada conjunto seleccionado, cerrando el migrador al terminar.
	each := func(fn func(set migrations.Set, m *migrations.Migrator) error) error {
		sets := migrations.Sets(e.cfg.DB)
		if only != "" {
			sets = lo.Filter(sets, func(s migrations.Set, _ int) bool { return s.Name == only })
			if len(sets) == 0 {
				return fmt.Errorf("conjunto de migraciones desconocido: %q", only)
			}
		}
		for _, set := range sets {
			m, err := migrations.New(set, e.log)
			if err != nil {
				return err
			}
			err = fn(set, m)
			_ = m.Close()
			if err != nil {
				return err
			}
		}
		return nil
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Aplica las migraciones pendientes",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				return each(func(_ migrations.Set, m *migrations.Migrator) error { return m.Up() })
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Revierte todas las migraciones",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				return each(func(_ migrations.Set, m *migrations.Migrator) error { return m.Down() })
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Muestra la versión aplicada de cada conjunto",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return each(func(set migrations.Set, m *migrations.Migrator) error {
					v, dirty, err := m.Version()
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%-12s version=%d dirty=%t\n", set.Name, v, dirty)
					return nil
				})
			},
		},
	)
	return cmd
}
