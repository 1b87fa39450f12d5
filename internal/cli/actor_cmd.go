package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/budgetflow/internal/cli/formatter"
	"github.com/alexanderramin/budgetflow/internal/domain"
	"github.com/spf13/cobra"
)

func newActorCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "actor",
		Short: "Manage actors and their roles",
	}

	cmd.AddCommand(
		newActorAddCmd(app),
		newActorListCmd(app),
	)

	return cmd
}

func newActorAddCmd(app *App) *cobra.Command {
	var name, role, agency string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register an actor",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := &domain.Actor{
				Name:     name,
				Role:     domain.Role(strings.ToLower(role)),
				AgencyID: agency,
			}
			if err := app.Actors.Create(cmd.Context(), a); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered %s (%s) %s\n", a.Name, a.Role, a.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&role, "role", "", "agency_user, agency_approver, reviewer, approver or admin")
	cmd.Flags().StringVar(&agency, "agency", "", "Agency ID (agency roles only)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("role")

	return cmd
}

func newActorListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List actors",
		RunE: func(cmd *cobra.Command, args []string) error {
			actors, err := app.Actors.List(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatActorList(actors))
			return nil
		},
	}
}
