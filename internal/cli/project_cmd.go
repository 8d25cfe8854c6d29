package cli

import (
	"fmt"

	"github.com/nodusapp/nodus/internal/cli/formatter"
	"github.com/nodusapp/nodus/internal/domain"
	"github.com/spf13/cobra"
)

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
	}

	cmd.AddCommand(
		newProjectAddCmd(app),
		newProjectListCmd(app),
		newProjectShowCmd(app),
		newProjectUpdateCmd(app),
		newProjectRemoveCmd(app),
	)

	return cmd
}

func newProjectAddCmd(app *App) *cobra.Command {
	var in domain.ProjectInput

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new project",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.Projects.Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "Created project %s %s\n", p.Name, formatter.FormatID(p.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Name, "name", "", "Project name (at least 3 characters)")
	cmd.Flags().StringVar(&in.Color, "color", "", "Hex color, e.g. #3498db")
	cmd.Flags().StringVar(&in.Icon, "icon", "", "Icon name")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newProjectListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := app.Projects.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(projects) == 0 {
				fmt.Fprintln(out(cmd), "No projects found.")
				return nil
			}
			fmt.Fprintln(out(cmd), formatter.FormatProjectList(projects))
			return nil
		},
	}
}

func newProjectShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show PROJECT",
		Short: "Show a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveProjectID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			p, err := app.Projects.GetByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), formatter.FormatProject(p, app.now()))
			return nil
		},
	}
}

func newProjectUpdateCmd(app *App) *cobra.Command {
	var name, color, icon string

	cmd := &cobra.Command{
		Use:   "update PROJECT",
		Short: "Update a project's name, color or icon",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			p, err := app.Projects.GetByID(ctx, id)
			if err != nil {
				return err
			}

			in := domain.ProjectInput{Name: p.Name, Color: p.Color, Icon: p.Icon}
			flags := cmd.Flags()
			if flags.Changed("name") {
				in.Name = name
			}
			if flags.Changed("color") {
				in.Color = color
			}
			if flags.Changed("icon") {
				in.Icon = icon
			}

			if _, err := app.Projects.Update(ctx, id, in); err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "Updated project %s\n", formatter.FormatID(id))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&color, "color", "", "New hex color")
	cmd.Flags().StringVar(&icon, "icon", "", "New icon (empty to clear)")

	return cmd
}

func newProjectRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove PROJECT",
		Short: "Remove a project with all its habits, tasks, finances and notes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveProjectID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			if err := app.Projects.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "Removed project %s\n", formatter.FormatID(id))
			return nil
		},
	}
}

func newCurrencyCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "currency",
		Short: "Inspect supported currencies",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List currencies",
		RunE: func(cmd *cobra.Command, args []string) error {
			currencies, err := app.Currencies.List(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), formatter.FormatCurrencyList(currencies))
			return nil
		},
	})
	return cmd
}
