package cli

import (
	"fmt"
	"strings"

	"github.com/nodusapp/nodus/internal/cli/formatter"
	"github.com/nodusapp/nodus/internal/domain"
	"github.com/spf13/cobra"
)

func newNoteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "note",
		Short: "Keep markdown notes per project",
	}

	cmd.AddCommand(
		newNoteAddCmd(app),
		newNoteShowCmd(app),
		newNoteUpdateCmd(app),
		newNoteSearchCmd(app),
		newNoteRemoveCmd(app),
	)

	return cmd
}

func newNoteAddCmd(app *App) *cobra.Command {
	var project, title, content string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a note",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, project)
			if err != nil {
				return err
			}
			n, err := app.Notes.Create(ctx, domain.NoteInput{ProjectID: projectID, Title: title, Content: content})
			if err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "Created note %s %s\n", n.Title, formatter.FormatID(n.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project id or name")
	cmd.Flags().StringVar(&title, "title", "", "Note title (at most 100 characters)")
	cmd.Flags().StringVar(&content, "content", "", "Markdown content")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newNoteShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show NOTE",
		Short: "Print a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("note", args[0])
			if err != nil {
				return err
			}
			n, err := app.Notes.GetByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			body := n.Content
			if strings.TrimSpace(body) == "" {
				body = formatter.Dim("(empty)")
			}
			fmt.Fprintln(out(cmd), formatter.RenderBox(n.Title, body))
			return nil
		},
	}
}

func newNoteUpdateCmd(app *App) *cobra.Command {
	var title, content string

	cmd := &cobra.Command{
		Use:   "update NOTE",
		Short: "Change a note's title or content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := parseID("note", args[0])
			if err != nil {
				return err
			}
			n, err := app.Notes.GetByID(ctx, id)
			if err != nil {
				return err
			}
			in := domain.NoteInput{ProjectID: n.ProjectID, Title: n.Title, Content: n.Content}
			if cmd.Flags().Changed("title") {
				in.Title = title
			}
			if cmd.Flags().Changed("content") {
				in.Content = content
			}
			if _, err := app.Notes.Update(ctx, id, in); err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "Updated note %s\n", formatter.FormatID(id))
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&content, "content", "", "New markdown content")

	return cmd
}

func newNoteSearchCmd(app *App) *cobra.Command {
	var (
		project        string
		page, pageSize int
	)

	cmd := &cobra.Command{
		Use:   "search [TEXT]",
		Short: "Search notes by title and content",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, project)
			if err != nil {
				return err
			}
			text := ""
			if len(args) == 1 {
				text = args[0]
			}
			if !cmd.Flags().Changed("size") {
				pageSize = app.pageSize()
			}
			np, err := app.Notes.Search(ctx, projectID, text, page, pageSize)
			if err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), formatter.FormatNotePage(np, app.now()))
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project id or name")
	cmd.Flags().IntVar(&page, "page", 1, "Page number, starting at 1")
	cmd.Flags().IntVar(&pageSize, "size", 0, "Notes per page")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}

func newNoteRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove NOTE",
		Short: "Remove a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("note", args[0])
			if err != nil {
				return err
			}
			if err := app.Notes.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "Removed note %s\n", formatter.FormatID(id))
			return nil
		},
	}
}
