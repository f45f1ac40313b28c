package cli

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/meshview/pkg/session"
)

// sessionCommand creates the session management command.
func (c *CLI) sessionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Manage stored documents",
	}

	cmd.AddCommand(c.sessionListCommand())
	cmd.AddCommand(c.sessionShowCommand())
	cmd.AddCommand(c.sessionDeleteCommand())
	cmd.AddCommand(c.sessionCleanupCommand())

	return cmd
}

func (c *CLI) sessionListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List live sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.newStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			ids, err := store.List(ctx)
			if err != nil {
				return err
			}
			if len(ids) == 0 {
				printInfo("No sessions")
				return nil
			}

			var rows [][]string
			for _, id := range ids {
				sess, err := store.Get(ctx, id)
				if err != nil || sess == nil {
					continue
				}
				rows = append(rows, sessionRow(sess))
			}
			fmt.Println(sessionTable(rows))
			return nil
		},
	}
}

func (c *CLI) sessionShowCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "show <session-id>",
		Short: "Write the stored document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.newStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			sess, err := store.Get(ctx, args[0])
			if err != nil {
				return err
			}
			if sess == nil {
				return session.NotFound(args[0])
			}
			doc, err := sess.Document()
			if err != nil {
				return err
			}
			return writeOutput(output, doc.SVG())
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func (c *CLI) sessionDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <session-id>...",
		Short: "Delete sessions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.newStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			for _, id := range args {
				if err := store.Delete(ctx, id); err != nil {
					return err
				}
			}
			printSuccess("Deleted %d session(s)", len(args))
			return nil
		},
	}
}

func (c *CLI) sessionCleanupCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Remove expired sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.newStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Cleanup(ctx); err != nil {
				return err
			}
			printSuccess("Removed expired sessions")
			return nil
		},
	}
}

// sessionRow formats one session for the list table.
func sessionRow(s *session.Session) []string {
	viewBox := "-"
	if s.Snapshot != nil {
		viewBox = s.Snapshot.Bounds.String()
	}
	return []string{
		s.ID,
		viewBox,
		s.UpdatedAt.Local().Format(time.DateTime),
		time.Until(s.ExpiresAt).Round(time.Minute).String(),
	}
}

func sessionTable(rows [][]string) *table.Table {
	header := lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Padding(0, 1)
	cell := lipgloss.NewStyle().Foreground(colorWhite).Padding(0, 1)
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(StyleDim).
		Headers("ID", "VIEW BOX", "UPDATED", "EXPIRES IN").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})
}
