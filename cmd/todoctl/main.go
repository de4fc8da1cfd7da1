// Package main implements todoctl, a command-line client for the todo
// service. It exercises the same SDK the programmatic client uses, so every
// call goes through the circuit-breaking, retrying HTTP client.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/taskfolio/todo-service/internal/client"
	"github.com/taskfolio/todo-service/internal/domain/todo"
	"github.com/taskfolio/todo-service/internal/platform/config"
	"github.com/taskfolio/todo-service/internal/platform/httpclient"
)

var (
	serverURL string
	userID    string
	timeout   time.Duration
	asJSON    bool
)

var rootCmd = &cobra.Command{
	Use:   "todoctl",
	Short: "todoctl - manage todos from the command line",
	Long: `todoctl talks to a running todo service on behalf of one user.

The user is identified by --user (or the TODO_USER environment variable);
all todos created and listed belong to that user.

Examples:
  todoctl --user alice list --status pending --sort dueDate
  todoctl --user alice create "Write report" --priority high --due 2026-09-01
  todoctl --user alice complete 4f6b1c0e-...
  todoctl --user alice stats`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		if userID == "" {
			userID = os.Getenv("TODO_USER")
		}
		if userID == "" {
			return fmt.Errorf("--user is required (or set TODO_USER)")
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&serverURL, "server", "s", "http://localhost:8080", "Service base URL")
	rootCmd.PersistentFlags().StringVarP(&userID, "user", "u", "", "Acting user ID (required)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")
	rootCmd.PersistentFlags().BoolVar(&asJSON, "json", false, "Emit raw JSON instead of a table")

	rootCmd.AddCommand(
		newListCmd(),
		newGetCmd(),
		newCreateCmd(),
		newUpdateCmd(),
		newCompleteCmd(),
		newPendingCmd(),
		newDeleteCmd(),
		newStatsCmd(),
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newAPI builds the SDK client from the global flags.
func newAPI() *client.API {
	cfg := &config.ClientConfig{
		BaseURL: serverURL,
		Timeout: timeout,
		Retry: config.RetryConfig{
			MaxAttempts:     3,
			InitialInterval: 100 * time.Millisecond,
			MaxInterval:     5 * time.Second,
			Multiplier:      2.0,
		},
		CircuitBreaker: config.CircuitBreakerConfig{
			MaxFailures:   5,
			Timeout:       30 * time.Second,
			HalfOpenLimit: 1,
		},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	hc := httpclient.New(cfg, "todo-service", nil, logger)
	return client.NewAPI(hc, userID, logger)
}

func newListCmd() *cobra.Command {
	var (
		status   string
		priority string
		sortBy   string
		order    string
		page     int
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List todos with optional filters, sort, and pagination",
		RunE: func(cmd *cobra.Command, _ []string) error {
			query := todo.DefaultListQuery()
			query.Status = todo.Status(status)
			query.Priority = todo.Priority(priority)
			query.SortBy = sortKeyFromFlag(sortBy)
			query.SortOrder = todo.SortOrder(order)
			query.Page = page
			query.Limit = limit
			query.Normalize()

			result, err := newAPI().ListTodos(cmd.Context(), query)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(result)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tSTATUS\tPRIORITY\tDUE")
			for _, t := range result.Todos {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					t.ID, t.Title, t.Status, t.Priority, formatDue(t.DueDate))
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Printf("\npage %d of %d (%d todos)\n",
				result.CurrentPage, result.TotalPages, result.TotalCount)
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by status (pending|completed)")
	cmd.Flags().StringVar(&priority, "priority", "", "Filter by priority (low|medium|high)")
	cmd.Flags().StringVar(&sortBy, "sort", "createdAt", "Sort key (createdAt|dueDate|priority|title)")
	cmd.Flags().StringVar(&order, "order", "desc", "Sort order (asc|desc)")
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&limit, "limit", 10, "Page size")
	return cmd
}

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a single todo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := newAPI().GetTodo(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printTodo(t)
		},
	}
}

func newCreateCmd() *cobra.Command {
	var (
		description string
		priority    string
		due         string
	)

	cmd := &cobra.Command{
		Use:   "create <title>",
		Short: "Create a new todo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t := &todo.Todo{
				Title:       args[0],
				Description: description,
				Priority:    todo.Priority(priority),
			}
			if due != "" {
				d, err := parseDue(due)
				if err != nil {
					return err
				}
				t.DueDate = d
			}

			created, err := newAPI().CreateTodo(cmd.Context(), t)
			if err != nil {
				return err
			}
			return printTodo(created)
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Longer description")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "Priority (low|medium|high)")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD or RFC 3339)")
	return cmd
}

func newUpdateCmd() *cobra.Command {
	var (
		title       string
		description string
		status      string
		priority    string
		due         string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace a todo's fields",
		Long: `Update replaces all mutable fields of the todo. Flags left unset fall
back to their defaults on the server, so pass every field you want to keep.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t := &todo.Todo{
				Title:       title,
				Description: description,
				Status:      todo.Status(status),
				Priority:    todo.Priority(priority),
			}
			if due != "" {
				d, err := parseDue(due)
				if err != nil {
					return err
				}
				t.DueDate = d
			}

			updated, err := newAPI().UpdateTodo(cmd.Context(), args[0], t)
			if err != nil {
				return err
			}
			return printTodo(updated)
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "New title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "New description")
	cmd.Flags().StringVar(&status, "status", "", "Status (pending|completed)")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "Priority (low|medium|high)")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD or RFC 3339)")
	return cmd
}

func newCompleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "complete <id>",
		Short: "Mark a todo completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := newAPI().CompleteTodo(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printTodo(t)
		},
	}
}

func newPendingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pending <id>",
		Short: "Reopen a completed todo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := newAPI().ReopenTodo(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printTodo(t)
		},
	}
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a todo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := newAPI().DeleteTodo(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println("deleted", args[0])
			return nil
		},
	}
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show aggregate counts for your todos",
		RunE: func(cmd *cobra.Command, _ []string) error {
			stats, err := newAPI().TodoStats(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(stats)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "total\t%d\n", stats.TotalTodos)
			fmt.Fprintf(w, "completed\t%d\n", stats.CompletedTodos)
			fmt.Fprintf(w, "pending\t%d\n", stats.PendingTodos)
			fmt.Fprintf(w, "high priority\t%d\n", stats.HighPriorityTodos)
			fmt.Fprintf(w, "medium priority\t%d\n", stats.MediumPriorityTodos)
			fmt.Fprintf(w, "low priority\t%d\n", stats.LowPriorityTodos)
			fmt.Fprintf(w, "completion rate\t%d%%\n", stats.CompletionRate())
			return w.Flush()
		},
	}
}

// sortKeyFromFlag maps the CLI's camelCase sort names onto domain sort keys.
// Unknown names pass through and get normalized to the default.
func sortKeyFromFlag(name string) todo.SortKey {
	switch name {
	case "createdAt":
		return todo.SortCreatedAt
	case "dueDate":
		return todo.SortDueDate
	default:
		return todo.SortKey(name)
	}
}

func parseDue(s string) (*time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if d, err := time.Parse(layout, s); err == nil {
			return &d, nil
		}
	}
	return nil, fmt.Errorf("invalid due date %q: use YYYY-MM-DD or RFC 3339", s)
}

func formatDue(d *time.Time) string {
	if d == nil {
		return "-"
	}
	return d.Format("2006-01-02")
}

func printTodo(t *todo.Todo) error {
	if asJSON {
		return printJSON(t)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "id\t%s\n", t.ID)
	fmt.Fprintf(w, "title\t%s\n", t.Title)
	if t.Description != "" {
		fmt.Fprintf(w, "description\t%s\n", t.Description)
	}
	fmt.Fprintf(w, "status\t%s\n", t.Status)
	fmt.Fprintf(w, "priority\t%s\n", t.Priority)
	fmt.Fprintf(w, "due\t%s\n", formatDue(t.DueDate))
	fmt.Fprintf(w, "created\t%s\n", t.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "updated\t%s\n", t.UpdatedAt.Format(time.RFC3339))
	return w.Flush()
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
