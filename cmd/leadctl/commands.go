package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"alevatex/internal/app"
	"alevatex/internal/domain"
	leadsvc "alevatex/internal/services/leads"
)

type opener func(ctx context.Context) (*app.App, error)

// withApp opens the configured store for the duration of one command.
func withApp(open opener, fn func(cmd *cobra.Command, a *app.App, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := open(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()
		return fn(cmd, a, args)
	}
}

func rootCmd(open opener) *cobra.Command {
	root := &cobra.Command{
		Use:           "leadctl",
		Short:         "Manage captured contact form leads",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		listCmd(open),
		showCmd(open),
		statusCmd(open),
		advanceCmd(open),
		deleteCmd(open),
		exportCmd(open),
		statsCmd(open),
		submitCmd(open),
	)
	return root
}

func listCmd(open opener) *cobra.Command {
	var search, status string
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List leads, newest first",
		Args:  cobra.NoArgs,
		RunE: withApp(open, func(cmd *cobra.Command, a *app.App, _ []string) error {
			filter, ok := domain.ParseStatusFilter(status)
			if !ok {
				return fmt.Errorf("unknown status filter %q", status)
			}
			leads := a.Leads.List(cmd.Context(), search, filter)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), leads)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tSERVICE\tDATE\tSTATUS")
			for _, l := range leads {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", l.ID, l.Name, l.Email, l.Service,
					l.Timestamp.In(a.Config.Location()).Format("2006-01-02"), l.Status)
			}
			return tw.Flush()
		}),
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "match name, email or service")
	cmd.Flags().StringVar(&status, "status", "all", "all, new, contacted or archived")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func showCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print one lead",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(open, func(cmd *cobra.Command, a *app.App, args []string) error {
			lead, err := a.Leads.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), lead)
		}),
	}
}

func statusCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "status <id> <new|contacted|archived>",
		Short: "Set a lead's status",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(open, func(cmd *cobra.Command, a *app.App, args []string) error {
			return a.Leads.SetStatus(cmd.Context(), args[0], domain.Status(args[1]))
		}),
	}
}

func advanceCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "advance <id>",
		Short: "Move a lead to its next status (new, contacted, archived, new)",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(open, func(cmd *cobra.Command, a *app.App, args []string) error {
			return a.Leads.Advance(cmd.Context(), args[0])
		}),
	}
}

func deleteCmd(open opener) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a lead forever",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(open, func(cmd *cobra.Command, a *app.App, args []string) error {
			err := a.Leads.Delete(cmd.Context(), args[0], yes)
			if errors.Is(err, leadsvc.ErrNotConfirmed) {
				return fmt.Errorf("%w: pass --yes", err)
			}
			return err
		}),
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm permanent deletion")
	return cmd
}

func exportCmd(open opener) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every lead as CSV",
		Args:  cobra.NoArgs,
		RunE: withApp(open, func(cmd *cobra.Command, a *app.App, _ []string) error {
			if out == "-" {
				return a.Leads.ExportCSV(cmd.Context(), cmd.OutOrStdout())
			}
			if out == "" {
				out = leadsvc.ExportFilename(a.Config.ExportPrefix, time.Now())
			}
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("creating %s: %w", out, err)
			}
			if err := a.Leads.ExportCSV(cmd.Context(), f); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		}),
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", `output file ("-" for stdout, default <prefix>_leads_<date>.csv)`)
	return cmd
}

func statsCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Count leads by status and email domain",
		Args:  cobra.NoArgs,
		RunE: withApp(open, func(cmd *cobra.Command, a *app.App, _ []string) error {
			return writeJSON(cmd.OutOrStdout(), a.Leads.Stats(cmd.Context()))
		}),
	}
}

func submitCmd(open opener) *cobra.Command {
	fields := map[string]*string{}
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Capture an inquiry and forward it to the form relay",
		Args:  cobra.NoArgs,
		RunE: withApp(open, func(cmd *cobra.Command, a *app.App, _ []string) error {
			raw := map[string]string{}
			for k, v := range fields {
				if cmd.Flags().Changed(k) {
					raw[k] = *v
				}
			}
			lead, state, err := a.Submissions.Submit(cmd.Context(), raw)
			if lead.ID != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", lead.ID, state)
			}
			return err
		}),
	}
	for _, name := range []string{"name", "email", "service", "message"} {
		fields[name] = cmd.Flags().String(name, "", name+" field")
	}
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
