package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/grahamford77/table-tennis/internal/controller"
	"github.com/grahamford77/table-tennis/internal/dom"
	"github.com/grahamford77/table-tennis/internal/form"
	"github.com/grahamford77/table-tennis/internal/message"
	"github.com/grahamford77/table-tennis/internal/page"
	"github.com/grahamford77/table-tennis/internal/submit"
)

// errRejected makes the process exit non-zero after the outcome has already
// been printed.
var errRejected = errors.New("submission did not succeed")

// pages maps each stock form to the page that hosts it.
var pages = map[string]string{
	"registrationForm":     "/",
	"createTournamentForm": "/tournaments/new",
}

// editPath is the edit page for the tournament id in args[0].
func editPath(args []string) string {
	return form.Expand("/tournaments/edit/{tournamentId}", map[string]string{"tournamentId": args[0]})
}

// formCmd builds one command per form.  Every payload field of the form
// becomes a kebab-case flag; only flags actually given overwrite the value
// the page already carries.
func (a *app) formCmd(reg *form.Registry, use, formID, short string, path func([]string) string) *cobra.Command {
	d, _ := reg.Lookup(formID)
	values := make(map[string]*string)
	var sets []string

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(strings.Count(use, " ")),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := pages[formID]
			if path != nil {
				p = path(args)
			}
			given := make(map[string]string)
			for field, v := range values {
				if cmd.Flags().Changed(kebab(field)) {
					given[field] = *v
				}
			}
			for _, kv := range sets {
				k, v, ok := strings.Cut(kv, "=")
				if !ok {
					return fmt.Errorf("--set %q: want field=value", kv)
				}
				given[k] = v
			}
			return a.submitForm(cmd.Context(), formID, p, given)
		},
	}
	if d != nil {
		for _, f := range d.Fields {
			values[f.Name] = cmd.Flags().String(kebab(f.Name), "", "value for "+f.Name)
		}
	}
	cmd.Flags().StringArrayVar(&sets, "set", nil, "field=value for fields without a dedicated flag")
	return cmd
}

func (a *app) httpClient() *http.Client {
	if a.cfg.Service.Timeout > 0 {
		return &http.Client{Timeout: a.cfg.Service.Timeout}
	}
	return http.DefaultClient
}

func (a *app) submitForm(ctx context.Context, formID, path string, values map[string]string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	doc, err := page.Fetch(ctx, a.httpClient(), a.cfg.Service.BaseURL, path)
	if err != nil {
		return err
	}
	for id, v := range values {
		n := doc.Node(id)
		if n == nil {
			return fmt.Errorf("page %s has no field %q", path, id)
		}
		n.SetValue(v)
	}

	win := newTerminalWindow(os.Stdout, a.yes)
	p, err := page.Bootstrap(doc, win, page.FromConfig(a.cfg, a.forms, a.log))
	if err != nil {
		return err
	}
	defer p.Teardown()

	c, ok := p.Controller(formID)
	if !ok {
		return fmt.Errorf("page %s has no form %q", path, formID)
	}
	out := <-c.Submit(ctx)

	a.printOutcome(c.Descriptor(), doc, out)
	if !out.OK() {
		return errRejected
	}
	if p.Messages.RedirectPending() {
		win.awaitNavigation(a.cfg.Messaging.RedirectDelay + time.Second)
	}
	return nil
}

// printOutcome echoes what the page would show: the message region, or the
// inline date error when the submission was blocked locally.
func (a *app) printOutcome(d *form.Descriptor, doc *dom.Memory, out submit.Outcome) {
	text := ""
	if out.Kind == submit.ValidationFailure {
		if n := doc.Node(d.DateErrorField); n != nil {
			text = n.Text()
		}
	} else if n := doc.Node(message.RegionID); n != nil {
		text = n.Text()
	}
	mark := "✗"
	if out.OK() {
		mark = "✓"
	}
	fmt.Printf("%s %s\n", mark, text)
}

func (a *app) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a tournament",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			opts := page.FromConfig(a.cfg, a.forms, a.log)
			pipeOpts := []submit.Option{submit.WithLogger(a.log)}
			if opts.HTTPClient != nil {
				pipeOpts = append(pipeOpts, submit.WithHTTPClient(opts.HTTPClient))
			}
			pipe, err := submit.New(opts.BaseURL, pipeOpts...)
			if err != nil {
				return err
			}

			out, asked := controller.NewDeleter(pipe, newTerminalWindow(os.Stdout, a.yes), a.log).
				Delete(ctx, args[0])
			if !asked {
				fmt.Println("Cancelled.")
				return nil
			}
			if !out.OK() {
				return errRejected
			}
			return nil
		},
	}
}

func (a *app) formsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "forms",
		Short: "List the form definitions in effect",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := table.NewWriter()
			tw.SetOutputMirror(cmd.OutOrStdout())
			tw.AppendHeader(table.Row{"ID", "Endpoint", "Fields", "Date check", "Redirect"})
			for _, d := range a.forms.All() {
				fields := d.FieldNames()
				sort.Strings(fields)
				check := ""
				if d.HasDate() {
					check = d.DateField
				}
				tw.AppendRow(table.Row{d.ID, d.Endpoint, strings.Join(fields, ", "), check, d.SuccessRedirect})
			}
			tw.Render()
			return nil
		},
	}
}

// kebab turns a field name such as maxEntrants into max-entrants.
func kebab(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('-')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
