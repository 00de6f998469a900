package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"cpaas-portal/internal/export"
	"cpaas-portal/internal/forms"
	"cpaas-portal/internal/importer"
	"cpaas-portal/internal/listing"
	"cpaas-portal/internal/notify"
	"cpaas-portal/internal/tui"
	"cpaas-portal/internal/ws"
	"cpaas-portal/pkg/models"
)

func newContactsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contacts",
		Short: "List, import, export and browse contacts",
	}
	cmd.AddCommand(
		newContactsListCmd(a),
		newContactsCreateCmd(a),
		newContactsEditCmd(a),
		newContactsExportCmd(a),
		newContactsImportCmd(a),
		newContactsDeleteCmd(a),
		newContactsWatchCmd(a),
		newContactsBrowseCmd(a),
	)
	return cmd
}

func contactRows(contacts []models.Contact) [][]string {
	rows := make([][]string, 0, len(contacts))
	for _, c := range contacts {
		rows = append(rows, append([]string{c.ID}, export.Record(c)...))
	}
	return rows
}

var contactHeaders = append([]string{"ID"}, export.Header...)

func newContactsListCmd(a *app) *cobra.Command {
	var search, channel string
	var page int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print one page of contacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			contacts, err := a.client.Contacts.List(cmd.Context(), search, channel)
			if err != nil {
				a.notices.Error(err.Error())
				return err
			}
			printContactsPage(cmd.OutOrStdout(), contacts, page, a.cfg.PageSize)
			return nil
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "search text")
	cmd.Flags().StringVarP(&channel, "channel", "c", "", "channel filter")
	cmd.Flags().IntVarP(&page, "page", "p", 1, "page number")
	return cmd
}

func printContactsPage(out io.Writer, contacts []models.Contact, page, size int) {
	start, end := listing.Window(len(contacts), page, size)
	total := listing.TotalPages(len(contacts), size)
	printTable(out, contactHeaders, contactRows(contacts[start:end]))
	fmt.Fprintf(out, "page %d of %d (%d contacts)\n", listing.ClampPage(page, total), total, len(contacts))
}

// contactFields are the flags shared by contacts create and edit.
type contactFields struct {
	first, last, phone, email, business, gender string
	tags                                        []string
}

func (f *contactFields) bind(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.first, "first", "", "first name")
	fl.StringVar(&f.last, "last", "", "last name")
	fl.StringVar(&f.phone, "phone", "", "phone number, normalized for the channel")
	fl.StringVar(&f.email, "email", "", "client e-mail")
	fl.StringVar(&f.business, "business", "", "client business detail")
	fl.StringVar(&f.gender, "gender", "", "gender")
	fl.StringSliceVarP(&f.tags, "tag", "t", nil, "tag names")
}

// apply copies the flags that were set onto form. The phone goes last so it
// is formatted for the channel already on the form.
func (f *contactFields) apply(cmd *cobra.Command, form *forms.ContactForm) {
	changed := cmd.Flags().Changed
	if changed("first") {
		form.FirstName = f.first
	}
	if changed("last") {
		form.LastName = f.last
	}
	if changed("email") {
		form.ClientEmail = f.email
	}
	if changed("business") {
		form.ClientBusinessDetail = f.business
	}
	if changed("gender") {
		form.Gender = f.gender
	}
	if changed("tag") {
		form.Tags = f.tags
	}
	if changed("phone") {
		form.SetPhone(f.phone)
	}
}

func newContactsCreateCmd(a *app) *cobra.Command {
	var fields contactFields
	var channel string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a contact on one of the company's channels",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, err := a.session(ctx)
			if err != nil {
				return err
			}
			form := forms.NewContactForm(sess.Company)
			form.SetChannel(channel)
			fields.apply(cmd, form)

			modal := sess.Modal(a.notices, a.logger)
			modal.OnSaved = func(ctx context.Context) error {
				contacts, err := a.client.Contacts.List(ctx, "", form.Channel)
				if err != nil {
					return err
				}
				printContactsPage(cmd.OutOrStdout(), contacts, 1, a.cfg.PageSize)
				return nil
			}
			_, err = modal.Submit(ctx, form)
			return err
		},
	}
	cmd.Flags().StringVarP(&channel, "channel", "c", "", "one of "+strings.Join(models.ContactChannels, ", "))
	fields.bind(cmd)
	return cmd
}

func newContactsEditCmd(a *app) *cobra.Command {
	var fields contactFields
	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Update the fields of one contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			contact, err := a.client.Contacts.Get(ctx, args[0])
			if err != nil {
				a.notices.Error(err.Error())
				return err
			}
			sess, err := a.session(ctx)
			if err != nil {
				return err
			}
			form := forms.EditContactForm(*contact)
			fields.apply(cmd, form)

			modal := sess.Modal(a.notices, a.logger)
			modal.OnSaved = func(ctx context.Context) error {
				updated, err := a.client.Contacts.Get(ctx, contact.ID)
				if err != nil {
					return err
				}
				printTable(cmd.OutOrStdout(), contactHeaders, contactRows([]models.Contact{*updated}))
				return nil
			}
			_, err = modal.Submit(ctx, form)
			return err
		},
	}
	fields.bind(cmd)
	return cmd
}

func newContactsExportCmd(a *app) *cobra.Command {
	var search, channel, output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write contacts as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			n, err := a.client.Contacts.ExportCSV(cmd.Context(), w, search, channel)
			if err != nil {
				a.notices.Error(err.Error())
				return err
			}
			if output != "" {
				a.notices.Success(fmt.Sprintf("Exported %d contacts to %s", n, output))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "search text")
	cmd.Flags().StringVarP(&channel, "channel", "c", "", "channel filter")
	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write instead of stdout (e.g. "+export.Filename+")")
	return cmd
}

func newContactsImportCmd(a *app) *cobra.Command {
	var channel string
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import contacts from an .xlsx or .xls sheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			sess, err := a.session(cmd.Context())
			if err != nil {
				return err
			}

			imp := importer.New(a.client.Caller(), a.client.Token(), sess.Company,
				importer.WithNotifier(a.notices),
				importer.WithLogger(a.logger),
			)
			res, err := imp.Import(cmd.Context(), filepath.Base(args[0]), data, channel)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "imported %d contacts\n", res.Imported)
			for _, s := range res.Skipped {
				fmt.Fprintf(out, "  row %d skipped: %s\n", s.Row, s.Reason)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&channel, "channel", "c", "", "channel every row must belong to")
	return cmd
}

func newContactsDeleteCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete one contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !yes {
				c, err := a.client.Contacts.Get(ctx, args[0])
				if err != nil {
					a.notices.Error(err.Error())
					return err
				}
				if !confirm(cmd, fmt.Sprintf("Delete %s (%s)?", c.FullName(), c.PhoneNumber)) {
					return nil
				}
			}
			if err := a.client.Contacts.Delete(ctx, args[0]); err != nil {
				a.notices.Error(tui.MsgDeleteFailed)
				return err
			}
			a.notices.Success(tui.MsgDeleted)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation")
	return cmd
}

func confirm(cmd *cobra.Command, prompt string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", prompt)
	answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	return strings.EqualFold(strings.TrimSpace(answer), "y")
}

func newContactsWatchCmd(a *app) *cobra.Command {
	var search, channel string
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print the contact count and refresh on every change",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			list := listing.New(func(ctx context.Context, q listing.Query) ([]models.Contact, error) {
				return a.client.Contacts.List(ctx, search, channel)
			},
				listing.WithPageSize(a.cfg.PageSize),
				listing.WithNotifier(a.notices),
				listing.WithLogger(a.logger),
				listing.WithFailureMessage(tui.MsgFetchFailed),
			)
			defer list.Close()
			if err := list.Mount(ctx); err != nil {
				return err
			}
			report := func() {
				v := list.View()
				fmt.Fprintf(out, "%d contacts\n", v.Total)
				printTable(out, contactHeaders, contactRows(v.Items))
			}
			report()

			url, err := ws.WatchURL(a.cfg.BaseURL)
			if err != nil {
				return err
			}
			return ws.Watch(ctx, url, a.cfg.Token, func(ev ws.Event) {
				if ev.Type != "contacts" {
					return
				}
				a.logger.Debug("contacts changed", zap.String("action", ev.Action), zap.String("id", ev.ID))
				if err := list.Refresh(ctx); err == nil {
					report()
				}
			})
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "search text")
	cmd.Flags().StringVarP(&channel, "channel", "c", "", "channel filter")
	return cmd
}

func newContactsBrowseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse contacts interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			return tui.Run(cmd.Context(), tui.Config{
				Fetch:    a.client.Contacts.Fetcher(),
				Delete:   a.client.Contacts.Delete,
				Theme:    sess.Theme,
				Delay:    a.cfg.Debounce,
				PageSize: a.cfg.PageSize,
				Notices:  notify.NewCenter(notify.WithLogger(a.logger)),
			})
		},
	}
}
