package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"cpaas-portal/internal/forms"
	"cpaas-portal/internal/tagging"
	"cpaas-portal/pkg/models"
)

func newTagsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "Manage tags and the tags on a contact",
	}
	cmd.AddCommand(
		newTagsListCmd(a),
		newTagsCreateCmd(a),
		newTagsDeleteCmd(a),
		newTagsEditCmd(a),
	)
	return cmd
}

func newTagsListCmd(a *app) *cobra.Command {
	var search string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tags with their contact counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			tags, err := a.client.Tags.List(cmd.Context(), search)
			if err != nil {
				a.notices.Error(err.Error())
				return err
			}
			rows := make([][]string, 0, len(tags))
			for _, t := range tags {
				rows = append(rows, []string{t.ID, t.Favicon + " " + t.Name, t.Description, strconv.Itoa(t.ContactCount)})
			}
			printTable(cmd.OutOrStdout(), []string{"ID", "Name", "Description", "Contacts"}, rows)
			return nil
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "search text")
	return cmd
}

func newTagsCreateCmd(a *app) *cobra.Command {
	form := forms.NewTagForm()
	var favicon string
	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			form.Name = args[0]
			if favicon != "" && !form.SetFavicon(favicon) {
				return fmt.Errorf("favicon must be one of %s", strings.Join(forms.Favicons, " "))
			}
			sess, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			_, err = sess.Modal(a.notices, a.logger).Submit(cmd.Context(), form)
			return err
		},
	}
	cmd.Flags().StringVarP(&form.Description, "description", "d", "", "tag description")
	cmd.Flags().StringVar(&favicon, "favicon", forms.DefaultFavicon, "tag icon")
	return cmd
}

func newTagsDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a tag and detach it from every contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client.Tags.Delete(cmd.Context(), args[0]); err != nil {
				a.notices.Error(err.Error())
				return err
			}
			a.notices.Success("Tag deleted successfully!")
			return nil
		},
	}
}

// newTagsEditCmd toggles tag names on one contact and saves the result as a
// single update.
func newTagsEditCmd(a *app) *cobra.Command {
	var toggle []string
	var remove string
	cmd := &cobra.Command{
		Use:   "edit CONTACT_ID",
		Short: "Toggle or remove tags on a contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			contact, err := a.client.Contacts.Get(ctx, args[0])
			if err != nil {
				a.notices.Error(err.Error())
				return err
			}

			var updated *models.Contact
			editor := tagging.NewEditor(a.client.Caller(), a.client.Token(),
				tagging.WithNotifier(a.notices),
				tagging.WithLogger(a.logger),
				tagging.OnSaved(func(ctx context.Context) error {
					c, err := a.client.Contacts.Get(ctx, contact.ID)
					updated = c
					return err
				}),
			)

			if remove != "" {
				if err := editor.Remove(ctx, *contact, remove); err != nil {
					return err
				}
			} else {
				editor.Open(*contact)
				for _, name := range toggle {
					editor.Toggle(name)
				}
				if !editor.Dirty() {
					editor.Close()
					fmt.Fprintln(cmd.OutOrStdout(), "no changes")
					return nil
				}
				if err := editor.Save(ctx); err != nil {
					return err
				}
			}
			if updated != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", updated.FullName(), strings.Join(updated.Tags, ", "))
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&toggle, "toggle", "t", nil, "tag names to toggle")
	cmd.Flags().StringVar(&remove, "remove", "", "remove one tag immediately")
	return cmd
}
