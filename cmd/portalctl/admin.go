package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"cpaas-portal/internal/forms"
	"cpaas-portal/internal/theme"
	"cpaas-portal/pkg/models"
)

func newTeamsCmd(a *app) *cobra.Command {
	var search, role string
	list := &cobra.Command{
		Use:   "list",
		Short: "List teams",
		RunE: func(cmd *cobra.Command, args []string) error {
			teams, err := a.client.Teams.List(cmd.Context(), search, role)
			if err != nil {
				a.notices.Error(err.Error())
				return err
			}
			rows := make([][]string, 0, len(teams))
			for _, t := range teams {
				rows = append(rows, []string{t.ID, t.TeamName, fmt.Sprint(len(t.Members))})
			}
			printTable(cmd.OutOrStdout(), []string{"ID", "Team", "Members"}, rows)
			return nil
		},
	}
	list.Flags().StringVarP(&search, "search", "s", "", "search text")
	list.Flags().StringVarP(&role, "role", "r", "", "only teams with a member of this role")

	cmd := &cobra.Command{Use: "teams", Short: "Manage teams of administrators"}
	cmd.AddCommand(list, newTeamsCreateCmd(a), newTeamsEditCmd(a), newTeamsDeleteCmd(a))
	return cmd
}

func printTeam(cmd *cobra.Command, t *models.Team) {
	printTable(cmd.OutOrStdout(), []string{"ID", "Team", "Members"},
		[][]string{{t.ID, t.TeamName, strings.Join(t.Members, ", ")}})
}

func newTeamsCreateCmd(a *app) *cobra.Command {
	var members []string
	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a team from administrator ids",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, err := a.session(ctx)
			if err != nil {
				return err
			}
			form := forms.NewTeamForm()
			form.TeamName = args[0]
			for _, id := range members {
				form.ToggleMember(id)
			}

			modal := sess.Modal(a.notices, a.logger)
			modal.OnSaved = func(ctx context.Context) error {
				teams, err := a.client.Teams.List(ctx, args[0], "")
				if err != nil {
					return err
				}
				for i := range teams {
					printTeam(cmd, &teams[i])
				}
				return nil
			}
			_, err = modal.Submit(ctx, form)
			return err
		},
	}
	cmd.Flags().StringSliceVarP(&members, "member", "m", nil, "administrator ids")
	return cmd
}

func newTeamsEditCmd(a *app) *cobra.Command {
	var name string
	var toggle []string
	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Rename a team or toggle its members",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			team, err := a.client.Teams.Get(ctx, args[0])
			if err != nil {
				a.notices.Error(err.Error())
				return err
			}
			sess, err := a.session(ctx)
			if err != nil {
				return err
			}
			form := forms.EditTeamForm(*team)
			if name != "" {
				form.TeamName = name
			}
			for _, id := range toggle {
				form.ToggleMember(id)
			}

			modal := sess.Modal(a.notices, a.logger)
			modal.OnSaved = func(ctx context.Context) error {
				updated, err := a.client.Teams.Get(ctx, team.ID)
				if err != nil {
					return err
				}
				printTeam(cmd, updated)
				return nil
			}
			_, err = modal.Submit(ctx, form)
			return err
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "new team name")
	cmd.Flags().StringSliceVarP(&toggle, "toggle", "t", nil, "administrator ids to add or remove")
	return cmd
}

func newTeamsDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a team",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client.Teams.Delete(cmd.Context(), args[0]); err != nil {
				a.notices.Error(err.Error())
				return err
			}
			a.notices.Success("Team Deleted Successfully")
			return nil
		},
	}
}

func newUsersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "users", Short: "Manage company administrators"}

	var search, role string
	list := &cobra.Command{
		Use:   "list",
		Short: "List administrators",
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := a.client.Users.Admins(cmd.Context(), search, role)
			if err != nil {
				a.notices.Error(err.Error())
				return err
			}
			rows := make([][]string, 0, len(users))
			for _, u := range users {
				status := "invited"
				if u.IsActive {
					status = "active"
				}
				rows = append(rows, []string{u.ID, strings.TrimSpace(u.FirstName + " " + u.LastName), u.Email, u.Role, status})
			}
			printTable(cmd.OutOrStdout(), []string{"ID", "Name", "Email", "Role", "Status"}, rows)
			return nil
		},
	}
	list.Flags().StringVarP(&search, "search", "s", "", "search text")
	list.Flags().StringVarP(&role, "role", "r", "", "role filter")

	invite := forms.NewInviteForm()
	var resources []string
	inviteCmd := &cobra.Command{
		Use:   "invite EMAIL",
		Short: "Invite an administrator by e-mail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			invite.Email = args[0]
			for _, r := range resources {
				invite.ToggleResource(r)
			}
			sess, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			_, err = sess.Modal(a.notices, a.logger).Submit(cmd.Context(), invite)
			return err
		},
	}
	inviteCmd.Flags().StringVarP(&invite.Role, "role", "r", models.RoleAdmin, "one of "+strings.Join(models.Roles, ", "))
	inviteCmd.Flags().StringSliceVar(&resources, "resources", []string{"Contacts"}, "granted resources: "+strings.Join(models.Resources, ", "))

	verify := &cobra.Command{
		Use:   "verify INVITE_TOKEN",
		Short: "Accept an invitation and print the session token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, err := a.client.Users.VerifyInvite(cmd.Context(), args[0])
			if err != nil {
				a.notices.Error(err.Error())
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s joined as %s\ntoken: %s\n", inv.Email, inv.Role, inv.Token)
			return nil
		},
	}

	remove := &cobra.Command{
		Use:   "delete ID",
		Short: "Remove an administrator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client.Users.Delete(cmd.Context(), args[0]); err != nil {
				a.notices.Error(err.Error())
				return err
			}
			a.notices.Success("User deleted successfully!")
			return nil
		},
	}

	cmd.AddCommand(list, inviteCmd, verify, remove, newProfileCmd(a))
	return cmd
}

func newProfileCmd(a *app) *cobra.Command {
	var p forms.ProfileForm
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Update your own profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, err := a.session(ctx)
			if err != nil {
				return err
			}
			form := forms.EditProfileForm(sess.User)
			changed := cmd.Flags().Changed
			for flag, pair := range map[string][2]*string{
				"first":    {&form.FirstName, &p.FirstName},
				"last":     {&form.LastName, &p.LastName},
				"phone":    {&form.PhoneNumber, &p.PhoneNumber},
				"gender":   {&form.Gender, &p.Gender},
				"country":  {&form.Country, &p.Country},
				"timezone": {&form.Timezone, &p.Timezone},
				"address":  {&form.Address, &p.Address},
				"picture":  {&form.ProfilePicture, &p.ProfilePicture},
			} {
				if changed(flag) {
					*pair[0] = *pair[1]
				}
			}

			modal := sess.Modal(a.notices, a.logger)
			modal.OnSaved = sess.Reload
			if _, err := modal.Submit(ctx, form); err != nil {
				return err
			}
			u := sess.User
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s <%s> %s\n", u.FirstName, u.LastName, u.Email, u.PhoneNumber)
			return nil
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&p.FirstName, "first", "", "first name")
	fl.StringVar(&p.LastName, "last", "", "last name")
	fl.StringVar(&p.PhoneNumber, "phone", "", "phone number")
	fl.StringVar(&p.Gender, "gender", "", "gender")
	fl.StringVar(&p.Country, "country", "", "country")
	fl.StringVar(&p.Timezone, "timezone", "", "timezone offset")
	fl.StringVar(&p.Address, "address", "", "address")
	fl.StringVar(&p.ProfilePicture, "picture", "", "profile picture url, see portalctl upload")
	return cmd
}

func swatch(color string) string {
	return lipgloss.NewStyle().Background(lipgloss.Color(color)).Render("      ") + " " + color
}

func newCompanyCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "company", Short: "Company settings and integrations"}

	themeCmd := &cobra.Command{
		Use:   "theme",
		Short: "Show the session colours",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s)\n", sess.Company.CompanyName, sess.Company.Language)
			fmt.Fprintf(out, "primary   %s\n", swatch(sess.Theme.Primary))
			fmt.Fprintf(out, "secondary %s\n", swatch(sess.Theme.Secondary))
			for _, ch := range sess.Channels() {
				fmt.Fprintf(out, "channel   %s %s\n", ch.Type, ch.ChannelID)
			}
			for _, tool := range []string{models.ToolOpenAI, models.ToolGoogleCalendar} {
				fmt.Fprintf(out, "tool      %s connected=%t\n", tool, sess.HasTool(tool))
			}
			return nil
		},
	}

	var color, language string
	set := &cobra.Command{
		Use:   "set",
		Short: "Change the brand colour or language",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, err := a.session(ctx)
			if err != nil {
				return err
			}
			form := forms.EditCompanyForm(sess.Company)
			if color != "" {
				form.BrandColor = color
			}
			if language != "" {
				form.Language = language
			}
			modal := sess.Modal(a.notices, a.logger)
			modal.OnSaved = sess.Reload
			if _, err := modal.Submit(ctx, form); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "primary %s\n", swatch(sess.Theme.Primary))
			return nil
		},
	}
	set.Flags().StringVar(&color, "color", "", "brand colour as #rrggbb (default "+theme.DefaultBrandColor+")")
	set.Flags().StringVar(&language, "language", "", "one of "+strings.Join(models.Languages, ", "))

	toggle := &cobra.Command{
		Use:   "toggle",
		Short: "Activate or deactivate the company",
		RunE: func(cmd *cobra.Command, args []string) error {
			company, err := a.client.Companies.ToggleDeletion(cmd.Context())
			if err != nil {
				a.notices.Error(err.Error())
				return err
			}
			if company.IsActive {
				a.notices.Success("Company activated!")
			} else {
				a.notices.Info("Company deactivated. You will be logged out.")
			}
			return nil
		},
	}

	cmd.AddCommand(themeCmd, set, toggle, newOpenAICmd(a), newGoogleCmd(a))
	return cmd
}

func newOpenAICmd(a *app) *cobra.Command {
	var disconnect bool
	form := &forms.OpenAIForm{}
	cmd := &cobra.Command{
		Use:   "openai",
		Short: "Connect or disconnect OpenAI",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if disconnect {
				if err := a.client.Tools.DisconnectOpenAI(ctx); err != nil {
					a.notices.Error(err.Error())
					return err
				}
				a.notices.Success("Integration deleted!")
				return nil
			}
			if form.APIKey == "" {
				form.APIKey = os.Getenv("OPENAI_API_KEY")
			}
			sess, err := a.session(ctx)
			if err != nil {
				return err
			}
			_, err = sess.Modal(a.notices, a.logger).Submit(ctx, form)
			return err
		},
	}
	cmd.Flags().StringVar(&form.APIKey, "api-key", "", "OpenAI API key (or OPENAI_API_KEY)")
	cmd.Flags().BoolVar(&disconnect, "disconnect", false, "remove the integration")
	return cmd
}

func newGoogleCmd(a *app) *cobra.Command {
	var disconnect bool
	cmd := &cobra.Command{
		Use:   "google-calendar",
		Short: "Print the Google Calendar consent link, or disconnect",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if disconnect {
				if err := a.client.Tools.DisconnectGoogleCalendar(ctx); err != nil {
					a.notices.Error(err.Error())
					return err
				}
				a.notices.Success("Integration deleted!")
				return nil
			}
			authURL, err := a.client.Auth.GoogleAuthURL(ctx)
			if err != nil {
				a.notices.Error(err.Error())
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), authURL)
			return nil
		},
	}
	cmd.Flags().BoolVar(&disconnect, "disconnect", false, "remove the integration")
	return cmd
}

func newUploadCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "upload FILE",
		Short: "Upload a file and print its public URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			files, err := a.client.Helper.Upload(cmd.Context(), filepath.Base(args[0]), f)
			if err != nil {
				a.notices.Error(err.Error())
				return err
			}
			for _, file := range files {
				fmt.Fprintln(cmd.OutOrStdout(), file.URL)
			}
			return nil
		},
	}
}
