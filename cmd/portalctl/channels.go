package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cpaas-portal/internal/forms"
	"cpaas-portal/pkg/models"
)

func newChannelsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "channels",
		Short: "Connect and manage messaging channels",
	}

	list := &cobra.Command{
		Use:       "list TYPE",
		Short:     "List connected channels of one type",
		Args:      cobra.ExactArgs(1),
		ValidArgs: models.ChannelTypes,
		RunE: func(cmd *cobra.Command, args []string) error {
			channels, err := a.client.Channels.List(cmd.Context(), args[0])
			if err != nil {
				a.notices.Error(err.Error())
				return err
			}
			rows := make([][]string, 0, len(channels))
			for _, ch := range channels {
				rows = append(rows, []string{ch.ID, ch.Name, fmt.Sprint(ch.IsActive)})
			}
			printTable(cmd.OutOrStdout(), []string{"ID", "Name", "Active"}, rows)
			return nil
		},
	}

	toggle := &cobra.Command{
		Use:   "toggle TYPE ID",
		Short: "Activate or deactivate a channel",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ch, err := a.client.Channels.ToggleActive(cmd.Context(), args[0], args[1])
			if err != nil {
				a.notices.Error(err.Error())
				return err
			}
			a.notices.Success(fmt.Sprintf("%s active=%t", ch.Name, ch.IsActive))
			return nil
		},
	}

	remove := &cobra.Command{
		Use:   "delete TYPE ID",
		Short: "Disconnect a channel",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client.Channels.Delete(cmd.Context(), args[0], args[1]); err != nil {
				a.notices.Error(err.Error())
				return err
			}
			a.notices.Success(fmt.Sprintf("%s disconnected successfully", args[0]))
			return nil
		},
	}

	cmd.AddCommand(list, toggle, remove, newConnectCmd(a))
	return cmd
}

// newConnectCmd creates a channel, or reconfigures one when --id is set.
func newConnectCmd(a *app) *cobra.Command {
	var id, name string
	var wa models.WhatsAppConfig
	var tw models.TwilioConfig
	var em models.EmailConfig
	var vo models.VoiceConfig
	var domains, welcome string

	cmd := &cobra.Command{
		Use:       "connect TYPE",
		Short:     "Connect a channel: " + strings.Join(models.ChannelTypes, ", "),
		Args:      cobra.ExactArgs(1),
		ValidArgs: models.ChannelTypes,
		RunE: func(cmd *cobra.Command, args []string) error {
			var form *forms.ChannelForm
			switch args[0] {
			case models.ChannelWhatsApp:
				form = forms.NewWhatsAppForm(id, name, wa)
			case models.ChannelTwilio:
				form = forms.NewTwilioForm(id, name, tw)
			case models.ChannelWebChat:
				form = forms.NewWebChatForm(id, name, domains, welcome)
			case models.ChannelEmail:
				form = forms.NewEmailForm(id, name, em)
			case models.ChannelVoice:
				form = forms.NewVoiceForm(id, name, vo)
			default:
				return fmt.Errorf("unknown channel type %q", args[0])
			}

			sess, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			_, err = sess.Modal(a.notices, a.logger).Submit(cmd.Context(), form)
			return err
		},
	}

	f := cmd.Flags()
	f.StringVar(&id, "id", "", "existing channel id to update")
	f.StringVar(&name, "name", "", "channel name")
	f.StringVar(&wa.BusinessNumber, "business-number", "", "whatsapp business number")
	f.StringVar(&wa.PhoneNumberID, "phone-number-id", "", "whatsapp phone number id")
	f.StringVar(&wa.AccessToken, "access-token", "", "whatsapp access token")
	f.StringVar(&tw.AccountSID, "account-sid", "", "twilio account sid")
	f.StringVar(&tw.AuthToken, "auth-token", "", "twilio auth token")
	f.StringVar(&tw.TwilioNumber, "twilio-number", "", "twilio number")
	f.StringVar(&domains, "domains", "", "webchat allowed domains, comma separated")
	f.StringVar(&welcome, "welcome", "", "webchat welcome message")
	f.StringVar(&em.FromAddress, "from-address", "", "email sender address")
	f.StringVar(&em.FromName, "from-name", "", "email sender name")
	f.StringVar(&vo.Number, "voice-number", "", "voice number")
	f.StringVar(&vo.APIKey, "voice-api-key", "", "voice api key")
	return cmd
}
