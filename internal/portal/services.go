package portal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"cpaas-portal/internal/export"
	"cpaas-portal/internal/gateway"
	"cpaas-portal/internal/listing"
	"cpaas-portal/pkg/models"
)

var (
	ErrGoogleInitiate = errors.New("Failed to initiate Google Calendar connection")
	ErrUploadFailed   = errors.New("Upload failed")
)

type UsersService service

// Me returns the signed-in admin with their company.
func (s *UsersService) Me(ctx context.Context) (*models.User, error) {
	return one[models.User](ctx, s.client, http.MethodGet, "users", "user", nil)
}

// Admins lists company admins matching search and role.
func (s *UsersService) Admins(ctx context.Context, search, role string) ([]models.User, error) {
	return list[models.User](ctx, s.client, "users/get-company-admins", "users", query("search", search, "role", role))
}

func (s *UsersService) Fetcher() listing.Fetcher[models.User] {
	return func(ctx context.Context, q listing.Query) ([]models.User, error) {
		return s.Admins(ctx, q.Search, q.Filter)
	}
}

func (s *UsersService) Delete(ctx context.Context, id string) error {
	_, err := s.client.do(ctx, http.MethodDelete, "users/delete-administrator/"+id, nil)
	return err
}

// Invitation is what a verified invite token grants.
type Invitation struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	Token string `json:"token"`
}

// VerifyInvite checks an invite token. It is sent without authorization.
func (s *UsersService) VerifyInvite(ctx context.Context, inviteToken string) (*Invitation, error) {
	resp, err := s.client.caller.Call(ctx, http.MethodPost, "users/verify-invite-token", "", map[string]string{"token": inviteToken})
	if err != nil {
		return nil, err
	}
	inv := &Invitation{}
	if len(resp.Data) > 0 {
		if err := resp.DecodeData(inv); err != nil {
			return nil, fmt.Errorf("decode invitation: %w", err)
		}
	}
	return inv, nil
}

type ContactsService service

// List fetches contacts; channel is optional.
func (s *ContactsService) List(ctx context.Context, search, channel string) ([]models.Contact, error) {
	return list[models.Contact](ctx, s.client, "contacts", "contacts", query("search", search, "channel", channel))
}

func (s *ContactsService) Fetcher() listing.Fetcher[models.Contact] {
	return func(ctx context.Context, q listing.Query) ([]models.Contact, error) {
		return s.List(ctx, q.Search, q.Filter)
	}
}

func (s *ContactsService) Get(ctx context.Context, id string) (*models.Contact, error) {
	return one[models.Contact](ctx, s.client, http.MethodGet, "contacts/"+id, "contact", nil)
}

func (s *ContactsService) Delete(ctx context.Context, id string) error {
	_, err := s.client.do(ctx, http.MethodDelete, "contacts/"+id, nil)
	return err
}

// ExportCSV writes the contacts matching search and channel as CSV.
func (s *ContactsService) ExportCSV(ctx context.Context, w io.Writer, search, channel string) (int, error) {
	contacts, err := s.List(ctx, search, channel)
	if err != nil {
		return 0, err
	}
	if err := export.WriteContacts(w, contacts); err != nil {
		return 0, err
	}
	return len(contacts), nil
}

type TagsService service

func (s *TagsService) List(ctx context.Context, search string) ([]models.Tag, error) {
	return list[models.Tag](ctx, s.client, "tags", "tags", query("search", search))
}

func (s *TagsService) Fetcher() listing.Fetcher[models.Tag] {
	return func(ctx context.Context, q listing.Query) ([]models.Tag, error) {
		return s.List(ctx, q.Search)
	}
}

func (s *TagsService) Delete(ctx context.Context, id string) error {
	_, err := s.client.do(ctx, http.MethodDelete, "tags/"+id, nil)
	return err
}

type TeamsService service

func (s *TeamsService) List(ctx context.Context, search, role string) ([]models.Team, error) {
	return list[models.Team](ctx, s.client, "teams", "teams", query("search", search, "role", role))
}

func (s *TeamsService) Fetcher() listing.Fetcher[models.Team] {
	return func(ctx context.Context, q listing.Query) ([]models.Team, error) {
		return s.List(ctx, q.Search, q.Filter)
	}
}

func (s *TeamsService) Get(ctx context.Context, id string) (*models.Team, error) {
	return one[models.Team](ctx, s.client, http.MethodGet, "teams/"+id, "team", nil)
}

func (s *TeamsService) Delete(ctx context.Context, id string) error {
	_, err := s.client.do(ctx, http.MethodDelete, "teams/"+id, nil)
	return err
}

type CompaniesService service

// ToggleDeletion activates or deactivates the company and returns its new state.
func (s *CompaniesService) ToggleDeletion(ctx context.Context) (*models.Company, error) {
	return one[models.Company](ctx, s.client, http.MethodPatch, "companies/toggle-deletion", "company", nil)
}

type ChannelsService service

func (s *ChannelsService) Get(ctx context.Context, channelType, id string) (*models.Channel, error) {
	return one[models.Channel](ctx, s.client, http.MethodGet, "channel/"+channelType+"/"+id, "channel", nil)
}

func (s *ChannelsService) List(ctx context.Context, channelType string) ([]models.Channel, error) {
	return list[models.Channel](ctx, s.client, "channel/"+channelType, "channels", nil)
}

func (s *ChannelsService) ToggleActive(ctx context.Context, channelType, id string) (*models.Channel, error) {
	return one[models.Channel](ctx, s.client, http.MethodPatch, "channel/"+channelType+"/toggle-active-channel/"+id, "channel", nil)
}

func (s *ChannelsService) Delete(ctx context.Context, channelType, id string) error {
	_, err := s.client.do(ctx, http.MethodDelete, "channel/"+channelType+"/"+id, nil)
	return err
}

type ToolsService service

func (s *ToolsService) DisconnectOpenAI(ctx context.Context) error {
	_, err := s.client.do(ctx, http.MethodDelete, "tool/open-ai", nil)
	return err
}

func (s *ToolsService) DisconnectGoogleCalendar(ctx context.Context) error {
	_, err := s.client.do(ctx, http.MethodDelete, "tool/google-calendar", nil)
	return err
}

type AuthService service

// GoogleAuthURL starts the Google Calendar consent flow and returns the URL
// the operator has to open.
func (s *AuthService) GoogleAuthURL(ctx context.Context) (string, error) {
	resp, err := s.client.do(ctx, http.MethodPost, "auth/google-auth/initiate", nil)
	if err != nil {
		return "", err
	}
	var out struct {
		AuthURL string `json:"authUrl"`
	}
	if err := resp.DecodeData(&out); err != nil || out.AuthURL == "" {
		return "", ErrGoogleInitiate
	}
	return out.AuthURL, nil
}

type HelperService service

// Upload stores a file and returns where it is served from.
func (s *HelperService) Upload(ctx context.Context, filename string, r io.Reader) ([]models.UploadedFile, error) {
	form := gateway.NewForm().File("file", filename, r)
	resp, err := s.client.caller.Upload(ctx, http.MethodPost, "helper/upload", s.client.token, form, gateway.WithAPIVersion("v2"))
	if err != nil {
		return nil, err
	}
	files := resp.Files()
	if len(files) == 0 {
		return nil, ErrUploadFailed
	}
	return files, nil
}
