package portal

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"cpaas-portal/internal/gateway"
)

// SessionExpiredMessage is shown when the server no longer accepts the token.
const SessionExpiredMessage = "Session expired, please login again"

// Client groups the typed services of the admin API over one gateway and token.
type Client struct {
	caller gateway.Caller
	token  string
	common service

	Users     *UsersService
	Contacts  *ContactsService
	Tags      *TagsService
	Teams     *TeamsService
	Companies *CompaniesService
	Channels  *ChannelsService
	Tools     *ToolsService
	Auth      *AuthService
	Helper    *HelperService
}

type service struct {
	client *Client
}

func New(caller gateway.Caller, token string) *Client {
	c := &Client{caller: caller, token: token}
	c.common.client = c
	s := &c.common
	c.Users = (*UsersService)(s)
	c.Contacts = (*ContactsService)(s)
	c.Tags = (*TagsService)(s)
	c.Teams = (*TeamsService)(s)
	c.Companies = (*CompaniesService)(s)
	c.Channels = (*ChannelsService)(s)
	c.Tools = (*ToolsService)(s)
	c.Auth = (*AuthService)(s)
	c.Helper = (*HelperService)(s)
	return c
}

func (c *Client) Caller() gateway.Caller { return c.caller }
func (c *Client) Token() string          { return c.token }

func (c *Client) get(ctx context.Context, path string, q url.Values) (*gateway.Response, error) {
	var opts []gateway.CallOption
	if len(q) > 0 {
		opts = append(opts, gateway.WithQuery(q))
	}
	return c.caller.Call(ctx, http.MethodGet, path, c.token, nil, opts...)
}

func (c *Client) do(ctx context.Context, method, path string, payload any) (*gateway.Response, error) {
	return c.caller.Call(ctx, method, path, c.token, payload)
}

// list fetches path and decodes data[key] into a slice, never returning nil.
func list[T any](ctx context.Context, c *Client, path, key string, q url.Values) ([]T, error) {
	resp, err := c.get(ctx, path, q)
	if err != nil {
		return nil, err
	}
	var out []T
	if err := resp.Decode(key, &out); err != nil {
		return nil, &gateway.Error{Kind: gateway.KindMalformed, Method: http.MethodGet, Path: path, Status: resp.Status, Message: "Unexpected response from server", Err: err}
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func one[T any](ctx context.Context, c *Client, method, path, key string, payload any) (*T, error) {
	var resp *gateway.Response
	var err error
	if method == http.MethodGet {
		resp, err = c.get(ctx, path, nil)
	} else {
		resp, err = c.do(ctx, method, path, payload)
	}
	if err != nil {
		return nil, err
	}
	out := new(T)
	if err := resp.Decode(key, out); err != nil {
		return nil, &gateway.Error{Kind: gateway.KindMalformed, Method: method, Path: path, Status: resp.Status, Message: "Unexpected response from server", Err: err}
	}
	return out, nil
}

func query(pairs ...string) url.Values {
	q := url.Values{}
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] != "" {
			q.Set(pairs[i], pairs[i+1])
		}
	}
	return q
}

// IsUnauthorized reports whether err means the token was refused.
func IsUnauthorized(err error) bool {
	var gwErr *gateway.Error
	return errors.As(err, &gwErr) && gwErr.Kind == gateway.KindStatus && gwErr.Status == http.StatusUnauthorized
}
