package forms

import (
	"net/http"

	"cpaas-portal/pkg/models"
)

// TeamForm creates or edits a team of admins.
type TeamForm struct {
	ID       string   `json:"-"`
	TeamName string   `json:"teamName" validate:"required"`
	Members  []string `json:"members" validate:"required,min=1"`
}

func NewTeamForm() *TeamForm {
	return &TeamForm{}
}

func EditTeamForm(t models.Team) *TeamForm {
	return &TeamForm{ID: t.ID, TeamName: t.TeamName, Members: append([]string(nil), t.Members...)}
}

func (f *TeamForm) Mode() Mode { return modeOf(f.ID) }

// ToggleMember adds userID when absent and removes it when present.
func (f *TeamForm) ToggleMember(userID string) {
	f.Members = toggle(f.Members, userID)
}

func (f *TeamForm) HasMember(userID string) bool {
	return contains(f.Members, userID)
}

func (f *TeamForm) Validate() error {
	return check(f, msgFillAll)
}

func (f *TeamForm) Request() (string, string, any) {
	payload := map[string]any{"teamName": f.TeamName, "members": f.Members}
	if f.Mode() == ModeEdit {
		return http.MethodPatch, "teams/" + f.ID, payload
	}
	return http.MethodPost, "teams", payload
}

func (f *TeamForm) Messages() Messages {
	if f.Mode() == ModeEdit {
		return Messages{Success: "Team updated successfully!", Failure: "Team update failed"}
	}
	return Messages{Success: "Team created successfully!", Failure: "Team creation failed"}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// toggle returns a new slice with v appended or filtered out.
func toggle(list []string, v string) []string {
	if contains(list, v) {
		out := make([]string, 0, len(list))
		for _, s := range list {
			if s != v {
				out = append(out, s)
			}
		}
		return out
	}
	return append(append([]string(nil), list...), v)
}
