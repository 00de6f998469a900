package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"cpaas-portal/internal/middleware"
	"cpaas-portal/internal/models"
	"cpaas-portal/internal/ws"
	wire "cpaas-portal/pkg/models"
)

type TeamHandler struct {
	base
}

func NewTeamHandler(d Deps) *TeamHandler {
	return &TeamHandler{base{d}}
}

// GetTeams handles GET /teams. role keeps teams with at least one member of
// that role.
func (h *TeamHandler) GetTeams(c *gin.Context) {
	q := h.scoped(c).Order("created_at DESC")
	if search := strings.ToLower(strings.TrimSpace(c.Query("search"))); search != "" {
		q = q.Where("LOWER(team_name) LIKE ?", "%"+search+"%")
	}
	var teams []models.Team
	if err := q.Find(&teams).Error; err != nil {
		dbFail(c, h.Logger, err, "", "Failed to fetch teams")
		return
	}

	if role := c.Query("role"); role != "" {
		var ids []string
		if err := h.scoped(c).Model(&models.User{}).Where("role = ?", role).Pluck("id", &ids).Error; err != nil {
			dbFail(c, h.Logger, err, "", "Failed to fetch teams")
			return
		}
		withRole := make(map[string]bool, len(ids))
		for _, id := range ids {
			withRole[id] = true
		}
		kept := teams[:0]
		for _, t := range teams {
			for _, m := range t.Members {
				if withRole[m] {
					kept = append(kept, t)
					break
				}
			}
		}
		teams = kept
	}

	out := make([]wire.Team, 0, len(teams))
	for i := range teams {
		out = append(out, teams[i].ToWire())
	}
	ok(c, http.StatusOK, "", gin.H{"teams": out})
}

// GetTeam handles GET /teams/:id
func (h *TeamHandler) GetTeam(c *gin.Context) {
	var team models.Team
	if err := h.scoped(c).First(&team, "id = ?", c.Param("id")).Error; err != nil {
		dbFail(c, h.Logger, err, "Team not found", "Failed to fetch team")
		return
	}
	ok(c, http.StatusOK, "", gin.H{"team": team.ToWire()})
}

type teamRequest struct {
	TeamName string   `json:"teamName" binding:"required"`
	Members  []string `json:"members" binding:"required,min=1"`
}

// unknownMembers returns the ids that are not admins of the caller's company.
func (h *TeamHandler) unknownMembers(c *gin.Context, ids []string) ([]string, error) {
	var found []string
	if err := h.scoped(c).Model(&models.User{}).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return nil, err
	}
	var missing []string
	for _, id := range ids {
		if !contains(found, id) {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

// CreateTeam handles POST /teams
func (h *TeamHandler) CreateTeam(c *gin.Context) {
	var req teamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Please fill in all fields!")
		return
	}
	missing, err := h.unknownMembers(c, req.Members)
	if err != nil {
		dbFail(c, h.Logger, err, "", "Team creation failed")
		return
	}
	if len(missing) > 0 {
		fail(c, http.StatusBadRequest, "Unknown team members: "+strings.Join(missing, ", "))
		return
	}

	team := models.Team{CompanyID: middleware.GetCompanyID(c), TeamName: req.TeamName, Members: req.Members}
	if err := h.DB.WithContext(c.Request.Context()).Create(&team).Error; err != nil {
		dbFail(c, h.Logger, err, "", "Team creation failed")
		return
	}

	h.publish(c, "teams", ws.ActionCreated, team.ID)
	ok(c, http.StatusCreated, "Team created successfully!", gin.H{"team": team.ToWire()})
}

// UpdateTeam handles PATCH /teams/:id
func (h *TeamHandler) UpdateTeam(c *gin.Context) {
	var req teamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Please fill in all fields!")
		return
	}

	var team models.Team
	if err := h.scoped(c).First(&team, "id = ?", c.Param("id")).Error; err != nil {
		dbFail(c, h.Logger, err, "Team not found", "Team update failed")
		return
	}
	missing, err := h.unknownMembers(c, req.Members)
	if err != nil {
		dbFail(c, h.Logger, err, "", "Team update failed")
		return
	}
	if len(missing) > 0 {
		fail(c, http.StatusBadRequest, "Unknown team members: "+strings.Join(missing, ", "))
		return
	}

	team.TeamName = req.TeamName
	team.Members = req.Members
	if err := h.DB.WithContext(c.Request.Context()).Save(&team).Error; err != nil {
		dbFail(c, h.Logger, err, "Team not found", "Team update failed")
		return
	}

	h.publish(c, "teams", ws.ActionUpdated, team.ID)
	ok(c, http.StatusOK, "Team updated successfully!", gin.H{"team": team.ToWire()})
}

// DeleteTeam handles DELETE /teams/:id
func (h *TeamHandler) DeleteTeam(c *gin.Context) {
	result := h.scoped(c).Delete(&models.Team{}, "id = ?", c.Param("id"))
	if result.Error != nil {
		dbFail(c, h.Logger, result.Error, "", "Failed to delete Team")
		return
	}
	if result.RowsAffected == 0 {
		fail(c, http.StatusNotFound, "Team not found")
		return
	}

	h.publish(c, "teams", ws.ActionDeleted, c.Param("id"))
	ok(c, http.StatusOK, "Team Deleted Successfully", nil)
}
