package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"

	"cpaas-portal/internal/auth"
	"cpaas-portal/internal/config"
	"cpaas-portal/internal/mailer"
	"cpaas-portal/internal/middleware"
	"cpaas-portal/internal/observ"
	"cpaas-portal/internal/secrets"
	"cpaas-portal/internal/ws"
)

// Deps is everything the handlers share.
type Deps struct {
	DB      *gorm.DB
	Config  *config.Config
	Issuer  *auth.Issuer
	Secrets *secrets.Box
	Mailer  mailer.Sender
	Hub     *ws.Hub
	Logger  *zap.Logger
	OAuth   *oauth2.Config
}

// GoogleOAuth builds the consent config for the calendar integration.
func GoogleOAuth(cfg *config.Config) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
		Scopes:       []string{"https://www.googleapis.com/auth/calendar"},
		Endpoint:     google.Endpoint,
	}
}

// Register mounts every admin API route on r.
func Register(r *gin.Engine, d Deps) {
	d.Logger = observ.OrNop(d.Logger)
	if d.OAuth == nil {
		d.OAuth = GoogleOAuth(d.Config)
	}

	userHandler := NewUserHandler(d)
	contactHandler := NewContactHandler(d)
	tagHandler := NewTagHandler(d)
	teamHandler := NewTeamHandler(d)
	companyHandler := NewCompanyHandler(d)
	channelHandler := NewChannelHandler(d)
	toolHandler := NewToolHandler(d)
	helperHandler := NewHelperHandler(d)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.Static("/uploads", d.Config.UploadDir)

	public := r.Group("/api/v1")
	{
		public.POST("/users/verify-invite-token", userHandler.VerifyInvite)
		public.GET("/auth/google-auth/callback", toolHandler.GoogleCallback)
	}

	v1 := r.Group("/api/v1")
	v1.Use(middleware.AuthMiddleware(d.Issuer))
	{
		v1.GET("/ws", func(c *gin.Context) {
			d.Hub.ServeWs(c.Writer, c.Request, middleware.GetCompanyID(c))
		})

		v1.GET("/users", userHandler.Me)
		v1.PATCH("/users", userHandler.UpdateProfile)
		v1.GET("/users/get-company-admins", userHandler.ListAdmins)
		v1.POST("/users/invite", userHandler.Invite)
		v1.DELETE("/users/delete-administrator/:id", userHandler.DeleteAdmin)

		v1.GET("/contacts", contactHandler.GetContacts)
		v1.POST("/contacts", contactHandler.CreateContact)
		v1.GET("/contacts/export", contactHandler.ExportContacts)
		v1.POST("/contacts/import", contactHandler.ImportContacts)
		v1.GET("/contacts/:id", contactHandler.GetContact)
		v1.PATCH("/contacts/:id", contactHandler.UpdateContact)
		v1.DELETE("/contacts/:id", contactHandler.DeleteContact)

		v1.GET("/tags", tagHandler.GetTags)
		v1.POST("/tags", tagHandler.CreateTag)
		v1.DELETE("/tags/:id", tagHandler.DeleteTag)

		v1.GET("/teams", teamHandler.GetTeams)
		v1.POST("/teams", teamHandler.CreateTeam)
		v1.GET("/teams/:id", teamHandler.GetTeam)
		v1.PATCH("/teams/:id", teamHandler.UpdateTeam)
		v1.DELETE("/teams/:id", teamHandler.DeleteTeam)

		v1.PATCH("/companies", companyHandler.UpdateCompany)
		v1.PATCH("/companies/toggle-deletion", companyHandler.ToggleDeletion)

		v1.GET("/channel/:type", channelHandler.GetChannels)
		v1.POST("/channel/:type", channelHandler.CreateChannel)
		v1.PATCH("/channel/:type/toggle-active-channel/:id", channelHandler.ToggleActive)
		v1.GET("/channel/:type/:id", channelHandler.GetChannel)
		v1.PATCH("/channel/:type/:id", channelHandler.UpdateChannel)
		v1.DELETE("/channel/:type/:id", channelHandler.DeleteChannel)

		v1.POST("/tool/open-ai", toolHandler.EnableOpenAI)
		v1.DELETE("/tool/open-ai", toolHandler.DisableOpenAI)
		v1.DELETE("/tool/google-calendar", toolHandler.DisableGoogleCalendar)
		v1.POST("/auth/google-auth/initiate", toolHandler.GoogleInitiate)
	}

	v2 := r.Group("/api/v2")
	v2.Use(middleware.AuthMiddleware(d.Issuer))
	{
		v2.POST("/helper/upload", helperHandler.Upload)
	}
}
