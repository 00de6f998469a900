package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"cpaas-portal/internal/config"
	"cpaas-portal/internal/gateway"
	"cpaas-portal/internal/notify"
	"cpaas-portal/internal/observ"
	"cpaas-portal/internal/portal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// app is shared by every subcommand once the root has connected.
type app struct {
	profile string
	verbose bool

	cfg     config.ClientConfig
	logger  *zap.Logger
	notices *notify.Center
	client  *portal.Client
}

func defaultProfile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "portalctl", "profile.yaml")
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "portalctl",
		Short:         "Operate a CPaaS admin portal from the terminal",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.connect(cmd.ErrOrStderr())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&a.profile, "profile", defaultProfile(), "path to the YAML profile")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log gateway calls")

	root.AddCommand(
		newContactsCmd(a),
		newTagsCmd(a),
		newTeamsCmd(a),
		newUsersCmd(a),
		newCompanyCmd(a),
		newChannelsCmd(a),
		newUploadCmd(a),
	)
	return root
}

func (a *app) connect(stderr io.Writer) error {
	cfg, err := config.LoadClientConfig(a.profile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level := "warn"
	if a.verbose {
		level = "debug"
	}
	a.logger, err = observ.NewLogger("development", level)
	if err != nil {
		return err
	}

	a.notices = notify.NewCenter(
		notify.WithLogger(a.logger),
		notify.OnNotify(func(n notify.Notice) {
			fmt.Fprintf(stderr, "[%s] %s\n", n.Level, n.Message)
		}),
	)

	gw, err := gateway.New(cfg.BaseURL,
		gateway.WithTimeout(cfg.Timeout),
		gateway.WithLogger(a.logger),
		gateway.WithUserAgent("portalctl"),
	)
	if err != nil {
		return err
	}
	a.client = portal.New(gw, cfg.Token)
	return nil
}

func (a *app) session(ctx context.Context) (*portal.Session, error) {
	sess, err := portal.LoadSession(ctx, a.client)
	if err != nil {
		a.notices.Error(gateway.Message(err, "Failed to load session"))
		return nil, err
	}
	return sess, nil
}

func printTable(w io.Writer, headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...)
	fmt.Fprintln(w, t.Render())
}
