package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"ykwatch/internal/bootstrap"
	homeworkdto "ykwatch/internal/modules/homework/dto"
	"ykwatch/internal/platform/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dataDir string

	root := &cobra.Command{
		Use:           "ykwatch",
		Short:         "Yuketang homework deadline watcher",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir(), "data directory")

	root.AddCommand(newTUICmd(&dataDir))
	root.AddCommand(newLoginCmd(&dataDir))
	root.AddCommand(newLogoutCmd(&dataDir))
	root.AddCommand(newStatusCmd(&dataDir))
	root.AddCommand(newOpenLoginCmd(&dataDir))
	root.AddCommand(newCoursesCmd(&dataDir))
	root.AddCommand(newHomeworksCmd(&dataDir))
	root.AddCommand(newRefreshCmd(&dataDir))
	root.AddCommand(newNotifyCmd(&dataDir))
	root.AddCommand(newWatchCmd(&dataDir))
	return root
}

func loadApp(dataDir string) (*bootstrap.App, config.Config, error) {
	cfg, err := config.New(dataDir)
	if err != nil {
		return nil, config.Config{}, err
	}
	app, err := bootstrap.New(cfg)
	if err != nil {
		return nil, config.Config{}, err
	}
	return app, cfg, nil
}

func newTUICmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run ykwatch terminal UI",
		RunE: func(_ *cobra.Command, _ []string) error {
			app, cfg, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			return bootstrap.RunTUI(cfg, app)
		},
	}
}

func newLoginCmd(dataDir *string) *cobra.Command {
	var capturePath, cookieHeader, pageURL string

	login := &cobra.Command{
		Use:   "login",
		Short: "Store credentials from a browser capture",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, _, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			switch {
			case strings.TrimSpace(capturePath) != "":
				out, err := app.CredentialCLI.LoginFromCapture(context.Background(), capturePath)
				if err != nil {
					return err
				}
				printLogin(cmd, out.UserKnown, out.UserName, out.UserID, out.CookieCnt)
				return nil
			case strings.TrimSpace(cookieHeader) != "":
				out, err := app.CredentialCLI.LoginFromCookie(context.Background(), pageURL, cookieHeader)
				if err != nil {
					return err
				}
				printLogin(cmd, out.UserKnown, out.UserName, out.UserID, out.CookieCnt)
				return nil
			default:
				return fmt.Errorf("either --capture or --cookie is required")
			}
		},
	}
	login.Flags().StringVar(&capturePath, "capture", "", "path to a browser capture file")
	login.Flags().StringVar(&cookieHeader, "cookie", "", "raw Cookie header from a logged-in tab")
	login.Flags().StringVar(&pageURL, "url", "https://changjiang.yuketang.cn/v2/web/index", "page the cookie was captured on")
	return login
}

func printLogin(cmd *cobra.Command, known bool, name, id string, cookies int) {
	if known {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "logged in as %s (%s), %d cookies stored\n", name, id, cookies)
		return
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "logged in (identity unknown), %d cookies stored\nrun 'ykwatch status --refresh-identity' to resolve the account\n", cookies)
}

func newLogoutCmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear stored credentials",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, _, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			if err := app.CredentialCLI.Logout(context.Background()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "logged out")
			return nil
		},
	}
}

func newStatusCmd(dataDir *string) *cobra.Command {
	var refreshIdentity bool

	status := &cobra.Command{
		Use:   "status",
		Short: "Show login state",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, _, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			if refreshIdentity {
				out, err := app.CredentialCLI.RefreshIdentity(context.Background())
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "identity: %s (%s)\n", out.UserName, out.UserID)
				return nil
			}
			out, err := app.CredentialCLI.Status(context.Background())
			if err != nil {
				return err
			}
			if !out.LoggedIn {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "not logged in")
				return nil
			}
			if out.UserKnown {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "logged in as %s (%s) since %s\n", out.UserName, out.UserID, out.CapturedAt.Format("2006-01-02 15:04"))
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "logged in (identity unknown) since %s\n", out.CapturedAt.Format("2006-01-02 15:04"))
			return nil
		},
	}
	status.Flags().BoolVar(&refreshIdentity, "refresh-identity", false, "fetch the account identity from the platform")
	return status
}

func newOpenLoginCmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "open-login",
		Short: "Open the platform login page in a browser",
		RunE: func(_ *cobra.Command, _ []string) error {
			app, _, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			return app.CredentialCLI.OpenLoginPage(context.Background())
		},
	}
}

func newCoursesCmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "courses",
		Short: "List active courses",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, _, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			courses, err := app.CourseCLI.ListActive(context.Background())
			if err != nil {
				return err
			}
			if len(courses) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no active courses")
				return nil
			}
			for _, c := range courses {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", c.ID, c.Name)
			}
			return nil
		},
	}
}

func newHomeworksCmd(dataDir *string) *cobra.Command {
	var refresh bool
	var status, courseID string

	homeworks := &cobra.Command{
		Use:   "homeworks",
		Short: "List homework deadlines",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, _, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			out, err := app.HomeworkCLI.List(context.Background(), homeworkdto.ListInput{
				Refresh:  refresh,
				Status:   status,
				CourseID: courseID,
			})
			if err != nil {
				return err
			}
			if len(out.Homeworks) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no homeworks")
				return nil
			}
			for _, hw := range out.Homeworks {
				deadline := "no deadline"
				if hw.Deadline != nil {
					deadline = hw.Deadline.Format("2006-01-02 15:04")
				}
				marker := " "
				if hw.Urgent {
					marker = "!"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\t%s\t%s\t%s\n", marker, deadline, hw.Status, hw.CourseName, hw.Title)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "updated %s\n", out.UpdatedAt.Format("2006-01-02 15:04"))
			return nil
		},
	}
	homeworks.Flags().BoolVar(&refresh, "refresh", false, "fetch live data instead of the cache")
	homeworks.Flags().StringVar(&status, "status", "all", "filter: all|urgent|pending|done")
	homeworks.Flags().StringVar(&courseID, "course", "", "filter by course id")
	return homeworks
}

func newRefreshCmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Fetch all courses and rebuild the snapshot",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, _, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			out, err := app.HomeworkCLI.Refresh(context.Background())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "refreshed: %d homeworks across %d courses\n", len(out.Homeworks), len(out.Courses))
			return nil
		},
	}
}

func newNotifyCmd(dataDir *string) *cobra.Command {
	var test bool

	notify := &cobra.Command{
		Use:   "notify",
		Short: "Send a desktop alert for urgent deadlines",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, _, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			if test {
				if err := app.NotifyCLI.Test(context.Background()); err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "test notification sent")
				return nil
			}
			out, err := app.NotifyCLI.NotifyUrgent(context.Background())
			if err != nil {
				return err
			}
			if !out.Sent {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "nothing urgent")
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "alert sent for %d deadlines\n", out.Count)
			return nil
		},
	}
	notify.Flags().BoolVar(&test, "test", false, "send a test notification instead")
	return notify
}

func newWatchCmd(dataDir *string) *cobra.Command {
	watch := &cobra.Command{Use: "watch", Short: "Manage the background watcher"}

	watch.AddCommand(&cobra.Command{
		Use:   "run",
		Short: "Run the watch loop in the foreground",
		RunE: func(_ *cobra.Command, _ []string) error {
			app, _, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return app.WatchCLI.Run(ctx)
		},
	})

	watch.AddCommand(&cobra.Command{
		Use:   "start",
		Short: "Start the watcher in the background",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, _, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			if err := app.WatchCLI.Start(context.Background()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "watcher started")
			return nil
		},
	})

	watch.AddCommand(&cobra.Command{
		Use:   "stop",
		Short: "Stop the background watcher",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, _, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			if err := app.WatchCLI.Stop(context.Background()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "watcher stopped")
			return nil
		},
	})

	watch.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show watcher state",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, _, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			out, err := app.WatchCLI.Status(context.Background())
			if err != nil {
				return err
			}
			if out.Running {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "running (pid %d), log: %s\n", out.PID, out.LogPath)
				return nil
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "not running")
			return nil
		},
	})

	var tail int
	logs := &cobra.Command{
		Use:   "logs",
		Short: "Show the watcher log tail",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, _, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			out, err := app.WatchCLI.Logs(context.Background(), tail)
			if err != nil {
				return err
			}
			if out == "" {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no logs")
				return nil
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	logs.Flags().IntVar(&tail, "tail", 200, "number of lines to show")
	watch.AddCommand(logs)

	return watch
}
