package bootstrap

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/hashicorp/go-hclog"

	courseinadapter "ykwatch/internal/modules/course/adapter/in"
	courseoutadapter "ykwatch/internal/modules/course/adapter/out"
	courseservice "ykwatch/internal/modules/course/service"
	courseusecase "ykwatch/internal/modules/course/usecase"
	credentialinadapter "ykwatch/internal/modules/credential/adapter/in"
	credentialoutadapter "ykwatch/internal/modules/credential/adapter/out"
	credentialservice "ykwatch/internal/modules/credential/service"
	credentialusecase "ykwatch/internal/modules/credential/usecase"
	homeworkinadapter "ykwatch/internal/modules/homework/adapter/in"
	homeworkoutadapter "ykwatch/internal/modules/homework/adapter/out"
	homeworkservice "ykwatch/internal/modules/homework/service"
	homeworkusecase "ykwatch/internal/modules/homework/usecase"
	notifyinadapter "ykwatch/internal/modules/notify/adapter/in"
	notifyoutadapter "ykwatch/internal/modules/notify/adapter/out"
	notifyusecase "ykwatch/internal/modules/notify/usecase"
	watchinadapter "ykwatch/internal/modules/watch/adapter/in"
	watchoutadapter "ykwatch/internal/modules/watch/adapter/out"
	watchservice "ykwatch/internal/modules/watch/service"
	"ykwatch/internal/platform/clock"
	"ykwatch/internal/platform/config"
	"ykwatch/internal/platform/id"
	"ykwatch/internal/platform/yuketang"
	uiapp "ykwatch/internal/ui/app"
)

type App struct {
	CredentialCLI credentialinadapter.CLIHandler
	CourseCLI     courseinadapter.CLIHandler
	HomeworkCLI   homeworkinadapter.CLIHandler
	NotifyCLI     notifyinadapter.CLIHandler
	WatchCLI      watchinadapter.CLIHandler
}

func New(cfg config.Config) (*App, error) {
	clk := clock.SystemClock{}
	ids := id.RandomHex{}

	credStore := credentialoutadapter.NewFileCredentialStore(cfg.DataDir)
	userStore := credentialoutadapter.NewFileUserStore(cfg.DataDir)
	cookieJar := credentialoutadapter.NewFileCookieJar(cfg.DataDir)
	client := yuketang.New(cfg.BaseURL, credentialoutadapter.NewStoreSessionSource(credStore))

	credentialUC := credentialusecase.NewInteractor(
		credentialservice.NewCredentialService(clk),
		credStore,
		userStore,
		cookieJar,
		credentialoutadapter.NewAPIIdentityClient(client),
		credentialoutadapter.NewBrowserLauncher(),
		cfg.LoginURL(),
	)

	courseUC := courseusecase.NewInteractor(
		courseservice.NewCourseService(courseoutadapter.NewAPICourseSource(client)),
	)

	snapshotStore, err := homeworkoutadapter.NewSQLiteSnapshotStore(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("new snapshot store: %w", err)
	}
	homeworkUC := homeworkusecase.NewInteractor(
		homeworkservice.NewHomeworkService(homeworkoutadapter.NewAPIHomeworkSource(client), cfg.BaseURL),
		courseUC,
		snapshotStore,
		clk,
		cfg.UIWindow,
	)

	notifyUC := notifyusecase.NewInteractor(
		homeworkUC,
		notifyoutadapter.NewBeeepSink("ykwatch"),
		clk,
		cfg.NotifyWindow,
	)

	watchUC := watchservice.NewWatchService(
		homeworkUC,
		notifyUC,
		watchoutadapter.NewFileDaemonStore(cfg.DataDir),
		ids,
		cfg.RefreshInterval,
		cfg.DataDir,
		hclog.New(&hclog.LoggerOptions{Name: "ykwatch", Level: hclog.Info}),
	)

	return &App{
		CredentialCLI: credentialinadapter.NewCLIHandler(credentialUC),
		CourseCLI:     courseinadapter.NewCLIHandler(courseUC),
		HomeworkCLI:   homeworkinadapter.NewCLIHandler(homeworkUC),
		NotifyCLI:     notifyinadapter.NewCLIHandler(notifyUC),
		WatchCLI:      watchinadapter.NewCLIHandler(watchUC),
	}, nil
}

func RunTUI(cfg config.Config, app *App) error {
	model := uiapp.NewModel(cfg, app.CredentialCLI, app.CourseCLI, app.HomeworkCLI)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
