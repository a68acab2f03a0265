package bootstrap

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	heartsinadapter "finquest/internal/modules/hearts/adapter/in"
	heartsoutadapter "finquest/internal/modules/hearts/adapter/out"
	heartsin "finquest/internal/modules/hearts/port/in"
	heartsservice "finquest/internal/modules/hearts/service"
	profileoutadapter "finquest/internal/modules/profile/adapter/out"
	profileservice "finquest/internal/modules/profile/service"
	recordinginadapter "finquest/internal/modules/recording/adapter/in"
	recordingoutadapter "finquest/internal/modules/recording/adapter/out"
	recordingin "finquest/internal/modules/recording/port/in"
	recordingservice "finquest/internal/modules/recording/service"
	sessioninadapter "finquest/internal/modules/session/adapter/in"
	sessionoutadapter "finquest/internal/modules/session/adapter/out"
	sessionin "finquest/internal/modules/session/port/in"
	sessionservice "finquest/internal/modules/session/service"
	sessionusecase "finquest/internal/modules/session/usecase"
	"finquest/internal/platform/clock"
	"finquest/internal/platform/config"
	"finquest/internal/platform/httpapi"
	"finquest/internal/platform/id"
	"finquest/internal/platform/logging"
	uiapp "finquest/internal/ui/app"
)

type App struct {
	SessionCLI   sessioninadapter.CLIHandler
	HeartsCLI    heartsinadapter.CLIHandler
	RecordingCLI recordinginadapter.CLIHandler

	engine   sessionin.Engine
	hearts   heartsin.Tracker
	recorder recordingin.Recorder
	profile  *profileservice.State
	cfg      config.Config
	logger   *zap.Logger
	results  *sessionoutadapter.SQLiteResultStore
}

func New(cfg config.Config) (*App, error) {
	logger, err := logging.New(cfg.DataDir, os.Getenv("FINQUEST_DEBUG") != "")
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	sched := clock.SystemScheduler{}
	clk := clock.SystemClock{}
	ids := id.UUID{}

	settings := profileoutadapter.NewFileSettingsStore(cfg.SettingsPath())
	profile := profileservice.NewState(cfg.LearnerID, settings, logger)

	api := httpapi.NewClient(cfg.APIBaseURL, cfg.RequestTimeout)

	tracker := heartsservice.NewTracker(
		heartsoutadapter.NewHTTPBackend(api),
		sched,
		profile,
		logger,
		cfg.LearnerID,
		cfg.HeartsResync,
	)

	results, err := sessionoutadapter.NewSQLiteResultStore(cfg.DBPath())
	if err != nil {
		return nil, fmt.Errorf("open result store: %w", err)
	}

	engine := sessionusecase.NewInteractor(
		sessionservice.NewLessonService(clk),
		sessionoutadapter.NewHTTPBackend(api),
		tracker,
		sessionoutadapter.NewBellCuePlayer(os.Stdout, profile),
		results,
		profile,
		ids,
		logger,
		cfg.LearnerID,
	)

	device := recordingoutadapter.NewPluginDevice(cfg.CapturePlugin)
	recorder := recordingservice.NewCaptureService(device, sched, logger, cfg.DataDir)

	return &App{
		SessionCLI:   sessioninadapter.NewCLIHandler(engine),
		HeartsCLI:    heartsinadapter.NewCLIHandler(tracker),
		RecordingCLI: recordinginadapter.NewCLIHandler(device),
		engine:       engine,
		hearts:       tracker,
		recorder:     recorder,
		profile:      profile,
		cfg:          cfg,
		logger:       logger,
		results:      results,
	}, nil
}

func (a *App) Close() {
	a.hearts.Stop()
	a.recorder.Close()
	if err := a.results.Close(); err != nil {
		a.logger.Warn("close result store", zap.Error(err))
	}
	_ = a.logger.Sync()
}

func RunTUI(app *App) error {
	app.hearts.Start(context.Background())
	model := uiapp.NewModel(app.engine, app.hearts, app.recorder, app.profile, app.cfg.LessonLength)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
