package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Chisowa/Farm-Link-Zambia/config"
	"github.com/Chisowa/Farm-Link-Zambia/database"
	"github.com/Chisowa/Farm-Link-Zambia/entities"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/affliction"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/ai"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/auth"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/catalog"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/logging"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/metrics"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/rpc"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/schema"

	// Auth
	authController "github.com/Chisowa/Farm-Link-Zambia/pkg/auth/controller"
	authCtrlImp "github.com/Chisowa/Farm-Link-Zambia/pkg/auth/controllerImp"

	// User
	userCtrlImp "github.com/Chisowa/Farm-Link-Zambia/pkg/user/controllerImp"
	userRepoImp "github.com/Chisowa/Farm-Link-Zambia/pkg/user/repositoryImp"
	userSvc "github.com/Chisowa/Farm-Link-Zambia/pkg/user/service"
	userSvcImp "github.com/Chisowa/Farm-Link-Zambia/pkg/user/serviceImp"

	// Crops
	cropCtrlImp "github.com/Chisowa/Farm-Link-Zambia/pkg/crop/controllerImp"
	cropRepoImp "github.com/Chisowa/Farm-Link-Zambia/pkg/crop/repositoryImp"
	cropSvc "github.com/Chisowa/Farm-Link-Zambia/pkg/crop/service"
	cropSvcImp "github.com/Chisowa/Farm-Link-Zambia/pkg/crop/serviceImp"

	// Pests + diseases
	afflCtrlImp "github.com/Chisowa/Farm-Link-Zambia/pkg/affliction/controllerImp"
	afflRepoImp "github.com/Chisowa/Farm-Link-Zambia/pkg/affliction/repositoryImp"
	afflSvc "github.com/Chisowa/Farm-Link-Zambia/pkg/affliction/service"
	afflSvcImp "github.com/Chisowa/Farm-Link-Zambia/pkg/affliction/serviceImp"

	// Weather
	weatherCtrlImp "github.com/Chisowa/Farm-Link-Zambia/pkg/weather/controllerImp"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/weather/provider"
	weatherRepoImp "github.com/Chisowa/Farm-Link-Zambia/pkg/weather/repositoryImp"
	weatherSvcImp "github.com/Chisowa/Farm-Link-Zambia/pkg/weather/serviceImp"

	// Advice
	adviceCtrlImp "github.com/Chisowa/Farm-Link-Zambia/pkg/advice/controllerImp"
	adviceRepoImp "github.com/Chisowa/Farm-Link-Zambia/pkg/advice/repositoryImp"
	adviceSvcImp "github.com/Chisowa/Farm-Link-Zambia/pkg/advice/serviceImp"

	// KB
	kbCtrlImp "github.com/Chisowa/Farm-Link-Zambia/pkg/kb/controllerImp"
	kbEmbedder "github.com/Chisowa/Farm-Link-Zambia/pkg/kb/embedder"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/kb/fetcher"
	kbRepoImp "github.com/Chisowa/Farm-Link-Zambia/pkg/kb/repositoryImp"
	kbSvc "github.com/Chisowa/Farm-Link-Zambia/pkg/kb/service"
	kbSvcImp "github.com/Chisowa/Farm-Link-Zambia/pkg/kb/serviceImp"

	// Health
	healthCtrlImp "github.com/Chisowa/Farm-Link-Zambia/pkg/health/controllerImp"
)

// app holds every wired component. Commands pick what they need.
type app struct {
	cfg     config.AppConfig
	log     *zap.Logger
	db      *gorm.DB
	metrics *metrics.Metrics
	procs   *rpc.Router

	identity *auth.ContextFactory
	authCtrl authController.AuthController
	health   *healthCtrlImp.HealthCtrl

	users    userSvc.UserService
	crops    cropSvc.CropService
	pests    afflSvc.Service[entities.Pest]
	diseases afflSvc.Service[entities.Disease]
	kb       kbSvc.KBService
	fetch    *fetcher.Fetcher
	importer *catalog.Importer
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	db, err := database.OpenSQLite(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	m, err := metrics.New()
	if err != nil {
		return nil, err
	}
	schemas := schema.MustNew()
	a := &app{
		cfg:     cfg,
		log:     log,
		db:      db,
		metrics: m,
		procs:   rpc.NewRouter(schemas, rpc.WithObserver(m), rpc.WithLogger(log)),
	}

	var verifier auth.TokenVerifier
	if cfg.AuthMode == auth.ModeFirebase {
		verifier = auth.NewFirebaseVerifier(cfg.FirebaseProjectID, auth.NewGoogleCertSource(auth.GoogleCertsURL))
	}
	if a.identity, err = auth.NewContextFactory(cfg.AuthMode, verifier, log); err != nil {
		return nil, err
	}

	llm, err := newLLM(ctx, cfg)
	if err != nil {
		return nil, err
	}
	emb, err := newEmbedder(ctx, cfg)
	if err != nil {
		return nil, err
	}

	// services
	a.users = userSvcImp.NewUserService(userRepoImp.NewUsers(db), userRepoImp.NewFarms(db))
	var wp provider.Provider
	if cfg.WeatherProvider == "openmeteo" {
		wp = provider.NewOpenMeteo()
	}
	weather := weatherSvcImp.New(wp, weatherRepoImp.New(db), cfg.WeatherCacheTTL, m, log)
	a.crops = cropSvcImp.New(cropRepoImp.New(db), weather, log)
	a.pests = afflSvcImp.New(afflRepoImp.New[entities.Pest](db), affliction.Pests)
	a.diseases = afflSvcImp.New(afflRepoImp.New[entities.Disease](db), affliction.Diseases)
	kb := kbSvcImp.New(kbRepoImp.New(db), emb, log)
	a.kb = kb
	a.fetch = fetcher.New(cfg.KBAllowedDomains, cfg.KBMaxBytes)
	advice := adviceSvcImp.New(adviceRepoImp.New(db), llm, kb, log)
	a.importer = catalog.NewImporter(schemas, a.crops, a.pests, a.diseases, log)

	// procedures
	userCtrl := userCtrlImp.New(a.users)
	staff := rpc.Guard(userCtrl.RequireStaff)
	a.health = healthCtrlImp.NewHealthCtrl(db, cfg.Env)
	a.authCtrl = authCtrlImp.NewAuthController(cfg.AuthMode)
	for _, c := range []interface{ Register(*rpc.Router) }{
		a.health,
		userCtrl,
		cropCtrlImp.New(a.crops, staff),
		afflCtrlImp.New(affliction.Pests, a.pests, staff),
		afflCtrlImp.New(affliction.Diseases, a.diseases, staff),
		weatherCtrlImp.New(weather),
		adviceCtrlImp.New(advice),
		kbCtrlImp.New(kb, a.fetch, staff),
	} {
		c.Register(a.procs)
	}

	log.Info("app wired",
		zap.String("env", cfg.Env),
		zap.String("auth", string(cfg.AuthMode)),
		zap.String("ai", cfg.AIProvider),
		zap.String("embedder", cfg.EmbProvider),
		zap.String("weather", cfg.WeatherProvider),
		zap.Int("procedures", len(a.procs.Procedures())))
	return a, nil
}

func (a *app) Close() {
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = a.log.Sync()
}

func newLLM(ctx context.Context, cfg config.AppConfig) (ai.Client, error) {
	switch cfg.AIProvider {
	case "vertex":
		return ai.NewVertex(ctx, cfg.GoogleCloudProject, cfg.VertexLocation, cfg.VertexModel)
	case "openai":
		return ai.NewOpenAI(cfg.LLMEndpoint, cfg.LLMAPIKey, cfg.LLMModel), nil
	case "mock":
		return ai.NewMock(), nil
	}
	return nil, fmt.Errorf("unknown AI_PROVIDER %q", cfg.AIProvider)
}

// newEmbedder returns nil for "none"; the knowledge base then ranks by keywords only.
func newEmbedder(ctx context.Context, cfg config.AppConfig) (kbEmbedder.Embedder, error) {
	switch cfg.EmbProvider {
	case "vertex":
		g, err := kbEmbedder.NewGenAI(ctx, cfg.GoogleCloudProject, cfg.VertexLocation, cfg.EmbModel)
		if err != nil {
			return nil, err
		}
		return g, nil
	case "http":
		return kbEmbedder.New(cfg.EmbEndpoint, cfg.EmbAPIKey, cfg.EmbModel), nil
	case "none":
		return nil, nil
	}
	return nil, fmt.Errorf("unknown EMB_PROVIDER %q", cfg.EmbProvider)
}
