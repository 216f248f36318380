package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/linagelabs/txos/internal/application/marketindex"
	"github.com/linagelabs/txos/internal/application/profileservice"
	"github.com/linagelabs/txos/internal/application/txbuilder"
	"github.com/linagelabs/txos/internal/repositories/prefsrepo"
	"github.com/linagelabs/txos/internal/server/middleware"
	"github.com/linagelabs/txos/pkg/config"
)

type Handlers struct {
	TxBuilderSvc txbuilder.ITxBuilderService
	ProfileSvc   profileservice.IProfileService
	MarketSvc    marketindex.IMarketIndexService
	PrefsRepo    prefsrepo.IPreferenceRepository
	Logger       zerolog.Logger
	Config       *config.Config
}

func New(
	txBuilderSvc txbuilder.ITxBuilderService,
	profileSvc profileservice.IProfileService,
	marketSvc marketindex.IMarketIndexService,
	prefsRepo prefsrepo.IPreferenceRepository,
	logger zerolog.Logger,
	config *config.Config,
) *Handlers {
	return &Handlers{
		TxBuilderSvc: txBuilderSvc,
		ProfileSvc:   profileSvc,
		MarketSvc:    marketSvc,
		PrefsRepo:    prefsRepo,
		Logger:       logger,
		Config:       config,
	}
}

func (h *Handlers) SetupHandlers(router *gin.Engine) {
	mw := middleware.NewMiddleware(h.Config.Security.APIKey, h.Logger)
	mw.SetupMiddleware(router)

	txHandler := NewTxHandler(h.TxBuilderSvc, h.Config)
	profileHandler := NewProfileHandler(h.ProfileSvc)
	marketHandler := NewMarketHandler(h.MarketSvc)
	prefsHandler := NewPrefsHandler(h.PrefsRepo)
	healthHandler := NewHealthHandler()

	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	v1 := router.Group("/v1", mw.APIKeyMiddleware())
	{
		tx := v1.Group("/tx")
		{
			tx.POST("/mint", txHandler.BuildMint)
			tx.POST("/buy", txHandler.BuildBuy)
			tx.POST("/submit", txHandler.Submit)
		}

		market := v1.Group("/market")
		{
			market.GET("/listings/cheapest", marketHandler.CheapestListing)
		}

		profiles := v1.Group("/profiles/:address")
		{
			profiles.GET("", profileHandler.Snapshot)
			profiles.GET("/prefs/:key", prefsHandler.GetList)
			profiles.PUT("/prefs/:key", prefsHandler.SetList)
		}
	}
}
