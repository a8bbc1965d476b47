package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Bry504/red-de-agencias/internal/config"
	"github.com/Bry504/red-de-agencias/internal/handler"
	"github.com/Bry504/red-de-agencias/internal/infra"
	"github.com/Bry504/red-de-agencias/internal/middleware"
	"github.com/Bry504/red-de-agencias/internal/model"
	"github.com/Bry504/red-de-agencias/internal/repository"
	"github.com/Bry504/red-de-agencias/internal/service"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB / HighLevel client
func New(cfg *config.Config, db *gorm.DB, hl *infra.HighLevelClient) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(300, time.Minute)) // 300 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	contactoRepo := repository.NewContactoRepository(db)
	usuarioRepo := repository.NewUsuarioRepository(db)
	oportunidadRepo := repository.NewOportunidadRepository(db)
	historialRepo := repository.NewHistorialRepository(db)
	resultadoRepo := repository.NewResultadoRepository(db)
	notaRepo := repository.NewNotaRepository(db)
	citaRepo := repository.NewCitaRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	etapaSvc := service.NewEtapaService(historialRepo)
	contactoSvc := service.NewContactoService(contactoRepo)
	oportunidadSvc := service.NewOportunidadService(oportunidadRepo, contactoRepo, usuarioRepo, historialRepo, resultadoRepo, etapaSvc)
	notaSvc := service.NewNotaService(notaRepo, contactoRepo, usuarioRepo, oportunidadRepo)
	citaSvc := service.NewCitaService(citaRepo, contactoRepo, usuarioRepo, oportunidadRepo)
	intakeSvc := service.NewIntakeService(contactoRepo, usuarioRepo, hl, service.IntakeConfig{
		PipelineID:       cfg.HLPipelineID,
		StageIDRecibida:  cfg.HLStageIDRecibida,
		CFOrigenID:       cfg.HLCFOrigenID,
		CFDocIdentidadID: cfg.HLCFDocIdentidadID,
		CFLatitudID:      cfg.HLCFLatitudID,
		CFLongitudID:     cfg.HLCFLongitudID,
	})

	// ── Handlers ─────────────────────────────────────────────────────────────
	formularioH := handler.NewFormularioHandler(intakeSvc)
	webhookH := handler.NewWebhookHandler(contactoSvc, oportunidadSvc, notaSvc, citaSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health(db, hl))

	// First-party prospecting forms (mobile app)
	api := r.Group("/api/tradicional")
	{
		api.POST("/campo", formularioH.Campo)
		api.POST("/entorno-personal", formularioH.EntornoPersonal)
	}

	// CRM webhooks — pipeline tradicional
	trad := r.Group("/webhooks/tradicional", middleware.TokenAuth(cfg.WebhookToken))
	{
		trad.POST("/contact-created", webhookH.ContactCreated(model.CanalTradicional))
		trad.POST("/contact-updated", webhookH.ContactUpdated("")) // canal untouched on update
		trad.POST("/note-created", webhookH.NoteCreated())
		trad.POST("/opportunity-created", webhookH.OpportunityCreated())
		trad.POST("/opportunity-updated", webhookH.OpportunityUpdated())
		trad.POST("/opportunity-won", webhookH.OpportunityWon())
		trad.POST("/opportunity-lost", webhookH.OpportunityLost())
		trad.POST("/opportunity-abandoned", webhookH.OpportunityAbandoned())
		trad.POST("/stage-changed", webhookH.StageChanged())
		trad.POST("/owner-changed", webhookH.OwnerChanged())
	}

	// CRM webhooks — pipeline digital (ads); separate secret, tags the channel
	dig := r.Group("/webhooks/digital", middleware.TokenAuth(cfg.WebhookTokenDigital))
	{
		dig.POST("/contact-updated", webhookH.ContactUpdated(model.CanalDigital))
		dig.POST("/appointment", webhookH.Appointment())
		dig.POST("/opportunity-created", webhookH.OpportunityCreated())
		dig.POST("/opportunity-updated", webhookH.OpportunityUpdated())
		dig.POST("/opportunity-won", webhookH.OpportunityWon())
		dig.POST("/opportunity-lost", webhookH.OpportunityLost())
		dig.POST("/opportunity-abandoned", webhookH.OpportunityAbandoned())
		dig.POST("/stage-changed", webhookH.StageChanged())
	}

	return r
}
