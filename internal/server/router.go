package server

import (
	"net/http"

	"photobook/internal/config"
	"photobook/internal/middleware"
	"photobook/internal/modules/auth"
	"photobook/internal/modules/booking"
	"photobook/internal/modules/payment"
	pricingmodule "photobook/internal/modules/pricing"
	"photobook/internal/modules/quote"
	"photobook/internal/modules/review"
	"photobook/internal/pkg/jwt"
	"photobook/internal/pkg/response"
	"photobook/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps is everything the HTTP surface is built from. Cache and Payments are
// optional: without Cache pricing reads go straight to the store, without
// Payments a Stripe provider is built from Config.
type Deps struct {
	DB       *gorm.DB
	Config   *config.Config
	Log      *zap.Logger
	Cache    pricingmodule.ConfigCache
	Payments payment.Provider
}

func NewRouter(d Deps) *gin.Engine {
	cfg := d.Config
	log := d.Log

	userRepo := repository.NewUserRepository(d.DB)
	bookingRepo := repository.NewBookingRepository(d.DB)
	paymentRepo := repository.NewPaymentRepository(d.DB)
	reviewRepo := repository.NewReviewRepository(d.DB)
	pricingRepo := repository.NewPricingConfigRepository(d.DB)

	tokens := jwt.New(cfg.JWTSecret, cfg.JWTTTL)

	authService := auth.NewService(userRepo, tokens, log.Named("auth"))
	authHandler := auth.NewHandler(authService, tokens.TTL())

	pricingService := pricingmodule.NewService(pricingRepo, d.Cache, log.Named("pricing"))
	pricingHandler := pricingmodule.NewHandler(pricingService)

	quoteHandler := quote.NewHandler(pricingService, middleware.AllowedOrigin(cfg.CORSAllowedOrigins), log.Named("quote"))

	bookingService := booking.NewService(bookingRepo, userRepo, pricingService, log.Named("booking"))
	bookingHandler := booking.NewHandler(bookingService)

	provider := d.Payments
	if provider == nil {
		provider = payment.NewStripeProvider(cfg.StripeSecretKey, cfg.StripeWebhookSecret)
	}
	paymentService := payment.NewService(paymentRepo, bookingRepo, provider, cfg.PaymentCurrency, cfg.DepositPercent, log.Named("payment"))
	paymentHandler := payment.NewHandler(paymentService, log.Named("payment"))

	reviewService := review.NewService(reviewRepo, bookingRepo, log.Named("review"))
	reviewHandler := review.NewHandler(reviewService)

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(log),
		middleware.ErrorLogger(log),
		middleware.CORS(cfg.CORSAllowedOrigins),
	)

	r.GET("/health", health(d.DB))

	limit := middleware.RateLimit(cfg.QuoteRatePerMinute, log)

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterPublicRoutes(v1)
		paymentHandler.RegisterPublicRoutes(v1)
		quoteHandler.RegisterRoutes(v1)

		protected := v1.Group("/")
		protected.Use(middleware.JWTAuth(tokens))

		pricingHandler.RegisterRoutes(v1, protected, limit)
		reviewHandler.RegisterRoutes(v1, protected)

		authHandler.RegisterProtectedRoutes(protected)
		bookingHandler.RegisterRoutes(protected)
		paymentHandler.RegisterProtectedRoutes(protected)
	}

	return r
}

func health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			response.Error(c, http.StatusServiceUnavailable, "DB_UNAVAILABLE", "Database unavailable")
			return
		}
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	}
}
