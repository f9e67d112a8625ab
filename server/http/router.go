package serverhttp

import (
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"marketplace-recon/internal/catalogue"
	"marketplace-recon/internal/config"
	"marketplace-recon/internal/match"
	"marketplace-recon/internal/middleware"
	"marketplace-recon/internal/sales"
	"marketplace-recon/server/http/handlers"
)

func NewRouter(cfg config.Config, store *catalogue.Store, matcher *match.Matcher, logger zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// order matters: recover -> requestID -> logging -> cors -> limit
	r.Use(middleware.Recover(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS(cfg.AllowOrigins))
	r.Use(middleware.LimitBytes(int64(cfg.MaxUploadMB) * 1024 * 1024))

	ebay := sales.NewEbay(matcher, logger)
	amazon := sales.NewAmazon(matcher, logger)

	// health-check
	r.Get("/health", handlers.Health)

	r.Post("/match", handlers.Match(matcher, logger))

	r.Route("/catalogue", func(r chi.Router) {
		r.Post("/price", handlers.UpdatePrice(store, logger))
		r.Get("/history", handlers.History(store))
	})

	r.Route("/process", func(r chi.Router) {
		r.Post("/ebay", handlers.ProcessSales(ebay, "ebay", sales.EbayHeaderKeyword, cfg.ReportDir, logger))
		r.Post("/amazon", handlers.ProcessSales(amazon, "amazon", sales.AmazonHeaderKeyword, cfg.ReportDir, logger))
	})

	r.Post("/orders", handlers.BuildOrders(ebay, amazon, cfg.ReportDir, logger))

	return r
}
