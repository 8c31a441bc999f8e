// Package api provides the HTTP API layer for the Digests accessibility service.
// It uses the Huma framework to provide automatic OpenAPI documentation,
// request/response validation, and a clean handler interface.
//
// # Architecture
//
// The API package is structured as follows:
//
// - server.go: Huma API configuration and setup
// - handlers/: HTTP request handlers for translation, extraction, voices and health
// - middleware/: HTTP middleware for cross-cutting concerns
//
// # Key Features
//
// 1. Automatic OpenAPI Generation
//
// The API automatically generates OpenAPI 3.1 documentation:
// - JSON spec available at /openapi.json
// - Interactive docs at /docs
//
// 2. Request/Response Validation
//
// Huma provides automatic validation based on struct tags:
//
//	type TranslateBatchRequest struct {
//	    Texts  []string `json:"texts" minItems:"1" maxItems:"200"`
//	    Source string   `json:"source" minLength:"2"`
//	    Target string   `json:"target" minLength:"2"`
//	}
//
// 3. Middleware Support
//
// The API includes middleware for:
// - Request logging with unique request IDs
// - Rate limiting per IP address
// - CORS handling
//
// # Usage Example
//
//	limiter := middleware.NewRateLimiter(10, 20)
//	defer limiter.Stop()
//
//	humaAPI, router := api.NewAPIWithMiddleware(api.APIConfig{
//	    Logger:      logger,
//	    RateLimiter: limiter,
//	})
//
//	handlers.NewTranslationHandler(translationService, flags).RegisterRoutes(humaAPI)
//
//	http.ListenAndServe(":8000", router)
//
// # Error Handling
//
// The API uses a consistent error format based on RFC 9457:
//
//	{
//	    "status": 503,
//	    "title": "Service Unavailable",
//	    "detail": "translation is disabled"
//	}
//
// Domain errors are automatically mapped to appropriate HTTP status codes.
package api
