package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS lets browser clients on origins call the API. An empty list allows any
// origin. Download names travel in Content-Disposition, so it is exposed.
func CORS(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"Content-Disposition", "X-Request-Id"},
		MaxAge:         300,
	})
}
