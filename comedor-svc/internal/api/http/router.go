package httpapi

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func NewRouter(h *Handler) http.Handler {
	r := mux.NewRouter()
	h.RegisterRoutes(r)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "X-User-ID"},
	})
	return c.Handler(r)
}

func StartServer(addr string, handler http.Handler) error {
	log.Printf("[comedor-svc] listening on %s", addr)
	return http.ListenAndServe(addr, handler)
}
