package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter configures HTTP routes and static UI serving.
func NewRouter(handler *Handler, staticDir string) *mux.Router {
	r := mux.NewRouter()
	r.Use(handler.Recover)
	r.HandleFunc("/.well-known/health", handler.Health).Methods("GET")
	r.HandleFunc("/formats", handler.ListFormats).Methods("POST")
	r.HandleFunc("/download", handler.Download).Methods("POST")
	r.HandleFunc("/upload-cookies", handler.UploadCookies).Methods("POST")
	r.PathPrefix("/").Handler(http.FileServer(http.Dir(staticDir))).Methods("GET")
	return r
}
