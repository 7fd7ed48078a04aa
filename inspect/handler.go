package inspect

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	jsoniter "github.com/json-iterator/go"

	"github.com/nickguletskii/grundzeug"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Handler serves GET /registrations (the Snapshot of c) and GET /tree
// (the Tree of c's hierarchy) as JSON.  Containers are not safe for
// concurrent use, so the handler must not run while the hierarchy is
// being modified.
func Handler(c *grundzeug.Container) http.Handler {
	r := chi.NewRouter()
	r.Get("/registrations", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, Snapshot(c))
	})
	r.Get("/tree", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, Tree(c))
	})
	return r
}

func writeJSON(w http.ResponseWriter, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}
