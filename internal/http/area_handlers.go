package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"log/slog"

	"github.com/Ironmac17/nexora/internal/store"
)

type AreasAPI struct {
	DB  *store.Postgres
	Log *slog.Logger
}

type areaResponse struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
	UsersOnline int    `json:"usersOnline"`
}

// List returns every campus area with its current online counter.
func (a *AreasAPI) List(w http.ResponseWriter, r *http.Request) {
	areas, err := a.DB.ListAreas(r.Context())
	if err != nil {
		a.Log.Error("areas.list", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	resp := make([]areaResponse, 0, len(areas))
	for _, ar := range areas {
		resp = append(resp, areaResponse{
			Name: ar.Name, Slug: ar.Slug, Description: ar.Description, UsersOnline: ar.UsersOnline,
		})
	}
	writeJSON(w, resp)
}

// Status returns the derived state clients re-fetch after an
// areaStatusUpdate notification.
func (a *AreasAPI) Status(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		http.Error(w, "slug required", http.StatusBadRequest)
		return
	}

	ar, err := a.DB.GetAreaBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, store.ErrAreaNotFound) {
			http.Error(w, "area not found", http.StatusNotFound)
			return
		}
		a.Log.Error("areas.status", "slug", slug, "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]int{"usersOnline": ar.UsersOnline})
}

// send JSON with proper headers
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
