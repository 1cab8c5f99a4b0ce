package api

import (
	"log"
	"net/http"
	"time"

	"github.com/beautyshop/beautyshop-server/internal/stats"
)

func statsHandler(svc *stats.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := svc.Report(r.Context(), CurrentUserID(r.Context()), time.Now())
		if err != nil {
			log.Printf("build stats report: %v", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "could not build stats report")
			return
		}

		writeJSON(w, http.StatusOK, report)
	}
}
