package handler

import (
	"net/http"

	"github.com/vfg2006/campaign-reporter/pkg/apiErrors"
)

type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// HealthcheckHandler é consultado pelo proxy de disparo em /status
func HealthcheckHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		apiErrors.WriteJSON(w, http.StatusOK, healthResponse{Status: "ok", Timestamp: apiErrors.Timestamp()})
	})
}
