package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

const maxListedCollections = 10

type DiagnosticsResponse struct {
	Backend          string   `json:"backend"`
	Database         string   `json:"database"`
	DatabaseURL      string   `json:"database_url"`
	DatabaseName     string   `json:"database_name"`
	ConnectionStatus string   `json:"connection_status"`
	Collections      []string `json:"collections"`
}

type HealthHandler struct {
	store           DocumentStore
	databaseURLSet  bool
	databaseNameSet bool
}

func NewHealthHandler(docs DocumentStore, databaseURLSet, databaseNameSet bool) *HealthHandler {
	return &HealthHandler{
		store:           docs,
		databaseURLSet:  databaseURLSet,
		databaseNameSet: databaseNameSet,
	}
}

// Root handles GET /
func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Pet Harness Store Backend Running"})
}

// Diagnostics handles GET /test. Store problems are reported in the body and
// the endpoint always answers 200.
func (h *HealthHandler) Diagnostics(c *gin.Context) {
	resp := DiagnosticsResponse{
		Backend:          "✅ Running",
		Database:         "❌ Not Available",
		ConnectionStatus: "Not Connected",
		Collections:      []string{},
	}

	h.probeStore(c.Request.Context(), &resp)

	resp.DatabaseURL = setOrNot(h.databaseURLSet)
	resp.DatabaseName = setOrNot(h.databaseNameSet)
	c.JSON(http.StatusOK, resp)
}

func (h *HealthHandler) probeStore(ctx context.Context, resp *DiagnosticsResponse) {
	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("Store probe panicked")
			resp.Database = "❌ Error: " + truncate(fmt.Sprint(r), 50)
		}
	}()

	if h.store == nil {
		resp.Database = "⚠️  Available but not initialized"
		return
	}

	resp.Database = "✅ Available"
	names, err := h.store.CollectionNames(ctx)
	if err != nil {
		log.WithError(err).Warn("Store probe failed")
		resp.Database = "⚠️  Connected but Error: " + truncate(err.Error(), 50)
		return
	}

	if len(names) > maxListedCollections {
		names = names[:maxListedCollections]
	}
	resp.Collections = names
	resp.Database = "✅ Connected & Working"
	resp.ConnectionStatus = "Connected"
}

func setOrNot(set bool) string {
	if set {
		return "✅ Set"
	}
	return "❌ Not Set"
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
