package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIngestionRouter(repo *fakeOrderRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewIngestionHandler(newIngestionScheduler(repo))
	router := gin.New()
	router.POST("/ingestion/trigger", h.Trigger)
	router.GET("/ingestion/status", h.Status)
	return router
}

func TestIngestionHandler_TriggerAll(t *testing.T) {
	repo := newFakeOrderRepo()
	router := newIngestionRouter(repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/ingestion/trigger", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Success      bool `json:"success"`
			TotalOrders  int  `json:"total_orders"`
			SuccessCount int  `json:"success_count"`
			ErrorCount   int  `json:"error_count"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.True(t, resp.Data.Success)
	assert.Equal(t, 5, resp.Data.SuccessCount, "all five mock platforms should report")
	assert.Zero(t, resp.Data.ErrorCount)
	assert.Greater(t, resp.Data.TotalOrders, 0)
	assert.NotEmpty(t, repo.byID, "fetched orders should be upserted")
}

func TestIngestionHandler_TriggerSinglePlatform(t *testing.T) {
	repo := newFakeOrderRepo()
	router := newIngestionRouter(repo)

	raw := []byte(`{"platform":"swiggy"}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/ingestion/trigger", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"swiggy"`)
	for _, o := range repo.byID {
		assert.Equal(t, "swiggy", o.Platform.String())
	}
}

func TestIngestionHandler_TriggerUnknownPlatform(t *testing.T) {
	repo := newFakeOrderRepo()
	router := newIngestionRouter(repo)

	raw := []byte(`{"platform":"myntra"}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/ingestion/trigger", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "ERR_VALIDATION")
}

func TestIngestionHandler_Status(t *testing.T) {
	repo := newFakeOrderRepo()
	router := newIngestionRouter(repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ingestion/status", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Running           bool     `json:"running"`
			PriorityPlatforms []string `json:"priority_platforms"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Data.Running, "scheduler was never started")
	assert.Equal(t, []string{"amazon", "flipkart"}, resp.Data.PriorityPlatforms)
}
