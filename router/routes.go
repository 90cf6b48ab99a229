package router

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shamanec/GADS-simulator/logger"
	"github.com/shamanec/GADS-simulator/models"
	"github.com/shamanec/GADS-simulator/sim"
)

// SimLister lists the simulators present on the host
type SimLister interface {
	GetAvailableSims(ctx context.Context) ([]models.SimctlDevice, error)
}

type Handler struct {
	Registry *sim.Registry
	Lister   SimLister
}

// Write to a ResponseWriter an event and message with a response code
func JSONError(w http.ResponseWriter, event string, error_string string, code int) {
	var errorMessage = models.JsonErrorResponse{
		EventName:    event,
		ErrorMessage: error_string}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(errorMessage)
}

// Write to a ResponseWriter an event and message with a response code
func SimpleJSONResponse(w http.ResponseWriter, responseMessage string, code int) {
	var message = models.JsonResponse{
		Message: responseMessage,
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(message)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, sim.ErrDeviceNotFound):
		return http.StatusNotFound
	case errors.Is(err, sim.ErrDeviceDeleted):
		return http.StatusGone
	case errors.Is(err, sim.ErrUnsupportedPlatform):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func simulatorError(c *gin.Context, event string, err error) {
	logger.ProviderLogger.LogError(event, fmt.Sprintf("Request `%s` for simulator `%s` failed - %s", c.FullPath(), c.Param("udid"), err))
	JSONError(c.Writer, event, err.Error(), statusFor(err))
}

func (h *Handler) simulator(c *gin.Context, event string) (*sim.Simulator, bool) {
	s, err := h.Registry.Get(c.Param("udid"))
	if err != nil {
		simulatorError(c, event, err)
		return nil, false
	}
	return s, true
}

func (h *Handler) GetAvailableSims(c *gin.Context) {
	sims, err := h.Lister.GetAvailableSims(c.Request.Context())
	if err != nil {
		JSONError(c.Writer, "get_available_sims", err.Error(), http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"sims": sims,
	})
}

func (h *Handler) PlatformVersion(c *gin.Context) {
	s, ok := h.simulator(c, "sim_platform_version")
	if !ok {
		return
	}

	version, err := s.PlatformVersion(c.Request.Context())
	if err != nil {
		simulatorError(c, "sim_platform_version", err)
		return
	}
	c.JSON(http.StatusOK, models.PlatformVersionResponse{
		UDID:            s.UDID(),
		PlatformVersion: version.Raw,
		Layout:          version.Layout.String(),
	})
}

func (h *Handler) Freshness(c *gin.Context) {
	s, ok := h.simulator(c, "sim_freshness")
	if !ok {
		return
	}

	report, err := s.Freshness(c.Request.Context())
	if err != nil {
		simulatorError(c, "sim_freshness", err)
		return
	}
	c.JSON(http.StatusOK, models.FreshnessResponse{
		UDID:    s.UDID(),
		Fresh:   report.Fresh,
		Checked: report.Checked,
		Missing: report.Missing,
	})
}

func (h *Handler) BundlePaths(c *gin.Context) {
	s, ok := h.simulator(c, "sim_bundle_paths")
	if !ok {
		return
	}

	paths, err := s.InstalledApps(c.Request.Context())
	if err != nil {
		simulatorError(c, "sim_bundle_paths", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"udid": s.UDID(),
		"apps": paths,
	})
}

func (h *Handler) AppDataDir(c *gin.Context) {
	s, ok := h.simulator(c, "sim_app_data_dir")
	if !ok {
		return
	}

	bundleID := c.Param("bundleID")
	dir, found, err := s.AppDataDir(c.Request.Context(), bundleID)
	if err != nil {
		simulatorError(c, "sim_app_data_dir", err)
		return
	}
	if !found {
		JSONError(c.Writer, "sim_app_data_dir", fmt.Sprintf("App `%s` is not installed on simulator `%s`", bundleID, s.UDID()), http.StatusNotFound)
		return
	}
	c.JSON(http.StatusOK, models.AppDataDirResponse{
		UDID:     s.UDID(),
		BundleID: bundleID,
		DataDir:  dir,
	})
}

func (h *Handler) LaunchAndQuit(c *gin.Context) {
	s, ok := h.simulator(c, "sim_warmup")
	if !ok {
		return
	}

	result, err := s.LaunchAndQuit(c.Request.Context())
	if err != nil {
		simulatorError(c, "sim_warmup", err)
		return
	}
	c.JSON(http.StatusOK, models.WarmUpResponse{
		UDID:      s.UDID(),
		Populated: result.Populated,
		Attempts:  result.Attempts,
		Missing:   result.Missing,
	})
}

// EraseSim drops the cached handle so later requests do not see the pre-erase bundle paths
func (h *Handler) EraseSim(c *gin.Context) {
	s, ok := h.simulator(c, "sim_erase")
	if !ok {
		return
	}

	if err := s.Erase(c.Request.Context()); err != nil {
		simulatorError(c, "sim_erase", err)
		return
	}
	h.Registry.Forget(s.UDID())
	SimpleJSONResponse(c.Writer, "Simulator erased successfully", http.StatusOK)
}

func (h *Handler) ShutdownSim(c *gin.Context) {
	s, ok := h.simulator(c, "sim_shutdown")
	if !ok {
		return
	}

	if err := s.Shutdown(c.Request.Context()); err != nil {
		simulatorError(c, "sim_shutdown", err)
		return
	}
	SimpleJSONResponse(c.Writer, "Simulator shutdown successfully", http.StatusOK)
}

func (h *Handler) DeleteSim(c *gin.Context) {
	s, ok := h.simulator(c, "sim_delete")
	if !ok {
		return
	}

	if err := s.Delete(c.Request.Context()); err != nil {
		simulatorError(c, "sim_delete", err)
		return
	}
	h.Registry.Forget(s.UDID())
	SimpleJSONResponse(c.Writer, "Simulator deleted successfully", http.StatusOK)
}

func HandleRequests(h *Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/simulators", h.GetAvailableSims)
	router.GET("/simulators/:udid/platform-version", h.PlatformVersion)
	router.GET("/simulators/:udid/freshness", h.Freshness)
	router.GET("/simulators/:udid/apps", h.BundlePaths)
	router.GET("/simulators/:udid/apps/:bundleID/data-dir", h.AppDataDir)
	router.POST("/simulators/:udid/launch-and-quit", h.LaunchAndQuit)
	router.POST("/simulators/:udid/erase", h.EraseSim)
	router.POST("/simulators/:udid/shutdown", h.ShutdownSim)
	router.DELETE("/simulators/:udid", h.DeleteSim)

	return router
}
