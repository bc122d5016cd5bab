package handler

import (
	"isac-cran-system/internal/calibration/solvedata"
	"isac-cran-system/internal/calibration/source"
	"isac-cran-system/internal/config"
	"isac-cran-system/internal/service"
	"isac-cran-system/pkg/response"

	"github.com/gin-gonic/gin"
)

type CalibrationHandler struct {
	service *service.CalibrationService
}

func NewCalibrationHandler(service *service.CalibrationService) *CalibrationHandler {
	return &CalibrationHandler{service: service}
}

// startRequest describes a calibration run against the built-in
// simulated source; a real deployment would instead reference a
// measurement set already staged for an MSReaderSource.
type startRequest struct {
	RunID         string `json:"run_id" binding:"required"`
	NumAntennas   int    `json:"num_antennas" binding:"required"`
	NumDirections int    `json:"num_directions" binding:"required"`
	NumChannels   int    `json:"num_channels" binding:"required"`
	NumTimeSlots  int    `json:"num_time_slots" binding:"required"`
	NumChunks     int    `json:"num_chunks" binding:"required"`
	PolarisationShape string `json:"polarisation_shape"`
}

func (h *CalibrationHandler) Start(c *gin.Context) {
	var req startRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	shape := solvedata.ParseShape(req.PolarisationShape)
	src := source.NewSimulatedSource(req.NumAntennas, req.NumDirections, req.NumChannels, req.NumTimeSlots, req.NumChunks, shape)

	stats, err := h.service.Run(c.Request.Context(), &service.RunRequest{
		RunID:  req.RunID,
		Config: config.GetCalibration(),
		Source: src,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{
		"run_id":                req.RunID,
		"total_solve_slots":     stats.TotalSolveSlots,
		"converged_solve_slots": stats.ConvergedSolveSlots,
	})
}

func (h *CalibrationHandler) GetRun(c *gin.Context) {
	runID := c.Param("id")
	if runID == "" {
		response.BadRequest(c, "run id is required")
		return
	}

	run, err := h.service.GetRun(c.Request.Context(), runID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, run)
}
