// internal/api/run_handlers.go
// Run-related HTTP handlers: create, inspect, stop, and download a run's
// schedule/Q-table CSVs.

package api

import (
	"net/http"

	"fllc-scheduler/internal/services"

	"github.com/gin-gonic/gin"
)

// HandleCreateRun handles POST /runs: validates and launches a new
// training run, returning its id immediately (training itself proceeds on
// its own goroutine — see services.TrainerService.StartRun).
func HandleCreateRun(trainer *services.TrainerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var cfg services.RunConfig
		if err := c.ShouldBindJSON(&cfg); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format"})
			return
		}

		runID, err := trainer.StartRun(c.Request.Context(), cfg)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"run_id": runID})
	}
}

// HandleGetRun handles GET /runs/:id.
func HandleGetRun(trainer *services.TrainerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		runID := c.Param("id")

		summary, err := trainer.GetRun(c.Request.Context(), runID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
			return
		}

		c.JSON(http.StatusOK, summary)
	}
}

// HandleStopRun handles POST /runs/:id/stop.
func HandleStopRun(trainer *services.TrainerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		runID := c.Param("id")

		if err := trainer.StopRun(c.Request.Context(), runID); err != nil {
			if err == services.ErrNotFound {
				c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to stop run"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "stop requested"})
	}
}

// HandleDownloadSchedule handles GET /runs/:id/schedule.csv?phase=optimal.
func HandleDownloadSchedule(trainer *services.TrainerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		runID := c.Param("id")
		phase := c.DefaultQuery("phase", "optimal")

		c.Header("Content-Type", "text/csv")
		c.Header("Content-Disposition", "attachment; filename="+phase+"_schedule.csv")

		if err := trainer.ExportSchedule(c.Request.Context(), c.Writer, runID, phase); err != nil {
			if err == services.ErrNotFound {
				c.JSON(http.StatusNotFound, gin.H{"error": "schedule not found for that run and phase"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to export schedule"})
			return
		}
	}
}

// HandleDownloadQTable handles GET /runs/:id/qtable.csv.
func HandleDownloadQTable(trainer *services.TrainerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		runID := c.Param("id")

		c.Header("Content-Type", "text/csv")
		c.Header("Content-Disposition", "attachment; filename=q_table.csv")

		if err := trainer.ExportQTable(c.Request.Context(), c.Writer, runID, "optimal"); err != nil {
			if err == services.ErrNotFound {
				c.JSON(http.StatusNotFound, gin.H{"error": "q-table not found for that run"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to export q-table"})
			return
		}
	}
}
