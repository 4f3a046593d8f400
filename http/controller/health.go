package controller

import (
	"github.com/gin-gonic/gin"

	"github.com/clusterbreakdown/cost-report-service/utils"
)

// Healthz probes the backing stores. Any failing dependency flips the
// response to 503 so orchestrators can take the instance out of rotation.
func (ctrl *Controller) Healthz(c *gin.Context) {
	ctx := c.Request.Context()
	checks := gin.H{}
	healthy := true

	if ctrl.Infra == nil {
		utils.JSON200(c, gin.H{"status": "ok"})
		return
	}

	if err := ctrl.Infra.Postgres.Ping(); err != nil {
		ctrl.Logger.ErrorWithContextf(ctx, err, "[Health] Postgres ping failed")
		checks["postgres"] = err.Error()
		healthy = false
	} else {
		checks["postgres"] = "ok"
	}

	if err := ctrl.Infra.Redis.Ping(ctx); err != nil {
		ctrl.Logger.ErrorWithContextf(ctx, err, "[Health] Redis ping failed")
		checks["redis"] = err.Error()
		healthy = false
	} else {
		checks["redis"] = "ok"
	}

	if err := ctrl.Infra.Minio.Health(ctx, ctrl.bucket()); err != nil {
		ctrl.Logger.ErrorWithContextf(ctx, err, "[Health] Object store probe failed")
		checks["object_store"] = err.Error()
		healthy = false
	} else {
		checks["object_store"] = "ok"
	}

	if !healthy {
		c.JSON(503, gin.H{"status": 503, "checks": checks})
		return
	}
	utils.JSON200(c, gin.H{"checks": checks})
}
