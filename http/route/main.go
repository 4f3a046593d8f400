package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/clusterbreakdown/cost-report-service/http/controller"
	middlewares "github.com/clusterbreakdown/cost-report-service/http/middleware"
)

func SetupRouter(ctrl *controller.Controller) *gin.Engine {
	r := gin.Default()
	middles := middlewares.NewMiddlewares(ctrl)

	r.Use(middles.CORSMiddleware)
	r.Use(middles.RequestIDMiddleware)
	r.Use(middles.TelemetryMiddleware)

	r.GET("/healthz", ctrl.Healthz)

	apiRoutes := r.Group("/api/v1/reports")
	{
		apiRoutes.POST("/uploads", ctrl.UploadReport)
		apiRoutes.GET("/uploads", ctrl.ListUploads)
		apiRoutes.GET("/uploads/:filename/deployments", ctrl.GetDeployments)
		apiRoutes.GET("/uploads/:filename/dashboard", ctrl.Dashboard)
		apiRoutes.GET("/uploads/:filename/report/:deployment", ctrl.DeploymentReport)
		apiRoutes.DELETE("/uploads/:filename", ctrl.DeleteReport)
	}
	return r
}
