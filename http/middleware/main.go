package middlewares

import (
	"github.com/gin-gonic/gin"

	"github.com/clusterbreakdown/cost-report-service/http/controller"
)

type Middlewares struct {
	CORSMiddleware      gin.HandlerFunc
	RequestIDMiddleware gin.HandlerFunc
	TelemetryMiddleware gin.HandlerFunc
}

func NewMiddlewares(ctrl *controller.Controller) *Middlewares {
	return &Middlewares{
		CORSMiddleware:      CORSMiddleware(ctrl.Config.EnvConfig),
		RequestIDMiddleware: RequestIDMiddleware(),
		TelemetryMiddleware: TelemetryMiddleware(ctrl.Config.EnvConfig.Telemetry.ServiceName),
	}
}
