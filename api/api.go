package api

import (
	"github.com/gin-gonic/gin"

	parklane "github.com/dustinlapp44/ParklaneCompare-sub000"
)

// Api wires the reconciliation service into HTTP handlers.
type Api struct {
	parklane *parklane.Parklane
	router   *gin.Engine
}

// NewAPI creates the handler set for a service instance.
func NewAPI(p *parklane.Parklane) *Api {
	r := gin.Default()
	a := &Api{parklane: p, router: r}

	r.POST("/uploads", a.UploadTable)
	r.POST("/reconciliations", a.CreateReconciliation)
	r.GET("/reconciliations/:id", a.GetReconciliation)
	r.GET("/reconciliations/:id/report.csv", a.GetReconciliationReport)

	return a
}

// Router exposes the configured gin engine.
func (a *Api) Router() *gin.Engine {
	return a.router
}
