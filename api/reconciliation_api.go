package api

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	parklane "github.com/dustinlapp44/ParklaneCompare-sub000"
	apimodel "github.com/dustinlapp44/ParklaneCompare-sub000/api/model"
	"github.com/dustinlapp44/ParklaneCompare-sub000/model"
)

// UploadTable handles a multipart table upload: the file plus side and column
// name fields.
func (a *Api) UploadTable(c *gin.Context) {
	var form apimodel.UploadForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := form.ValidateUploadForm(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unable to open uploaded file"})
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to read uploaded file"})
		return
	}

	upload, err := a.parklane.UploadTable(c.Request.Context(), data, fileHeader.Filename, form.Side, form.ColumnSpec())
	if err != nil {
		logrus.Errorf("upload failed: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, upload)
}

// CreateReconciliation starts a synchronous run and returns the finished
// record. The request may carry matcher overrides.
func (a *Api) CreateReconciliation(c *gin.Context) {
	var req apimodel.CreateReconciliationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.ValidateCreateReconciliationRequest(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cfg := model.DefaultMatcherConfig()
	if req.Matcher != nil {
		cfg = *req.Matcher
	}

	recon, err := a.parklane.StartReconciliation(c.Request.Context(), req.InvoiceUploadID, req.PaymentUploadID, cfg, req.DryRun)
	if err != nil {
		logrus.Errorf("reconciliation failed: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, recon)
}

// GetReconciliation returns a run record by id.
func (a *Api) GetReconciliation(c *gin.Context) {
	recon, err := a.parklane.GetReconciliation(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, recon)
}

// GetReconciliationReport streams the stored report of a run as CSV.
func (a *Api) GetReconciliationReport(c *gin.Context) {
	id := c.Param("id")
	rows, err := a.parklane.GetReportRows(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if len(rows) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "no report found for reconciliation"})
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s-report.csv", id))
	if err := parklane.WriteReportCSV(c.Writer, rows); err != nil {
		logrus.Errorf("streaming report %s: %v", id, err)
	}
}
