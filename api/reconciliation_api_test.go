package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	parklane "github.com/dustinlapp44/ParklaneCompare-sub000"
	"github.com/dustinlapp44/ParklaneCompare-sub000/database/mocks"
	"github.com/dustinlapp44/ParklaneCompare-sub000/model"
)

func testRouter(ds *mocks.MockDataSource) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewAPI(parklane.NewParklane(ds)).Router()
}

func multipartUpload(t *testing.T, fields map[string]string, filename, contents string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(contents))
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestUploadEndpoint(t *testing.T) {
	t.Run("valid upload is accepted", func(t *testing.T) {
		ds := new(mocks.MockDataSource)
		ds.On("RecordUpload", mock.Anything, mock.Anything).Return(nil)
		ds.On("RecordUploadRows", mock.Anything, mock.Anything, mock.Anything).Return(nil)
		router := testRouter(ds)

		body, contentType := multipartUpload(t, map[string]string{
			"side":               model.SideInvoice,
			"id_column":          "InvoiceID",
			"description_column": "Combined",
			"amount_column":      "Gross",
		}, "invoices.csv", "InvoiceID,Combined,Gross\nI-1,JB100 siding,100\n")

		req := httptest.NewRequest(http.MethodPost, "/uploads", body)
		req.Header.Set("Content-Type", contentType)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		require.Equal(t, http.StatusCreated, resp.Code)
		var upload model.Upload
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &upload))
		assert.Equal(t, 1, upload.RecordCount)
	})

	t.Run("missing column fields are rejected", func(t *testing.T) {
		router := testRouter(new(mocks.MockDataSource))

		body, contentType := multipartUpload(t, map[string]string{
			"side": model.SideInvoice,
		}, "invoices.csv", "a,b\n1,2\n")

		req := httptest.NewRequest(http.MethodPost, "/uploads", body)
		req.Header.Set("Content-Type", contentType)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})
}

func TestCreateReconciliationEndpoint(t *testing.T) {
	t.Run("missing upload ids are rejected", func(t *testing.T) {
		router := testRouter(new(mocks.MockDataSource))

		req := httptest.NewRequest(http.MethodPost, "/reconciliations", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})
}

func TestGetReconciliationEndpoint(t *testing.T) {
	t.Run("unknown run returns 404", func(t *testing.T) {
		ds := new(mocks.MockDataSource)
		ds.On("GetReconciliation", mock.Anything, "nope").Return(nil, assert.AnError)
		router := testRouter(ds)

		req := httptest.NewRequest(http.MethodGet, "/reconciliations/nope", nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		assert.Equal(t, http.StatusNotFound, resp.Code)
	})

	t.Run("known run is returned", func(t *testing.T) {
		ds := new(mocks.MockDataSource)
		ds.On("GetReconciliation", mock.Anything, "recon_1").Return(&model.Reconciliation{
			ReconciliationID: "recon_1",
			Status:           model.StatusCompleted,
		}, nil)
		router := testRouter(ds)

		req := httptest.NewRequest(http.MethodGet, "/reconciliations/recon_1", nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		require.Equal(t, http.StatusOK, resp.Code)
		var recon model.Reconciliation
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &recon))
		assert.Equal(t, model.StatusCompleted, recon.Status)
	})
}

func TestReportEndpoint(t *testing.T) {
	t.Run("stored report streams as csv", func(t *testing.T) {
		amount := 100.0
		ds := new(mocks.MockDataSource)
		ds.On("GetReportRows", mock.Anything, "recon_1").Return([]model.ReportRow{
			{Status: model.StatusMatch, InvoiceDesc: "JB100", InvoiceAmount: &amount},
		}, nil)
		router := testRouter(ds)

		req := httptest.NewRequest(http.MethodGet, "/reconciliations/recon_1/report.csv", nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		require.Equal(t, http.StatusOK, resp.Code)
		assert.Contains(t, resp.Header().Get("Content-Type"), "text/csv")
		assert.Contains(t, resp.Body.String(), "Invoice Date")
		assert.Contains(t, resp.Body.String(), "JB100")
	})

	t.Run("empty report returns 404", func(t *testing.T) {
		ds := new(mocks.MockDataSource)
		ds.On("GetReportRows", mock.Anything, "recon_2").Return([]model.ReportRow{}, nil)
		router := testRouter(ds)

		req := httptest.NewRequest(http.MethodGet, "/reconciliations/recon_2/report.csv", nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		assert.Equal(t, http.StatusNotFound, resp.Code)
	})
}
