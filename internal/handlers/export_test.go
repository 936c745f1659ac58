// internal/handlers/export_test.go
package handlers_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/mcanales/floreria-be/internal/core/domain"
	"github.com/mcanales/floreria-be/internal/core/ports"
	"github.com/mcanales/floreria-be/internal/handlers"
	"github.com/mcanales/floreria-be/test/helpers"
	"github.com/mcanales/floreria-be/test/mocks"
)

func TestExportHandler_ExportExcel(t *testing.T) {
	tests := []struct {
		name           string
		setupMocks     func(m *mocks.MockReportService)
		expectedStatus int
	}{
		{
			name: "streams the workbook",
			setupMocks: func(m *mocks.MockReportService) {
				m.EXPECT().ExportDaily(gomock.Any()).Return(&ports.ExportFile{
					Name: "Reporte_2026-03-14_17-45-12.xlsx",
					Data: []byte("xlsx-bytes"),
				}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "nothing to export",
			setupMocks: func(m *mocks.MockReportService) {
				m.EXPECT().ExportDaily(gomock.Any()).Return(nil, domain.ErrNoData)
			},
			expectedStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			reports := mocks.NewMockReportService(ctrl)
			tt.setupMocks(reports)

			h := handlers.NewExportHandler(reports, nil, helpers.TestLogger())
			rec := httptest.NewRecorder()
			h.ExportExcel(rec, httptest.NewRequest(http.MethodGet, "/api/v1/export/excel", nil))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedStatus == http.StatusOK {
				assert.Contains(t, rec.Header().Get("Content-Disposition"), "Reporte_")
			}
		})
	}
}

func TestExportHandler_ExportAsync_NotConfigured(t *testing.T) {
	ctrl := gomock.NewController(t)
	reports := mocks.NewMockReportService(ctrl)

	h := handlers.NewExportHandler(reports, nil, helpers.TestLogger())
	rec := httptest.NewRecorder()
	h.ExportAsync(rec, httptest.NewRequest(http.MethodPost, "/api/v1/export/async", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

// multipartWorkbook builds a multipart body carrying data as an .xlsx upload
func multipartWorkbook(t *testing.T, field, mode string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="`+field+`"; filename="cierre.xlsx"`)
	header.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)

	if mode != "" {
		require.NoError(t, writer.WriteField("mode", mode))
	}
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func TestImportHandler_ImportExcel(t *testing.T) {
	tests := []struct {
		name           string
		buildRequest   func(t *testing.T) *http.Request
		setupMocks     func(m *mocks.MockImportService)
		expectedStatus int
		validateBody   func(t *testing.T, body []byte)
	}{
		{
			name: "imports in transfer mode by default",
			buildRequest: func(t *testing.T) *http.Request {
				body, contentType := multipartWorkbook(t, "file", "", []byte("xlsx-bytes"))
				req := httptest.NewRequest(http.MethodPost, "/api/v1/import/excel", body)
				req.Header.Set("Content-Type", contentType)
				return req
			},
			setupMocks: func(m *mocks.MockImportService) {
				m.EXPECT().Import(gomock.Any(), []byte("xlsx-bytes"), ports.ImportTransfer).
					Return(&ports.ImportSummary{UpdatedProducts: 3, ImportedSales: 2}, nil)
			},
			expectedStatus: http.StatusOK,
			validateBody: func(t *testing.T, body []byte) {
				var summary ports.ImportSummary
				require.NoError(t, json.Unmarshal(body, &summary))
				assert.Equal(t, 3, summary.UpdatedProducts)
				assert.Equal(t, 2, summary.ImportedSales)
			},
		},
		{
			name: "new_shift mode",
			buildRequest: func(t *testing.T) *http.Request {
				body, contentType := multipartWorkbook(t, "file", "new_shift", []byte("xlsx-bytes"))
				req := httptest.NewRequest(http.MethodPost, "/api/v1/import/excel", body)
				req.Header.Set("Content-Type", contentType)
				return req
			},
			setupMocks: func(m *mocks.MockImportService) {
				m.EXPECT().Import(gomock.Any(), []byte("xlsx-bytes"), ports.ImportNewShift).
					Return(&ports.ImportSummary{NewProducts: 5}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "unknown mode",
			buildRequest: func(t *testing.T) *http.Request {
				body, contentType := multipartWorkbook(t, "file", "merge", []byte("xlsx-bytes"))
				req := httptest.NewRequest(http.MethodPost, "/api/v1/import/excel", body)
				req.Header.Set("Content-Type", contentType)
				return req
			},
			setupMocks:     func(m *mocks.MockImportService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "missing file field",
			buildRequest: func(t *testing.T) *http.Request {
				body, contentType := multipartWorkbook(t, "archivo", "", []byte("xlsx-bytes"))
				req := httptest.NewRequest(http.MethodPost, "/api/v1/import/excel", body)
				req.Header.Set("Content-Type", contentType)
				return req
			},
			setupMocks:     func(m *mocks.MockImportService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "foreign file fails decoding",
			buildRequest: func(t *testing.T) *http.Request {
				body, contentType := multipartWorkbook(t, "file", "", []byte("not a workbook"))
				req := httptest.NewRequest(http.MethodPost, "/api/v1/import/excel", body)
				req.Header.Set("Content-Type", contentType)
				return req
			},
			setupMocks: func(m *mocks.MockImportService) {
				m.EXPECT().Import(gomock.Any(), gomock.Any(), ports.ImportTransfer).
					Return(nil, domain.ErrCodec)
			},
			expectedStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			importer := mocks.NewMockImportService(ctrl)
			tt.setupMocks(importer)

			h := handlers.NewImportHandler(importer, helpers.TestLogger(), 10)
			rec := httptest.NewRecorder()
			h.ImportExcel(rec, tt.buildRequest(t))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.validateBody != nil {
				tt.validateBody(t, rec.Body.Bytes())
			}
		})
	}
}
