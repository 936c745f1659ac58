// internal/handlers/shift_test.go
package handlers_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/mcanales/floreria-be/internal/core/domain"
	"github.com/mcanales/floreria-be/internal/core/ports"
	"github.com/mcanales/floreria-be/internal/handlers"
	"github.com/mcanales/floreria-be/test/helpers"
	"github.com/mcanales/floreria-be/test/mocks"
)

func newShiftMux(service ports.ShiftService) *http.ServeMux {
	h := handlers.NewShiftHandler(service, helpers.TestLogger())
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/shift", h.State)
	mux.HandleFunc("POST /api/v1/shift/open", h.Open)
	mux.HandleFunc("POST /api/v1/shift/close", h.Close)
	return mux
}

func TestShiftHandler_State(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := mocks.NewMockShiftService(ctrl)
	openedAt := time.Date(2026, 3, 14, 8, 30, 0, 0, time.UTC)
	service.EXPECT().State(gomock.Any()).
		Return(domain.ShiftState{IsOpen: true, OpenedAt: &openedAt}, nil)

	rec := httptest.NewRecorder()
	newShiftMux(service).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/shift", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var state domain.ShiftState
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	assert.True(t, state.IsOpen)
	require.NotNil(t, state.OpenedAt)
}

func TestShiftHandler_Open(t *testing.T) {
	tests := []struct {
		name           string
		setupMocks     func(m *mocks.MockShiftService)
		expectedStatus int
	}{
		{
			name: "opens shift",
			setupMocks: func(m *mocks.MockShiftService) {
				openedAt := time.Now()
				m.EXPECT().Open(gomock.Any()).
					Return(domain.ShiftState{IsOpen: true, OpenedAt: &openedAt}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "empty catalog",
			setupMocks: func(m *mocks.MockShiftService) {
				m.EXPECT().Open(gomock.Any()).
					Return(domain.ShiftState{}, domain.ErrEmptyCatalog)
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "store failure",
			setupMocks: func(m *mocks.MockShiftService) {
				m.EXPECT().Open(gomock.Any()).
					Return(domain.ShiftState{}, errors.New("redis down"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			service := mocks.NewMockShiftService(ctrl)
			tt.setupMocks(service)

			rec := httptest.NewRecorder()
			newShiftMux(service).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/shift/open", nil))

			assert.Equal(t, tt.expectedStatus, rec.Code)
		})
	}
}

func TestShiftHandler_Close(t *testing.T) {
	tests := []struct {
		name           string
		setupMocks     func(m *mocks.MockShiftService)
		expectedStatus int
		validate       func(t *testing.T, rec *httptest.ResponseRecorder)
	}{
		{
			name: "streams the cierre workbook",
			setupMocks: func(m *mocks.MockShiftService) {
				m.EXPECT().Close(gomock.Any()).Return(&ports.ExportFile{
					Name: "Cierre_Turno_2026-03-14.xlsx",
					Data: []byte("xlsx-bytes"),
				}, nil)
			},
			expectedStatus: http.StatusOK,
			validate: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t,
					"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
					rec.Header().Get("Content-Type"))
				assert.Equal(t,
					`attachment; filename="Cierre_Turno_2026-03-14.xlsx"`,
					rec.Header().Get("Content-Disposition"))
				assert.Equal(t, fmt.Sprintf("%d", len("xlsx-bytes")), rec.Header().Get("Content-Length"))
				assert.Equal(t, "xlsx-bytes", rec.Body.String())
			},
		},
		{
			name: "nothing to export",
			setupMocks: func(m *mocks.MockShiftService) {
				m.EXPECT().Close(gomock.Any()).Return(nil, domain.ErrNoData)
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "encode failure",
			setupMocks: func(m *mocks.MockShiftService) {
				m.EXPECT().Close(gomock.Any()).
					Return(nil, fmt.Errorf("%w: disk full", domain.ErrCodec))
			},
			expectedStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			service := mocks.NewMockShiftService(ctrl)
			tt.setupMocks(service)

			rec := httptest.NewRecorder()
			newShiftMux(service).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/shift/close", nil))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.validate != nil {
				tt.validate(t, rec)
			}
		})
	}
}
