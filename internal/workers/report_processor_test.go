// internal/workers/report_processor_test.go
package workers_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/mcanales/floreria-be/internal/core/domain"
	"github.com/mcanales/floreria-be/internal/core/ports"
	"github.com/mcanales/floreria-be/internal/workers"
	"github.com/mcanales/floreria-be/test/helpers"
	"github.com/mcanales/floreria-be/test/mocks"
)

type stubPublisher struct {
	url       string
	err       error
	published *ports.ExportFile
}

func (s *stubPublisher) Publish(_ context.Context, file *ports.ExportFile) (string, error) {
	s.published = file
	return s.url, s.err
}

func (s *stubPublisher) Download(context.Context, string) ([]byte, error) { return nil, nil }
func (s *stubPublisher) Exists(context.Context, string) (bool, error)    { return false, nil }
func (s *stubPublisher) Delete(context.Context, string) error            { return nil }

func exportTask(t *testing.T, jobID string) *asynq.Task {
	t.Helper()
	payload, err := json.Marshal(workers.ReportExportPayload{JobID: jobID})
	require.NoError(t, err)
	return asynq.NewTask(workers.TypeReportExport, payload)
}

func TestReportProcessor_ProcessReportExport(t *testing.T) {
	ctrl := gomock.NewController(t)
	reports := mocks.NewMockReportService(ctrl)
	file := &ports.ExportFile{Name: "Reporte_2026-03-14_17-45-12.xlsx", Data: []byte("xlsx")}
	reports.EXPECT().ExportDaily(gomock.Any()).Return(file, nil)

	publisher := &stubPublisher{url: "https://bucket.example/reportes/Reporte_2026-03-14_17-45-12.xlsx"}
	processor := workers.NewReportProcessor(reports, publisher, helpers.TestLogger())

	err := processor.ProcessReportExport(context.Background(), exportTask(t, "job-1"))
	require.NoError(t, err)
	assert.Equal(t, file, publisher.published)
}

func TestReportProcessor_ProcessReportExport_BuildFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	reports := mocks.NewMockReportService(ctrl)
	reports.EXPECT().ExportDaily(gomock.Any()).Return(nil, domain.ErrNoData)

	publisher := &stubPublisher{}
	processor := workers.NewReportProcessor(reports, publisher, helpers.TestLogger())

	err := processor.ProcessReportExport(context.Background(), exportTask(t, "job-2"))
	require.Error(t, err, "the error must surface so asynq retries the task")
	assert.Nil(t, publisher.published)
}

func TestReportProcessor_ProcessReportExport_PublishFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	reports := mocks.NewMockReportService(ctrl)
	reports.EXPECT().ExportDaily(gomock.Any()).
		Return(&ports.ExportFile{Name: "r.xlsx", Data: []byte("xlsx")}, nil)

	publisher := &stubPublisher{err: errors.New("bucket unreachable")}
	processor := workers.NewReportProcessor(reports, publisher, helpers.TestLogger())

	err := processor.ProcessReportExport(context.Background(), exportTask(t, "job-3"))
	require.Error(t, err)
}

func TestReportProcessor_ProcessReportExport_BadPayload(t *testing.T) {
	ctrl := gomock.NewController(t)
	reports := mocks.NewMockReportService(ctrl)
	processor := workers.NewReportProcessor(reports, &stubPublisher{}, helpers.TestLogger())

	task := asynq.NewTask(workers.TypeReportExport, []byte("not json"))
	err := processor.ProcessReportExport(context.Background(), task)
	require.Error(t, err)
}
