package workers

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v3"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/storefront/internal/adapters/memstore"
	"github.com/ammerola/storefront/internal/adapters/queue"
	redis_a "github.com/ammerola/storefront/internal/adapters/redis_adapter"
	"github.com/ammerola/storefront/internal/core/domain"
	"github.com/ammerola/storefront/internal/pkg/config"
	"github.com/ammerola/storefront/test/helpers"
	"github.com/ammerola/storefront/test/mocks"
)

var catalogRows = [][]string{
	{"product_name", "department_name", "price", "stock_quantity"},
	{"Headphones", "Electronics", "59.99", "4"},
	{"Desk Lamp", "Home", "34.50", "2"},
}

func importTask(t *testing.T, path string, format domain.ImportFormat) (*asynq.Task, string) {
	t.Helper()
	req := domain.ImportRequest{JobID: uuid.New(), FilePath: path, Format: format}
	task, err := queue.NewProductImportTask(req)
	require.NoError(t, err)
	return task, req.JobID.String()
}

func TestImportProcessor_ProcessImport(t *testing.T) {
	files := config.FileProcessingConfig{ExcelMaxSizeMB: 1, PDFMaxSizeMB: 1, ProcessingTimeout: time.Minute}
	workbook := sheetBytes(t, catalogRows)

	tests := []struct {
		name          string
		path          func(t *testing.T) string
		setupMocks    func(inv *mocks.MockInventoryService, objects *mocks.MockObjectStore)
		expectedError error
		errorContains string
		claimReleased bool
	}{
		{
			name: "local_workbook",
			path: func(t *testing.T) string {
				return helpers.CreateTempFile(t, workbook, ".xlsx")
			},
			setupMocks: func(inv *mocks.MockInventoryService, _ *mocks.MockObjectStore) {
				inv.EXPECT().
					ImportProducts(gomock.Any(), gomock.Len(2)).
					Return(&domain.ImportResult{Imported: 2}, nil)
			},
		},
		{
			name: "workbook_from_object_storage",
			path: func(t *testing.T) string { return "s3://uploads/imports/spring.xlsx" },
			setupMocks: func(inv *mocks.MockInventoryService, objects *mocks.MockObjectStore) {
				objects.EXPECT().
					Download(gomock.Any(), "imports/spring.xlsx").
					Return(workbook, nil)
				inv.EXPECT().
					ImportProducts(gomock.Any(), gomock.Len(2)).
					Return(&domain.ImportResult{Imported: 1, Skipped: 1, Errors: []string{"row 2: bad"}}, nil)
			},
		},
		{
			name: "missing_file_is_not_retried",
			path: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "missing.xlsx")
			},
			setupMocks:    func(*mocks.MockInventoryService, *mocks.MockObjectStore) {},
			expectedError: asynq.SkipRetry,
			errorContains: "failed to stat import file",
			claimReleased: true,
		},
		{
			name: "oversized_download_is_not_retried",
			path: func(t *testing.T) string { return "s3://uploads/big.pdf" },
			setupMocks: func(_ *mocks.MockInventoryService, objects *mocks.MockObjectStore) {
				objects.EXPECT().
					Download(gomock.Any(), "big.pdf").
					Return(make([]byte, 2<<20), nil)
			},
			expectedError: ErrFileTooLarge,
			claimReleased: true,
		},
		{
			name: "save_failure_is_retried",
			path: func(t *testing.T) string {
				return helpers.CreateTempFile(t, workbook, ".xlsx")
			},
			setupMocks: func(inv *mocks.MockInventoryService, _ *mocks.MockObjectStore) {
				inv.EXPECT().
					ImportProducts(gomock.Any(), gomock.Any()).
					Return(&domain.ImportResult{}, errors.New("connection reset"))
			},
			errorContains: "failed to save products",
			claimReleased: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			inv := mocks.NewMockInventoryService(ctrl)
			objects := mocks.NewMockObjectStore(ctrl)
			tt.setupMocks(inv, objects)

			rdb := helpers.SetupTestRedis(t)
			cache := redis_a.NewCache(rdb.Client, time.Minute, helpers.TestLogger())
			p := NewImportProcessor(inv, objects, cache, files, helpers.TestLogger())

			task, jobID := importTask(t, tt.path(t), "")
			err := p.ProcessImport(context.Background(), task)

			if tt.expectedError != nil || tt.errorContains != "" {
				require.Error(t, err)
				if tt.expectedError != nil {
					assert.ErrorIs(t, err, tt.expectedError)
				}
				if tt.errorContains != "" {
					assert.Contains(t, err.Error(), tt.errorContains)
				}
			} else {
				require.NoError(t, err)
				var result domain.ImportResult
				require.NoError(t, cache.Get(context.Background(), ImportClaimKey(jobID), &result))
				assert.Positive(t, result.Imported)
			}

			if tt.claimReleased {
				assert.False(t, rdb.Server.Exists(ImportClaimKey(jobID)))
			}
		})
	}
}

func TestImportProcessor_SkipsClaimedJob(t *testing.T) {
	ctrl := gomock.NewController(t)
	inv := mocks.NewMockInventoryService(ctrl)
	inv.EXPECT().
		ImportProducts(gomock.Any(), gomock.Any()).
		Return(&domain.ImportResult{Imported: 2}, nil).
		Times(1)

	rdb := helpers.SetupTestRedis(t)
	cache := redis_a.NewCache(rdb.Client, time.Minute, helpers.TestLogger())
	p := NewImportProcessor(inv, nil, cache, config.FileProcessingConfig{}, helpers.TestLogger())

	path := helpers.CreateTempFile(t, sheetBytes(t, catalogRows), ".xlsx")
	task, _ := importTask(t, path, domain.ImportFormatXLSX)

	require.NoError(t, p.ProcessImport(context.Background(), task))
	require.NoError(t, p.ProcessImport(context.Background(), task))
}

func TestImportProcessor_InvalidPayload(t *testing.T) {
	p := NewImportProcessor(nil, nil, nil, config.FileProcessingConfig{}, helpers.TestLogger())

	err := p.ProcessImport(context.Background(), asynq.NewTask(queue.TypeProductImport, []byte("{")))
	require.Error(t, err)
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestImportProcessor_LoadProducts(t *testing.T) {
	p := NewImportProcessor(nil, nil, nil, config.FileProcessingConfig{}, helpers.TestLogger())
	ctx := context.Background()

	t.Run("detects_format_from_extension", func(t *testing.T) {
		path := helpers.CreateTempFile(t, sheetBytes(t, catalogRows), ".xlsx")
		products, err := p.LoadProducts(ctx, path, "")
		require.NoError(t, err)
		assert.Len(t, products, 2)
	})

	t.Run("unsupported_extension", func(t *testing.T) {
		_, err := p.LoadProducts(ctx, "catalog.csv", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported import file type")
	})

	t.Run("object_storage_not_configured", func(t *testing.T) {
		_, err := p.LoadProducts(ctx, "s3://uploads/catalog.xlsx", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "object storage not configured")
	})

	t.Run("local_file_over_limit", func(t *testing.T) {
		small := NewImportProcessor(nil, nil, nil, config.FileProcessingConfig{ExcelMaxSizeMB: 1}, helpers.TestLogger())
		path := helpers.CreateTempFile(t, make([]byte, 1<<20+1), ".xlsx")
		_, err := small.LoadProducts(ctx, path, "")
		assert.ErrorIs(t, err, ErrFileTooLarge)
	})
}

func TestReportProcessor_GenerateSalesReport(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	store.Seed(helpers.ScenarioProducts(), helpers.ScenarioDepartments())

	ctrl := gomock.NewController(t)
	objects := mocks.NewMockObjectStore(ctrl)

	rdb := helpers.SetupTestRedis(t)
	cache := redis_a.NewCache(rdb.Client, time.Minute, helpers.TestLogger())

	p := NewReportProcessor(store.Departments(), objects, cache, "reports", helpers.TestLogger())
	p.now = func() time.Time { return time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC) }

	req := domain.SalesReportRequest{JobID: uuid.New(), RequestedBy: "supervisor"}
	task, err := queue.NewSalesReportTask(req)
	require.NoError(t, err)

	var uploaded []byte
	objects.EXPECT().
		Upload(gomock.Any(), gomock.Any(), gomock.Any(), "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet").
		DoAndReturn(func(_ context.Context, key string, data io.Reader, _ string) (string, error) {
			assert.Contains(t, key, "reports/2026/03/14/department-sales-")
			uploaded, _ = io.ReadAll(data)
			return "s3://storefront/" + key, nil
		})
	objects.EXPECT().
		GetPresignedURL(gomock.Any(), gomock.Any(), ReportLinkTTL).
		Return("https://example.test/report.xlsx?sig=abc", nil)

	require.NoError(t, p.GenerateSalesReport(ctx, task))

	rows, err := reportDepartments(uploaded)
	require.NoError(t, err)
	assert.Equal(t, []string{"Electronics", "Home"}, rows)

	var result ReportResult
	require.NoError(t, cache.Get(ctx, ReportResultKey(req.JobID.String()), &result))
	assert.Equal(t, 2, result.Departments)
	assert.Equal(t, "https://example.test/report.xlsx?sig=abc", result.DownloadURL)
	assert.Contains(t, result.Location, "s3://storefront/reports/")
}

func TestReportProcessor_Failures(t *testing.T) {
	tests := []struct {
		name          string
		setupMocks    func(store *memstore.Store, objects *mocks.MockObjectStore)
		errorContains string
	}{
		{
			name: "report_query_fails",
			setupMocks: func(store *memstore.Store, _ *mocks.MockObjectStore) {
				store.FailOn(memstore.OpSalesReport, errors.New("db down"))
			},
			errorContains: "failed to load sales by department",
		},
		{
			name: "upload_fails",
			setupMocks: func(_ *memstore.Store, objects *mocks.MockObjectStore) {
				objects.EXPECT().
					Upload(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return("", errors.New("access denied"))
			},
			errorContains: "failed to upload sales report",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memstore.New()
			store.Seed(nil, helpers.ScenarioDepartments())
			objects := mocks.NewMockObjectStore(gomock.NewController(t))
			tt.setupMocks(store, objects)

			p := NewReportProcessor(store.Departments(), objects, nil, "reports", helpers.TestLogger())
			task, err := queue.NewSalesReportTask(domain.SalesReportRequest{JobID: uuid.New()})
			require.NoError(t, err)

			err = p.GenerateSalesReport(context.Background(), task)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorContains)
		})
	}
}

func TestReportProcessor_WithoutObjectStorage(t *testing.T) {
	store := memstore.New()
	p := NewReportProcessor(store.Departments(), nil, nil, "reports", helpers.TestLogger())
	task, err := queue.NewSalesReportTask(domain.SalesReportRequest{JobID: uuid.New()})
	require.NoError(t, err)

	err = p.GenerateSalesReport(context.Background(), task)
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestReportProcessor_PresignFailureStillSucceeds(t *testing.T) {
	store := memstore.New()
	store.Seed(nil, helpers.ScenarioDepartments())
	objects := mocks.NewMockObjectStore(gomock.NewController(t))
	objects.EXPECT().Upload(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("s3://storefront/r.xlsx", nil)
	objects.EXPECT().GetPresignedURL(gomock.Any(), gomock.Any(), gomock.Any()).Return("", errors.New("no credentials"))

	p := NewReportProcessor(store.Departments(), objects, nil, "reports", helpers.TestLogger())
	task, err := queue.NewSalesReportTask(domain.SalesReportRequest{JobID: uuid.New()})
	require.NoError(t, err)

	assert.NoError(t, p.GenerateSalesReport(context.Background(), task))
}

// reportDepartments returns the department column of an exported workbook
func reportDepartments(data []byte) ([]string, error) {
	file, err := xlsx.OpenBinary(data)
	if err != nil {
		return nil, err
	}
	var names []string
	err = file.Sheets[0].ForEachRow(func(r *xlsx.Row) error {
		id, name := r.GetCell(0), r.GetCell(1)
		if id == nil || name == nil || id.Value == "" || id.Value == salesHeaders[0] {
			return nil
		}
		if _, err := id.Int(); err == nil {
			names = append(names, name.Value)
		}
		return nil
	})
	return names, err
}

type fakeMailer struct {
	sent [][]byte
	to   []string
	err  error
}

func (m *fakeMailer) Send(_ context.Context, _ string, to []string, msg []byte) error {
	if m.err != nil {
		return m.err
	}
	m.to = to
	m.sent = append(m.sent, msg)
	return nil
}

func TestNotificationProcessor_SendLowStockAlert(t *testing.T) {
	alert := domain.LowStockAlert{ItemID: 3, ProductName: "Desk Lamp", StockQuantity: 2, Threshold: 5}
	task, err := queue.NewLowStockTask(alert)
	require.NoError(t, err)

	cfg := config.NotificationsConfig{
		From:          "store@example.test",
		Recipients:    []string{"ops@example.test", "buyer@example.test"},
		RatePerSecond: 100,
		Burst:         1,
	}

	t.Run("sends_to_recipients", func(t *testing.T) {
		mailer := &fakeMailer{}
		p := NewNotificationProcessor(mailer, cfg, helpers.TestLogger())

		require.NoError(t, p.SendLowStockAlert(context.Background(), task))
		require.Len(t, mailer.sent, 1)
		assert.Equal(t, cfg.Recipients, mailer.to)
		assert.True(t, bytes.Contains(mailer.sent[0], []byte("Subject: Low stock: Desk Lamp (2 left)")))
		assert.True(t, bytes.Contains(mailer.sent[0], []byte("below the threshold of 5")))
	})

	t.Run("without_mailer_only_logs", func(t *testing.T) {
		p := NewNotificationProcessor(nil, cfg, helpers.TestLogger())
		assert.NoError(t, p.SendLowStockAlert(context.Background(), task))
	})

	t.Run("without_recipients_only_logs", func(t *testing.T) {
		mailer := &fakeMailer{}
		p := NewNotificationProcessor(mailer, config.NotificationsConfig{RatePerSecond: 1}, helpers.TestLogger())
		require.NoError(t, p.SendLowStockAlert(context.Background(), task))
		assert.Empty(t, mailer.sent)
	})

	t.Run("send_failure_is_returned", func(t *testing.T) {
		p := NewNotificationProcessor(&fakeMailer{err: errors.New("relay refused")}, cfg, helpers.TestLogger())
		err := p.SendLowStockAlert(context.Background(), task)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to send low stock alert")
	})

	t.Run("invalid_payload_is_not_retried", func(t *testing.T) {
		p := NewNotificationProcessor(&fakeMailer{}, cfg, helpers.TestLogger())
		err := p.SendLowStockAlert(context.Background(), asynq.NewTask(queue.TypeLowStockAlert, []byte("nope")))
		assert.ErrorIs(t, err, asynq.SkipRetry)
	})
}

// smtpRelay serves one session on a loopback port. A silent relay accepts
// the connection and never greets.
func smtpRelay(t *testing.T, silent bool) (config.NotificationsConfig, <-chan string) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	host, portText, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	port, err := strconv.Atoi(portText)
	require.NoError(t, err)

	received := make(chan string, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		if silent {
			_, _ = io.Copy(io.Discard, conn)
			return
		}

		reply := func(line string) { fmt.Fprintf(conn, "%s\r\n", line) }
		r := bufio.NewReader(conn)
		reply("220 relay.test ESMTP")

		var body strings.Builder
		inData := false
		for {
			line, err := r.ReadString('\n')
			if err != nil {
				return
			}
			if inData {
				if line == ".\r\n" {
					inData = false
					received <- body.String()
					reply("250 queued")
					continue
				}
				body.WriteString(line)
				continue
			}
			cmd := strings.ToUpper(strings.TrimSpace(line))
			switch {
			case strings.HasPrefix(cmd, "EHLO"), strings.HasPrefix(cmd, "HELO"):
				reply("250 relay.test")
			case strings.HasPrefix(cmd, "DATA"):
				inData = true
				reply("354 go ahead")
			case strings.HasPrefix(cmd, "QUIT"):
				reply("221 bye")
				return
			default:
				reply("250 OK")
			}
		}
	}()

	return config.NotificationsConfig{SMTPHost: host, SMTPPort: port}, received
}

func TestSMTPMailer_Send(t *testing.T) {
	msg := []byte("Subject: Low stock\r\n\r\nDesk Lamp is low\r\n")
	to := []string{"ops@example.test", "buyer@example.test"}

	t.Run("delivers_over_one_session", func(t *testing.T) {
		cfg, received := smtpRelay(t, false)

		require.NoError(t, NewSMTPMailer(cfg).Send(context.Background(), "store@example.test", to, msg))

		select {
		case body := <-received:
			assert.Contains(t, body, "Desk Lamp is low")
		case <-time.After(time.Second):
			t.Fatal("relay never received the message")
		}
	})

	t.Run("cancelled_context_does_not_dial", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := NewSMTPMailer(config.NotificationsConfig{SMTPHost: "127.0.0.1", SMTPPort: 1}).
			Send(ctx, "store@example.test", to, msg)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("cancel_aborts_stalled_session", func(t *testing.T) {
		cfg, _ := smtpRelay(t, true)

		ctx, cancel := context.WithCancel(context.Background())
		time.AfterFunc(50*time.Millisecond, cancel)

		start := time.Now()
		err := NewSMTPMailer(cfg).Send(ctx, "store@example.test", to, msg)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Less(t, time.Since(start), 5*time.Second)
	})
}
