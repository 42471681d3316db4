// internal/core/services/departments_service_test.go
package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	redis_a "github.com/ammerola/storefront/internal/adapters/redis_adapter"
	"github.com/ammerola/storefront/internal/core/domain"
	"github.com/ammerola/storefront/internal/core/services"
	"github.com/ammerola/storefront/test/helpers"
	"github.com/ammerola/storefront/test/mocks"
)

func salesRows() []domain.DepartmentSales {
	return []domain.DepartmentSales{
		domain.NewDepartmentSales(domain.Department{
			DepartmentID:   1,
			DepartmentName: "Electronics",
			OverheadCosts:  decimal.RequireFromString("150.00"),
			TotalSales:     decimal.RequireFromString("115.00"),
		}),
	}
}

func TestDepartmentService_SalesByDepartment_UsesCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockDepartmentRepository(ctrl)

	testRedis := helpers.SetupTestRedis(t)
	cache := redis_a.NewCache(testRedis.Client, time.Minute, helpers.TestLogger())

	svc := services.NewDepartmentService(repo, cache, nil, time.Minute, helpers.TestLogger())

	repo.EXPECT().SalesReport(gomock.Any()).Return(salesRows(), nil).Times(1)

	first, err := svc.SalesByDepartment(context.Background())
	require.NoError(t, err)
	second, err := svc.SalesByDepartment(context.Background())
	require.NoError(t, err)

	require.Len(t, second, 1)
	assert.Equal(t, first[0].DepartmentName, second[0].DepartmentName)
	assert.True(t, second[0].Profit.Equal(decimal.RequireFromString("-35")))
	assert.True(t, testRedis.Server.Exists(services.SalesReportCacheKey))

	ttl := testRedis.Server.TTL(services.SalesReportCacheKey)
	assert.Equal(t, time.Minute, ttl)
}

func TestDepartmentService_SalesByDepartment_CacheFailureFallsBack(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockDepartmentRepository(ctrl)
	cache := mocks.NewMockCacheRepository(ctrl)

	svc := services.NewDepartmentService(repo, cache, nil, 0, helpers.TestLogger())

	cache.EXPECT().
		GetOrSet(gomock.Any(), services.SalesReportCacheKey, gomock.Any(), gomock.Any(), services.DefaultSalesReportTTL).
		Return(errors.New("redis get error: connection refused"))
	repo.EXPECT().SalesReport(gomock.Any()).Return(salesRows(), nil)

	rows, err := svc.SalesByDepartment(context.Background())
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestDepartmentService_SalesByDepartment_StoreErrorIsReturned(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockDepartmentRepository(ctrl)
	cache := mocks.NewMockCacheRepository(ctrl)

	svc := services.NewDepartmentService(repo, cache, nil, 0, helpers.TestLogger())

	storeErr := domain.NewStorageError("sales_report", errors.New("relation does not exist"))
	cache.EXPECT().
		GetOrSet(gomock.Any(), services.SalesReportCacheKey, gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, _ interface{}, fetch func() (interface{}, error), _ time.Duration) error {
			_, err := fetch()
			return err
		})
	repo.EXPECT().SalesReport(gomock.Any()).Return(nil, storeErr)

	_, err := svc.SalesByDepartment(context.Background())
	assert.ErrorIs(t, err, domain.ErrStorage)
}

func TestDepartmentService_CreateDepartment(t *testing.T) {
	tests := []struct {
		name          string
		deptName      string
		overhead      decimal.Decimal
		setupMocks    func(*mocks.MockDepartmentRepository, *mocks.MockCacheRepository)
		expectedError bool
		errorContains string
	}{
		{
			name:     "successful_create_invalidates_cache",
			deptName: "  Garden ",
			overhead: decimal.RequireFromString("2500.00"),
			setupMocks: func(r *mocks.MockDepartmentRepository, c *mocks.MockCacheRepository) {
				r.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, d *domain.Department) error {
						assert.Equal(t, "Garden", d.DepartmentName)
						assert.True(t, d.TotalSales.IsZero())
						d.DepartmentID = 4
						return nil
					})
				c.EXPECT().Delete(gomock.Any(), services.SalesReportCacheKey).Return(nil)
			},
		},
		{
			name:          "missing_name",
			deptName:      " ",
			overhead:      decimal.NewFromInt(10),
			setupMocks:    func(*mocks.MockDepartmentRepository, *mocks.MockCacheRepository) {},
			expectedError: true,
			errorContains: "department_name is required",
		},
		{
			name:          "negative_overhead",
			deptName:      "Garden",
			overhead:      decimal.NewFromInt(-10),
			setupMocks:    func(*mocks.MockDepartmentRepository, *mocks.MockCacheRepository) {},
			expectedError: true,
			errorContains: "overhead_costs cannot be negative",
		},
		{
			name:     "duplicate_name",
			deptName: "Electronics",
			overhead: decimal.NewFromInt(10),
			setupMocks: func(r *mocks.MockDepartmentRepository, _ *mocks.MockCacheRepository) {
				r.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					Return(domain.NewStorageError("create_department", errors.New("duplicate key value")))
			},
			expectedError: true,
			errorContains: "failed to create department",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := mocks.NewMockDepartmentRepository(ctrl)
			cache := mocks.NewMockCacheRepository(ctrl)
			tt.setupMocks(repo, cache)

			svc := services.NewDepartmentService(repo, cache, nil, 0, helpers.TestLogger())

			dept, err := svc.CreateDepartment(context.Background(), tt.deptName, tt.overhead)
			if tt.expectedError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(4), dept.DepartmentID)
		})
	}
}

func TestDepartmentService_RequestSalesReport(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockDepartmentRepository(ctrl)
	publisher := mocks.NewMockTaskPublisher(ctrl)

	svc := services.NewDepartmentService(repo, nil, publisher, 0, helpers.TestLogger())

	publisher.EXPECT().
		PublishSalesReport(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req domain.SalesReportRequest) error {
			assert.Equal(t, "supervisor", req.RequestedBy)
			return nil
		})

	req, err := svc.RequestSalesReport(context.Background(), "supervisor")
	require.NoError(t, err)
	assert.NotEmpty(t, req.JobID)

	noPublisher := services.NewDepartmentService(repo, nil, nil, 0, helpers.TestLogger())
	_, err = noPublisher.RequestSalesReport(context.Background(), "supervisor")
	assert.ErrorIs(t, err, services.ErrPublisherUnavailable)
}
