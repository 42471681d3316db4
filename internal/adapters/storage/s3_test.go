package storage

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestReportKey(t *testing.T) {
	jobID := uuid.MustParse("6f1c2a9e-0000-4000-8000-000000000001")
	at := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	key := ReportKey("reports/department-sales/", jobID, at)

	assert.Equal(t, "reports/department-sales/2026/03/14/department-sales-20260314T092653Z-6f1c2a9e.xlsx", key)
}

func TestParseURI(t *testing.T) {
	tests := []struct {
		name        string
		uri         string
		expectedKey string
		expectedOK  bool
	}{
		{name: "bucket_and_key", uri: "s3://storefront/imports/batch.xlsx", expectedKey: "imports/batch.xlsx", expectedOK: true},
		{name: "local_path", uri: "/tmp/batch.xlsx", expectedOK: false},
		{name: "bucket_only", uri: "s3://storefront", expectedOK: false},
		{name: "trailing_slash", uri: "s3://storefront/", expectedOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, ok := ParseURI(tt.uri)
			assert.Equal(t, tt.expectedOK, ok)
			assert.Equal(t, tt.expectedKey, key)
		})
	}
}

func TestContentTypeFor(t *testing.T) {
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", ContentTypeFor("a/b.XLSX"))
	assert.Equal(t, "application/pdf", ContentTypeFor("a.pdf"))
	assert.Equal(t, "application/octet-stream", ContentTypeFor("noext"))
}
