package sqlite

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestScanner implements the Scanner interface for testing
type TestScanner struct {
	data []interface{}
	err  error
}

func (ts *TestScanner) Scan(dest ...interface{}) error {
	if ts.err != nil {
		return ts.err
	}
	return assignRow(ts.data, dest)
}

// TestRows implements the Rows interface for testing
type TestRows struct {
	rows       [][]interface{}
	currentRow int
	err        error
}

func (tr *TestRows) Next() bool {
	if tr.err != nil || tr.currentRow >= len(tr.rows) {
		return false
	}
	tr.currentRow++
	return true
}

func (tr *TestRows) Scan(dest ...interface{}) error {
	if tr.currentRow == 0 || tr.currentRow > len(tr.rows) {
		return errors.New("no current row")
	}
	return assignRow(tr.rows[tr.currentRow-1], dest)
}

func (tr *TestRows) Err() error {
	return tr.err
}

func assignRow(row []interface{}, dest []interface{}) error {
	if len(dest) != len(row) {
		return errors.New("mismatch in number of destinations")
	}

	for i, d := range dest {
		switch v := d.(type) {
		case *int:
			*v = row[i].(int)
		case *string:
			*v = row[i].(string)
		case *sql.NullString:
			*v = row[i].(sql.NullString)
		}
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: true}
}

func projectRow(id, status string, startedAt sql.NullString) []interface{} {
	return []interface{}{id, "Website", "Relaunch", status, startedAt, sql.NullString{}, sql.NullString{}, sql.NullString{}}
}

func TestScanProject(t *testing.T) {
	started := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		scanner     *TestScanner
		expected    *Project
		expectError bool
	}{
		{
			name:    "Active project",
			scanner: &TestScanner{data: projectRow("p-1", "active", nullString("2024-01-15T10:00:00Z"))},
			expected: &Project{
				ID:          "p-1",
				Name:        "Website",
				Description: "Relaunch",
				Status:      "active",
				StartedAt:   &started,
			},
		},
		{
			name:    "Pending project without timestamps",
			scanner: &TestScanner{data: projectRow("p-2", "pending", sql.NullString{})},
			expected: &Project{
				ID:          "p-2",
				Name:        "Website",
				Description: "Relaunch",
				Status:      "pending",
			},
		},
		{
			name:        "Malformed timestamp",
			scanner:     &TestScanner{data: projectRow("p-3", "active", nullString("yesterday"))},
			expectError: true,
		},
		{
			name:        "Scan error",
			scanner:     &TestScanner{err: sql.ErrNoRows},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ScanProject(tt.scanner)
			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, result)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected.ID, result.ID)
			assert.Equal(t, tt.expected.Status, result.Status)
			if tt.expected.StartedAt == nil {
				assert.Nil(t, result.StartedAt)
			} else {
				require.NotNil(t, result.StartedAt)
				assert.True(t, tt.expected.StartedAt.Equal(*result.StartedAt))
			}
			assert.Nil(t, result.CancelledAt)
			assert.Nil(t, result.FinishedAt)
			assert.Nil(t, result.ForecastedAt)
		})
	}
}

func TestScanProject_PropagatesErrNoRows(t *testing.T) {
	_, err := ScanProject(&TestScanner{err: sql.ErrNoRows})
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestScanTasks(t *testing.T) {
	rows := &TestRows{
		rows: [][]interface{}{
			{"t-1", "p-1", 0, "Design", "", "completed", nullString("2024-01-15T10:00:00Z"), sql.NullString{}, nullString("2024-01-16T10:00:00Z"), sql.NullString{}},
			{"t-2", "p-1", 1, "Build", "", "pending", sql.NullString{}, sql.NullString{}, sql.NullString{}, nullString("2024-02-01T00:00:00Z")},
		},
	}

	tasks, err := ScanTasks(rows)
	require.NoError(t, err)
	require.Len(t, tasks, 2)

	assert.Equal(t, "t-1", tasks[0].ID)
	assert.Equal(t, 0, tasks[0].Position)
	assert.Equal(t, "completed", tasks[0].Status)
	require.NotNil(t, tasks[0].FinishedAt)
	assert.True(t, time.Date(2024, 1, 16, 10, 0, 0, 0, time.UTC).Equal(*tasks[0].FinishedAt))

	assert.Equal(t, "t-2", tasks[1].ID)
	assert.Equal(t, 1, tasks[1].Position)
	assert.Nil(t, tasks[1].StartedAt)
	require.NotNil(t, tasks[1].ForecastedAt)
}

func TestScanTasks_RowsError(t *testing.T) {
	_, err := ScanTasks(&TestRows{err: errors.New("cursor closed")})
	assert.EqualError(t, err, "cursor closed")
}

func TestScanProjects_Empty(t *testing.T) {
	projects, err := ScanProjects(&TestRows{})
	require.NoError(t, err)
	assert.Empty(t, projects)
}
