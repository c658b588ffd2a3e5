package queue

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prathamesh/auto-apply/internal/types"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestShouldSkip(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		reason string
		skip   bool
	}{
		{
			name:   "workday tenant",
			url:    "https://acme.wd5.myworkdayjobs.com/en-US/careers/job/123",
			reason: "myworkdayjobs.com",
			skip:   true,
		},
		{
			name:   "linkedin easy apply",
			url:    "https://www.linkedin.com/jobs/view/456",
			reason: "linkedin.com",
			skip:   true,
		},
		{
			name:   "case insensitive",
			url:    "https://jobs.LEVER.co/acme/789",
			reason: "lever.co",
			skip:   true,
		},
		{
			name: "direct company page",
			url:  "https://careers.acme.io/apply/ai-engineer",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reason, skip := ShouldSkip(tt.url)
			assert.Equal(t, tt.skip, skip)
			assert.Equal(t, tt.reason, reason)
		})
	}
}

func TestLoadJobsCSV(t *testing.T) {
	path := writeFile(t, "jobs.csv",
		"name,url\n"+
			"AI Engineer - Opplane,https://opplane.example.pt/apply/ai-engineer-279754\n"+
			"Backend Engineer,https://careers.acme.io/backend\n")

	jobs, err := LoadJobsCSV(path)
	require.NoError(t, err)

	require.Len(t, jobs, 2)
	assert.Equal(t, "AI Engineer - Opplane", jobs[0].Name)
	assert.Equal(t, "https://opplane.example.pt/apply/ai-engineer-279754", jobs[0].URL)
	assert.Equal(t, types.JobPending, jobs[0].Status)
	assert.NotEqual(t, uuid.Nil, jobs[0].ID)
	assert.NotEqual(t, jobs[0].ID, jobs[1].ID)
}

func TestLoadJobsCSVKeepsEmptyURLRows(t *testing.T) {
	// A row without a URL must stay in the queue so the results log shows
	// it failed, instead of the job silently vanishing.
	path := writeFile(t, "jobs.csv", "name,url\nMystery Role,\n")

	jobs, err := LoadJobsCSV(path)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Empty(t, jobs[0].URL)
}

func TestLoadJobsCSVHeaderOrderIrrelevant(t *testing.T) {
	path := writeFile(t, "jobs.csv", "url,name\nhttps://careers.acme.io/x,Role X\n")

	jobs, err := LoadJobsCSV(path)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "Role X", jobs[0].Name)
	assert.Equal(t, "https://careers.acme.io/x", jobs[0].URL)
}

func TestLoadJobsCSVMissingURLColumn(t *testing.T) {
	path := writeFile(t, "jobs.csv", "title,link\nRole,https://x\n")

	_, err := LoadJobsCSV(path)
	require.Error(t, err)

	var loadErr *LoadError
	assert.ErrorAs(t, err, &loadErr)
}

func TestLoadJobsJSON(t *testing.T) {
	path := writeFile(t, "jobs.json",
		`[{"name": "Role", "url": "https://careers.acme.io/x"}]`)

	jobs, err := LoadJobsJSON(path)
	require.NoError(t, err)

	require.Len(t, jobs, 1)
	assert.NotEqual(t, uuid.Nil, jobs[0].ID, "missing ids must be assigned")
	assert.Equal(t, types.JobPending, jobs[0].Status, "missing status must default to pending")
}

func TestLoadJobsJSONMalformed(t *testing.T) {
	path := writeFile(t, "jobs.json", `{"not": "an array"}`)

	_, err := LoadJobsJSON(path)
	require.Error(t, err)
}
