package format

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wagoodman/go-partybus"

	"github.com/anchore/vercheck/internal/bus"
	"github.com/anchore/vercheck/vercheck/event"
	"github.com/anchore/vercheck/vercheck/event/parsers"
	"github.com/anchore/vercheck/vercheck/presenter/models"
)

type capturingPublisher struct {
	events []partybus.Event
}

func (p *capturingPublisher) Publish(e partybus.Event) {
	p.events = append(p.events, e)
}

func capture(t *testing.T) *capturingPublisher {
	t.Helper()
	p := &capturingPublisher{}
	bus.Set(p)
	t.Cleanup(func() { bus.Set(nil) })
	return p
}

func Test_MakeReportWriter(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/report.tmpl", []byte("{{ len .Checks }}"), 0644))

	tests := []struct {
		name     string
		outputs  []string
		template string
		wantErr  assert.ErrorAssertionFunc
	}{
		{
			name:    "json",
			outputs: []string{"json"},
			wantErr: assert.NoError,
		},
		{
			name:    "table and json to file",
			outputs: []string{"table", "json=/out/report.json"},
			wantErr: assert.NoError,
		},
		{
			name:    "unknown",
			outputs: []string{"unknown"},
			wantErr: func(t assert.TestingT, err error, _ ...interface{}) bool {
				return assert.ErrorContains(t, err, `unsupported output format "unknown", supported formats are: [`)
			},
		},
		{
			name:    "two stdout formats",
			outputs: []string{"table", "json"},
			wantErr: func(t assert.TestingT, err error, _ ...interface{}) bool {
				return assert.ErrorContains(t, err, "only one report format may be written to stdout")
			},
		},
		{
			name:     "template",
			outputs:  []string{"template"},
			template: "/report.tmpl",
			wantErr:  assert.NoError,
		},
		{
			name:    "template without a file",
			outputs: []string{"template"},
			wantErr: func(t assert.TestingT, err error, _ ...interface{}) bool {
				return assert.ErrorContains(t, err, "no template file given")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := MakeReportWriter(tt.outputs, "", PresentationConfig{Fs: fs, TemplateFilePath: tt.template})
			tt.wantErr(t, err)
			if err == nil {
				assert.NoError(t, w.Close())
			} else {
				assert.Nil(t, w)
			}
		})
	}
}

func Test_openReportWriter(t *testing.T) {
	fs := afero.NewMemMapFs()
	cfg := PresentationConfig{Fs: fs}

	_, err := openReportWriter(cfg)
	assert.Error(t, err)

	w, err := openReportWriter(cfg,
		destination{format: TableFormat},
		destination{format: JSONFormat, path: "/reports/vercheck.json"},
	)
	require.NoError(t, err)
	require.Len(t, w.files, 1)
	require.NotNil(t, w.stdout)
	assert.Equal(t, TableFormat, *w.stdout)

	exists, err := afero.Exists(fs, "/reports/vercheck.json")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, w.Close())
}

func Test_reportWriter_Write(t *testing.T) {
	fs := afero.NewMemMapFs()
	cfg := PresentationConfig{Fs: fs}
	pub := capture(t)

	w, err := MakeReportWriter([]string{"table", "json=/out/report.json"}, "", cfg)
	require.NoError(t, err)

	require.NoError(t, w.Write(models.PresenterConfig{Report: models.GenerateReport()}))
	require.NoError(t, w.Close())

	contents, err := afero.ReadFile(fs, "/out/report.json")
	require.NoError(t, err)
	assert.Contains(t, string(contents), `"key": "docker:server"`)

	require.Len(t, pub.events, 1)
	assert.Equal(t, event.CheckFinished, pub.events[0].Type)

	pres, err := parsers.ParseCheckFinished(pub.events[0])
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, pres.Present(&buf))
	assert.True(t, strings.HasPrefix(strings.TrimSpace(buf.String()), "NAME"))
}

func Test_reportWriter_OnlyFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	pub := capture(t)

	w, err := MakeReportWriter([]string{"json"}, "/out/default.json", PresentationConfig{Fs: fs})
	require.NoError(t, err)
	require.NoError(t, w.Write(models.PresenterConfig{Report: models.GenerateReport()}))
	require.NoError(t, w.Close())

	exists, err := afero.Exists(fs, "/out/default.json")
	require.NoError(t, err)
	assert.True(t, exists)

	// the UI is still told that the check has finished
	require.Len(t, pub.events, 1)
	pres, err := parsers.ParseCheckFinished(pub.events[0])
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, pres.Present(&buf))
	assert.Empty(t, buf.String())
}

func Test_parseDestination(t *testing.T) {
	home, err := homedir.Dir()
	require.NoError(t, err)

	tests := []struct {
		option      string
		defaultFile string
		expected    destination
	}{
		{
			option:   "table",
			expected: destination{format: TableFormat},
		},
		{
			option:      "json",
			defaultFile: "/out/default.json",
			expected:    destination{format: JSONFormat, path: "/out/default.json"},
		},
		{
			option:      "json=/out/checks.json",
			defaultFile: "/out/default.json",
			expected:    destination{format: JSONFormat, path: "/out/checks.json"},
		},
		{
			option:   " template = ~/reports/checks.csv ",
			expected: destination{format: TemplateFormat, path: filepath.Join(home, "reports", "checks.csv")},
		},
		{
			option:   "yaml=/out/checks.yaml",
			expected: destination{format: UnknownFormat, path: "/out/checks.yaml"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.option, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseDestination(tt.option, tt.defaultFile))
		})
	}
}
