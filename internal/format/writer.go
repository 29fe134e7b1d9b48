package format

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/mitchellh/go-homedir"

	"github.com/anchore/vercheck/internal/bus"
	"github.com/anchore/vercheck/internal/file"
	"github.com/anchore/vercheck/internal/log"
	"github.com/anchore/vercheck/vercheck/presenter"
	"github.com/anchore/vercheck/vercheck/presenter/models"
	"github.com/anchore/vercheck/vercheck/presenter/template"
)

type ReportWriter interface {
	Write(result models.PresenterConfig) error
}

type ReportWriteCloser interface {
	ReportWriter
	io.Closer
}

var _ ReportWriteCloser = (*reportWriter)(nil)

// destination is one -o option: a format and, unless the report goes to stdout, the file receiving it.
type destination struct {
	format Format
	path   string
}

// MakeReportWriter opens every report destination named by outputs ("<format>" or "<format>=<file>"). Formats
// without a file go to defaultFile, or to stdout when that is empty; at most one format may go to stdout. The
// caller must Close the returned writer.
func MakeReportWriter(outputs []string, defaultFile string, cfg PresentationConfig) (ReportWriteCloser, error) {
	dests, err := parseDestinations(outputs, defaultFile, cfg)
	if err != nil {
		return nil, err
	}
	return openReportWriter(cfg, dests...)
}

func parseDestinations(outputs []string, defaultFile string, cfg PresentationConfig) ([]destination, error) {
	if len(outputs) == 0 {
		outputs = []string{TableFormat.String()}
	}

	var (
		errs   error
		dests  []destination
		stdout []string
	)
	for _, option := range outputs {
		d := parseDestination(option, defaultFile)

		switch d.format {
		case UnknownFormat:
			name, _, _ := strings.Cut(strings.TrimSpace(option), "=")
			errs = multierror.Append(errs, fmt.Errorf(`unsupported output format "%s", supported formats are: %+v`, name, AvailableFormats))
			continue
		case TemplateFormat:
			if _, err := template.Load(cfg.fs(), cfg.TemplateFilePath); err != nil {
				errs = multierror.Append(errs, fmt.Errorf("invalid template output: %w", err))
				continue
			}
		}

		if d.path == "" {
			stdout = append(stdout, d.format.String())
		}
		dests = append(dests, d)
	}

	if len(stdout) > 1 {
		errs = multierror.Append(errs, fmt.Errorf("only one report format may be written to stdout, got: %s", strings.Join(stdout, ", ")))
	}
	return dests, errs
}

func parseDestination(option, defaultFile string) destination {
	name, path, hasPath := strings.Cut(strings.TrimSpace(option), "=")
	if !hasPath {
		path = defaultFile
	}
	return destination{
		format: Parse(name),
		path:   expandPath(strings.TrimSpace(path)),
	}
}

func expandPath(p string) string {
	expanded, err := homedir.Expand(p)
	if err != nil {
		log.Warnf("could not expand report path=%q: %+v", p, err)
		return p
	}
	return expanded
}

// reportFile is an open file receiving one report format.
type reportFile struct {
	destination
	out   io.Writer
	close func() error
}

// reportWriter renders the report into every file destination and hands the stdout rendering (if any) to the UI.
type reportWriter struct {
	cfg    PresentationConfig
	files  []reportFile
	stdout *Format
}

func openReportWriter(cfg PresentationConfig, dests ...destination) (_ *reportWriter, err error) {
	if len(dests) == 0 {
		return nil, fmt.Errorf("no output options provided")
	}

	w := &reportWriter{cfg: cfg}
	defer func() {
		if err == nil {
			return
		}
		if closeErr := w.Close(); closeErr != nil {
			log.Warnf("unable to close report files: %+v", closeErr)
		}
	}()

	for _, d := range dests {
		if d.path == "" {
			f := d.format
			w.stdout = &f
			continue
		}

		out, closer, err := file.GetWriter(cfg.fs(), nil, d.path)
		if err != nil {
			return nil, err
		}
		w.files = append(w.files, reportFile{destination: d, out: out, close: closer})
	}

	return w, nil
}

// Write renders every file report and then publishes CheckFinished. The event is published even when nothing
// goes to stdout because it is what ends the event loop.
func (w *reportWriter) Write(s models.PresenterConfig) (errs error) {
	for _, f := range w.files {
		if err := w.render(f.format, s, f.out); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("unable to write %s report to %q: %w", f.format, f.path, err))
		}
	}

	if w.stdout == nil {
		bus.CheckFinished(presenter.Nop)
		return errs
	}

	// render up front so problems are returned here rather than surfacing in the UI
	var buf bytes.Buffer
	if err := w.render(*w.stdout, s, &buf); err != nil {
		return multierror.Append(errs, fmt.Errorf("unable to write %s report: %w", *w.stdout, err))
	}
	bus.CheckFinished(presenter.Func(func(out io.Writer) error {
		_, err := out.Write(buf.Bytes())
		return err
	}))
	return errs
}

func (w *reportWriter) render(f Format, s models.PresenterConfig, out io.Writer) error {
	pres := GetPresenter(f, w.cfg, s)
	if pres == nil {
		return fmt.Errorf("no presenter for format %q", f)
	}
	return pres.Present(out)
}

func (w *reportWriter) Close() (errs error) {
	for _, f := range w.files {
		if f.close == nil {
			continue
		}
		if err := f.close(); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	return errs
}
