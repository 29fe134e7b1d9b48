package template

import (
	"fmt"
	"io"
	"reflect"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"

	"github.com/anchore/vercheck/vercheck/presenter/models"
)

// Presenter renders the report document through a user supplied Go text template.
type Presenter struct {
	fs       afero.Fs
	doc      models.Document
	template string
}

func NewPresenter(fs afero.Fs, cfg models.PresenterConfig, templateFile string) *Presenter {
	return &Presenter{
		fs:       fs,
		doc:      models.NewDocument(cfg),
		template: templateFile,
	}
}

func (p *Presenter) Present(w io.Writer) error {
	tmpl, err := Load(p.fs, p.template)
	if err != nil {
		return err
	}
	if err := tmpl.Execute(w, p.doc); err != nil {
		return fmt.Errorf("unable to execute supplied template: %w", err)
	}
	return nil
}

// Load reads and parses the template file at path; a leading "~" is expanded.
func Load(fs afero.Fs, path string) (*template.Template, error) {
	if path == "" {
		return nil, fmt.Errorf("no template file given")
	}

	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("unable to expand path %q: %w", path, err)
	}

	contents, err := afero.ReadFile(fs, expanded)
	if err != nil {
		return nil, fmt.Errorf("unable to get output template: %w", err)
	}

	tmpl, err := template.New(expanded).Funcs(FuncMap).Parse(string(contents))
	if err != nil {
		return nil, fmt.Errorf("unable to parse template: %w", err)
	}
	return tmpl, nil
}

// FuncMap holds the hermetic sprig functions plus getLastIndex, which helps templates avoid a trailing separator.
var FuncMap = func() template.FuncMap {
	f := sprig.HermeticTxtFuncMap()
	f["getLastIndex"] = func(collection interface{}) int {
		v := reflect.ValueOf(collection)
		if v.Kind() != reflect.Slice {
			return 0
		}
		return v.Len() - 1
	}
	return f
}()
