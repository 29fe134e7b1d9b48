package format

import (
	"github.com/spf13/afero"

	"github.com/anchore/vercheck/vercheck/presenter"
	"github.com/anchore/vercheck/vercheck/presenter/json"
	"github.com/anchore/vercheck/vercheck/presenter/models"
	"github.com/anchore/vercheck/vercheck/presenter/table"
	"github.com/anchore/vercheck/vercheck/presenter/template"
)

type PresentationConfig struct {
	TemplateFilePath string
	Fs               afero.Fs
}

// GetPresenter retrieves a Presenter that matches a CLI option
func GetPresenter(format Format, c PresentationConfig, pb models.PresenterConfig) presenter.Presenter {
	switch format {
	case JSONFormat:
		return json.NewPresenter(pb)
	case TableFormat:
		return table.NewPresenter(pb)
	case TemplateFormat:
		return template.NewPresenter(c.fs(), pb, c.TemplateFilePath)
	default:
		return nil
	}
}

func (c PresentationConfig) fs() afero.Fs {
	if c.Fs == nil {
		return afero.NewOsFs()
	}
	return c.Fs
}
