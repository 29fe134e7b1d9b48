package json

import (
	"encoding/json"
	"io"

	"github.com/anchore/vercheck/vercheck/presenter/models"
)

// Presenter writes the report document as indented JSON.
type Presenter struct {
	doc models.Document
}

func NewPresenter(cfg models.PresenterConfig) *Presenter {
	return &Presenter{doc: models.NewDocument(cfg)}
}

func (p *Presenter) Present(w io.Writer) error {
	enc := json.NewEncoder(w)
	// constraints such as ">=18" must survive unescaped
	enc.SetEscapeHTML(false)
	enc.SetIndent("", " ")
	return enc.Encode(&p.doc)
}
