package models

import "github.com/anchore/vercheck/vercheck"

// PresenterConfig is everything a presenter may render.
type PresenterConfig struct {
	Report    vercheck.Report
	AppConfig interface{}
}
