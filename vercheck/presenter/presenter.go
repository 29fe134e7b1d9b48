package presenter

import "io"

// Presenter is the main interface other Presenters need to implement
type Presenter interface {
	Present(io.Writer) error
}

// Func adapts an ordinary function into a Presenter.
type Func func(io.Writer) error

func (f Func) Present(w io.Writer) error {
	return f(w)
}

// Nop writes nothing. It is used when every report is written to a file.
var Nop Presenter = Func(func(io.Writer) error { return nil })
