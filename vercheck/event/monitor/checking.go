package monitor

import "github.com/wagoodman/go-progress"

type Checking struct {
	BinariesChecked progress.Progressable
	Failed          progress.Monitorable
	NotFound        progress.Monitorable
}
