package location

import (
	"context"

	"github.com/i474232898/hajj-kiosk/internal/qibla"
)

// Static is a Source that reports one fixed position, for kiosks without a
// positioning receiver.
type Static qibla.Coordinate

func (s Static) Watch(ctx context.Context, out chan<- qibla.Coordinate) error {
	select {
	case out <- qibla.Coordinate(s):
	case <-ctx.Done():
		return nil
	}
	<-ctx.Done()
	return nil
}
