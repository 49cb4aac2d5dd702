package output

import "context"

// Pacer spaces consecutive requests of one job. Wait is called before a
// request and Done once it has finished; the pause runs from Done.
type Pacer interface {
	Wait(ctx context.Context) error
	Done()
}

type PacerFactory func() Pacer
