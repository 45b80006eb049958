package rtu

import (
	"sync"

	"github.com/google/uuid"
)

// UnitError records a unit excluded from the batch and why.
type UnitError struct {
	Name string
	Err  error
}

type BatchResult struct {
	RunID    string
	Results  []UnitResult
	Excluded []UnitError
}

// NoOp reports that nothing in the building was applicable. Not an error.
func (b BatchResult) NoOp() bool {
	return len(b.Results) == 0 && len(b.Excluded) == 0
}

// SizeBatch sizes every unit independently. Units share no state, so the
// work fans out over up to workers goroutines; results are collected by
// index and are identical to a sequential run. A failed unit is excluded
// and reported, the rest of the batch proceeds.
func SizeBatch(units []UnitInputs, workers int) BatchResult {
	out := BatchResult{RunID: uuid.NewString()}
	if len(units) == 0 {
		return out
	}
	if workers < 1 {
		workers = 1
	}
	if workers > len(units) {
		workers = len(units)
	}

	type slot struct {
		res UnitResult
		err error
	}
	slots := make([]slot, len(units))

	idx := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range idx {
				res, err := SizeUnit(units[i])
				slots[i] = slot{res: res, err: err}
			}
		}()
	}
	for i := range units {
		idx <- i
	}
	close(idx)
	wg.Wait()

	for i, s := range slots {
		if s.err != nil {
			out.Excluded = append(out.Excluded, UnitError{Name: units[i].Name, Err: s.err})
			continue
		}
		out.Results = append(out.Results, s.res)
	}
	return out
}
