package fulfillment

import (
	"context"
	"fmt"
	"log"
)

// step is one effect in a fulfillment pipeline. Required steps abort the
// pipeline on failure; best-effort steps are logged and skipped over. Loud
// best-effort steps log at error level because their failure needs out-of-band
// reconciliation (the ledger write).
type step struct {
	name     string
	required bool
	loud     bool
	run      func(ctx context.Context) error
}

// runSteps executes the steps in order and returns the first required
// failure, wrapped with the step name.
func runSteps(ctx context.Context, operation string, steps []step) error {
	for _, s := range steps {
		err := s.run(ctx)
		if err == nil {
			continue
		}
		if s.required {
			return fmt.Errorf("%s: %w", s.name, err)
		}
		if s.loud {
			log.Printf("[%s] ERROR step %q failed: %v", operation, s.name, err)
		} else {
			log.Printf("[%s] WARN step %q failed: %v", operation, s.name, err)
		}
	}
	return nil
}
